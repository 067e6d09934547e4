package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[string]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	byID := make(map[string]fixture.Fixture, len(fixtures))
	for _, item := range fixtures {
		byID[item.ID] = item.Clone()
	}

	return &FixtureRepository{fixtures: byID}
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.fixtures[fixtureID]
	if !ok {
		return fixture.Fixture{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *FixtureRepository) ListByDivision(_ context.Context, divisionID string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.fixtures {
		if item.DivisionID == divisionID {
			out = append(out, item.Clone())
		}
	}
	sortFixtures(out)
	return out, nil
}

func (r *FixtureRepository) Upsert(_ context.Context, item fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fixtures[item.ID] = item.Clone()
	return nil
}

func sortFixtures(items []fixture.Fixture) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].ID < items[j].ID
	})
}
