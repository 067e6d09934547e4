package cache

import (
	"context"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	basecache "github.com/riskibarqy/darts-league/internal/platform/cache"
)

// FixtureRepository is a read-through cache over fixture.Repository.
// Writes go to next and drop the affected keys.
type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, fixtureKey(fixtureID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, fixtureID)
		if err != nil {
			return nil, err
		}
		return cachedFixtureByID{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return fixture.Fixture{}, false, err
	}

	cached, _ := v.(cachedFixtureByID)
	return cached.value.Clone(), cached.exists, nil
}

func (r *FixtureRepository) ListByDivision(ctx context.Context, divisionID string) ([]fixture.Fixture, error) {
	v, err := r.cache.GetOrLoad(ctx, divisionKey(divisionID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByDivision(ctx, divisionID)
		if err != nil {
			return nil, err
		}
		return cloneFixtures(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return cloneFixtures(items), nil
}

func (r *FixtureRepository) Upsert(ctx context.Context, item fixture.Fixture) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, fixtureKey(item.ID), divisionKey(item.DivisionID))
	return nil
}

type cachedFixtureByID struct {
	value  fixture.Fixture
	exists bool
}

func fixtureKey(fixtureID string) string {
	return "fixture:id:" + fixtureID
}

func divisionKey(divisionID string) string {
	return "fixture:division:" + divisionID
}

func cloneFixtures(items []fixture.Fixture) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}
