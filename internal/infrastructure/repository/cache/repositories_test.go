package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/darts-league/internal/platform/cache"
)

type countingFixtureRepository struct {
	*memory.FixtureRepository
	gets int
}

func (r *countingFixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	r.gets++
	return r.FixtureRepository.GetByID(ctx, fixtureID)
}

// slowFixtureRepository reads the stored fixture, then parks the read until
// resume is closed while paused is set.
type slowFixtureRepository struct {
	*memory.FixtureRepository
	paused atomic.Bool
	read   chan struct{}
	resume chan struct{}
}

func (r *slowFixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	item, ok, err := r.FixtureRepository.GetByID(ctx, fixtureID)
	if r.paused.Load() {
		close(r.read)
		<-r.resume
	}
	return item, ok, err
}

func TestFixtureRepository_ReadOverlappingUpsertDoesNotRestoreStaleFixture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &slowFixtureRepository{
		FixtureRepository: memory.NewFixtureRepository(memory.SeedFixtures()),
		read:              make(chan struct{}),
		resume:            make(chan struct{}),
	}
	repo := NewFixtureRepository(next, basecache.NewStore(time.Minute))

	next.paused.Store(true)
	staleRead := make(chan fixture.Fixture, 1)
	go func() {
		item, _, _ := repo.GetByID(ctx, "fx-premier-001")
		staleRead <- item
	}()
	<-next.read
	next.paused.Store(false)

	current, _, err := next.FixtureRepository.GetByID(ctx, "fx-premier-001")
	if err != nil {
		t.Fatalf("get stored fixture: %v", err)
	}
	current.Venue = "Kings Head"
	if err := repo.Upsert(ctx, current); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	close(next.resume)
	if got := <-staleRead; got.Venue == "Kings Head" {
		t.Fatalf("expected the overlapping read to see the pre-write fixture")
	}

	got, _, err := repo.GetByID(ctx, "fx-premier-001")
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	if got.Venue != "Kings Head" {
		t.Fatalf("expected cached read after upsert to see the write, got venue %q", got.Venue)
	}
}

func TestFixtureRepository_UpsertInvalidatesCachedFixture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &countingFixtureRepository{FixtureRepository: memory.NewFixtureRepository(memory.SeedFixtures())}
	repo := NewFixtureRepository(next, basecache.NewStore(time.Minute))

	first, ok, err := repo.GetByID(ctx, "fx-premier-001")
	if err != nil || !ok {
		t.Fatalf("get fixture: ok=%v err=%v", ok, err)
	}
	if _, _, err := repo.GetByID(ctx, "fx-premier-001"); err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	if next.gets != 1 {
		t.Fatalf("expected cached read, got %d loads", next.gets)
	}

	first.Venue = "Kings Head"
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, _, err := repo.GetByID(ctx, "fx-premier-001")
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	if got.Venue != "Kings Head" || next.gets != 2 {
		t.Fatalf("expected reload after upsert: venue=%s loads=%d", got.Venue, next.gets)
	}

	list, err := repo.ListByDivision(ctx, memory.DivisionIDPremier)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Venue != "Kings Head" {
		t.Fatalf("expected division list to reflect upsert, got %s", list[0].Venue)
	}
}
