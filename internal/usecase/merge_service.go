package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/domain/reconcile"
	"github.com/riskibarqy/darts-league/internal/domain/user"
	"github.com/riskibarqy/darts-league/internal/platform/logging"
	"github.com/riskibarqy/darts-league/internal/platform/resilience"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultMergeWorkerCount = 4

type MergeServiceConfig struct {
	WorkerCount int
}

// MergeService reconciles the two team submissions into the canonical fixture.
type MergeService struct {
	store    sheetStore
	guard    *resilience.InFlight
	reporter ErrorReporter
	logger   *logging.Logger
	workers  int
	now      func() time.Time
}

func NewMergeService(
	fixtures fixture.Repository,
	submissions fixture.SubmissionRepository,
	guard *resilience.InFlight,
	reporter ErrorReporter,
	logger *logging.Logger,
	cfg MergeServiceConfig,
) *MergeService {
	if guard == nil {
		guard = resilience.NewInFlight()
	}
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.WorkerCount
	if workers < 1 {
		workers = defaultMergeWorkerCount
	}
	return &MergeService{
		store:    sheetStore{fixtures: fixtures, submissions: submissions},
		guard:    guard,
		reporter: reporterOrNop(reporter),
		logger:   logger,
		workers:  workers,
		now:      time.Now,
	}
}

type mergeInputs struct {
	fixture fixture.Fixture
	home    *fixture.Submission
	away    *fixture.Submission
}

// Plan returns the merge decisions for one fixture. Non-admins get the same
// decisions with ReadOnly set.
func (s *MergeService) Plan(ctx context.Context, principal user.Principal, fixtureID string) (reconcile.Plan, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MergeService.Plan", attribute.String("fixture.id", fixtureID))
	var err error
	defer func() { endSpan(span, err) }()

	if err = requireAuthenticated(principal); err != nil {
		return reconcile.Plan{}, err
	}
	in, err := s.load(ctx, fixtureID)
	if err != nil {
		return reconcile.Plan{}, err
	}
	return s.build(principal, in), nil
}

func (s *MergeService) AcceptMatch(ctx context.Context, principal user.Principal, fixtureID string, index int, src reconcile.Source) (reconcile.Plan, error) {
	return s.command(ctx, principal, fixtureID, "AcceptMatch", func(f *fixture.Fixture, plan reconcile.Plan, _ mergeInputs) error {
		if index < 0 || index >= len(f.Matches) {
			return fmt.Errorf("%w: match index %d out of range [0,%d)", ErrInvalidInput, index, len(f.Matches))
		}
		return reconcile.AcceptMatch(f, plan, index, src)
	})
}

func (s *MergeService) MergeAccolade(ctx context.Context, principal user.Principal, fixtureID string, category reconcile.Category, side fixture.Side) (reconcile.Plan, error) {
	return s.command(ctx, principal, fixtureID, "MergeAccolade", func(f *fixture.Fixture, plan reconcile.Plan, in mergeInputs) error {
		submission := in.home
		if side == fixture.SideAway {
			submission = in.away
		}
		return reconcile.MergeAccolade(f, plan, category, side, submission)
	})
}

func (s *MergeService) MergeManOfTheMatch(ctx context.Context, principal user.Principal, fixtureID string, side fixture.Side) (reconcile.Plan, error) {
	return s.command(ctx, principal, fixtureID, "MergeManOfTheMatch", func(f *fixture.Fixture, plan reconcile.Plan, _ mergeInputs) error {
		return reconcile.MergeManOfTheMatch(f, plan, side)
	})
}

// Pending returns the ids of the division's fixtures that still have at
// least one open merge action, sorted.
func (s *MergeService) Pending(ctx context.Context, principal user.Principal, divisionID string) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MergeService.Pending", attribute.String("division.id", divisionID))
	var err error
	defer func() { endSpan(span, err) }()

	if err = requireAdmin(principal); err != nil {
		return nil, err
	}
	divisionID = strings.TrimSpace(divisionID)
	if divisionID == "" {
		err = fmt.Errorf("%w: division id is required", ErrInvalidInput)
		return nil, err
	}

	fixtures, err := s.store.fixtures.ListByDivision(ctx, divisionID)
	if err != nil {
		err = fmt.Errorf("list fixtures by division: %w", err)
		return nil, err
	}
	if len(fixtures) == 0 {
		return []string{}, nil
	}

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		err = fmt.Errorf("create worker pool: %w", err)
		return nil, err
	}
	defer workerPool.Release()

	var (
		mu       sync.Mutex
		pending  = make([]string, 0)
		firstErr error
		workers  sync.WaitGroup
	)
	for _, item := range fixtures {
		item := item
		workers.Add(1)
		if submitErr := workerPool.Submit(func() {
			defer workers.Done()

			open, taskErr := s.hasOpenActions(ctx, item)
			mu.Lock()
			defer mu.Unlock()
			if taskErr != nil {
				if firstErr == nil {
					firstErr = taskErr
				}
				return
			}
			if open {
				pending = append(pending, item.ID)
			}
		}); submitErr != nil {
			workers.Done()
			err = fmt.Errorf("submit task to worker pool: %w", submitErr)
			workers.Wait()
			return nil, err
		}
	}
	workers.Wait()

	if firstErr != nil {
		err = firstErr
		return nil, err
	}
	sort.Strings(pending)
	return pending, nil
}

func (s *MergeService) hasOpenActions(ctx context.Context, f fixture.Fixture) (bool, error) {
	home, err := s.store.loadSubmission(ctx, f.ID, fixture.SideHome)
	if err != nil {
		return false, err
	}
	away, err := s.store.loadSubmission(ctx, f.ID, fixture.SideAway)
	if err != nil {
		return false, err
	}
	n := len(f.Matches)
	return reconcile.Build(f, padSubmission(home, n), padSubmission(away, n)).HasOpenActions(), nil
}

// command re-plans against the latest stored data, applies one action and
// persists the whole fixture. Nothing is written unless apply succeeds.
func (s *MergeService) command(
	ctx context.Context,
	principal user.Principal,
	fixtureID string,
	op string,
	apply func(f *fixture.Fixture, plan reconcile.Plan, in mergeInputs) error,
) (reconcile.Plan, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MergeService."+op, attribute.String("fixture.id", fixtureID))
	var err error
	defer func() { endSpan(span, err) }()

	if err = requireAdmin(principal); err != nil {
		return reconcile.Plan{}, err
	}

	release, err := s.guard.Acquire(fixtureGuardKey(strings.TrimSpace(fixtureID)))
	if err != nil {
		err = fmt.Errorf("%w: fixture %s is being saved", ErrConflict, fixtureID)
		return reconcile.Plan{}, err
	}
	defer release()

	in, err := s.load(ctx, fixtureID)
	if err != nil {
		reportUnexpected(ctx, s.reporter, op, err, "fixture_id", fixtureID)
		return reconcile.Plan{}, err
	}

	plan := reconcile.Build(in.fixture, in.home, in.away)
	updated := in.fixture.Clone()
	if err = apply(&updated, plan, in); err != nil {
		if errors.Is(err, reconcile.ErrNoOffer) {
			err = fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return reconcile.Plan{}, err
	}

	updated.UpdatedAt = s.now().UTC()
	if err = s.store.fixtures.Upsert(ctx, updated); err != nil {
		err = fmt.Errorf("upsert fixture: %w", err)
		reportUnexpected(ctx, s.reporter, op, err, "fixture_id", fixtureID)
		return reconcile.Plan{}, err
	}

	s.logger.InfoContext(ctx, "merged submission into fixture",
		"operation", op,
		"fixture_id", updated.ID,
		"user_id", principal.UserID,
	)
	in.fixture = updated
	return s.build(principal, in), nil
}

// load reads the fixture and both submissions concurrently.
func (s *MergeService) load(ctx context.Context, fixtureID string) (mergeInputs, error) {
	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return mergeInputs{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	var in mergeInputs
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		f, err := s.store.loadFixture(ctx, fixtureID)
		in.fixture = f
		return err
	})
	p.Go(func(ctx context.Context) error {
		home, err := s.store.loadSubmission(ctx, fixtureID, fixture.SideHome)
		in.home = home
		return err
	})
	p.Go(func(ctx context.Context) error {
		away, err := s.store.loadSubmission(ctx, fixtureID, fixture.SideAway)
		in.away = away
		return err
	})
	if err := p.Wait(); err != nil {
		return mergeInputs{}, err
	}

	n := len(in.fixture.Matches)
	in.home = padSubmission(in.home, n)
	in.away = padSubmission(in.away, n)
	return in, nil
}

func (s *MergeService) build(principal user.Principal, in mergeInputs) reconcile.Plan {
	plan := reconcile.Build(in.fixture, in.home, in.away)
	plan.ReadOnly = !principal.IsAdmin()
	return plan
}
