package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/domain/reconcile"
	"github.com/riskibarqy/darts-league/internal/infrastructure/repository/memory"
	fixturemock "github.com/riskibarqy/darts-league/internal/mocks/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/platform/logging"
	"github.com/riskibarqy/darts-league/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mergeFixture struct {
	service     *MergeService
	fixtures    *memory.FixtureRepository
	submissions *memory.SubmissionRepository
	guard       *resilience.InFlight
}

func newMergeFixture(t *testing.T, f fixture.Fixture, subs ...fixture.Submission) mergeFixture {
	t.Helper()

	fixtures := memory.NewFixtureRepository([]fixture.Fixture{f})
	submissions := memory.NewSubmissionRepository(subs)
	guard := resilience.NewInFlight()
	return mergeFixture{
		service:     NewMergeService(fixtures, submissions, guard, nil, logging.NewNop(), MergeServiceConfig{WorkerCount: 2}),
		fixtures:    fixtures,
		submissions: submissions,
		guard:       guard,
	}
}

func submissionOf(fixtureID string, author fixture.Side, matches ...*fixture.Match) fixture.Submission {
	return fixture.Submission{FixtureID: fixtureID, Author: author, Sheet: fixture.Sheet{Matches: matches}}
}

func TestMergeService_AcceptAgreedMatchWritesOneSlot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTestFixture("fx-1")
	f.Matches[2] = playedMatch(0, 3)
	mf := newMergeFixture(t, f,
		submissionOf("fx-1", fixture.SideHome, playedMatch(3, 1)),
		submissionOf("fx-1", fixture.SideAway, playedMatch(3, 1)),
	)

	plan, err := mf.service.Plan(ctx, adminUser, "fx-1")
	require.NoError(t, err)
	assert.False(t, plan.ReadOnly)
	offer, _ := plan.Match(0)
	require.Equal(t, reconcile.DecisionAgreed, offer.Decision)

	before, _, _ := mf.fixtures.GetByID(ctx, "fx-1")
	after, err := mf.service.AcceptMatch(ctx, adminUser, "fx-1", 0, reconcile.SourceAgreed)
	require.NoError(t, err)

	offer, _ = after.Match(0)
	assert.Equal(t, reconcile.DecisionPublished, offer.Decision)

	stored, _, _ := mf.fixtures.GetByID(ctx, "fx-1")
	assert.True(t, fixture.MatchEquals(playedMatch(3, 1), stored.Matches[0]))
	for _, i := range []int{1, 2} {
		if diff := cmp.Diff(before.Matches[i], stored.Matches[i]); diff != "" {
			t.Fatalf("slot %d changed (-before +after):\n%s", i, diff)
		}
	}
	assert.Equal(t, before.Venue, stored.Venue)
	assert.Equal(t, before.HomeTeamID, stored.HomeTeamID)
}

func TestMergeService_PublishedSlotCannotBeAccepted(t *testing.T) {
	t.Parallel()

	f := newTestFixture("fx-1")
	f.Matches[0] = playedMatch(2, 3)
	mf := newMergeFixture(t, f,
		submissionOf("fx-1", fixture.SideHome, playedMatch(3, 1)),
		submissionOf("fx-1", fixture.SideAway, playedMatch(3, 1)),
	)

	_, err := mf.service.AcceptMatch(context.Background(), adminUser, "fx-1", 0, reconcile.SourceAgreed)
	assert.True(t, errors.Is(err, ErrConflict), "got %v", err)

	stored, _, _ := mf.fixtures.GetByID(context.Background(), "fx-1")
	assert.Equal(t, 2, *stored.Matches[0].HomeScore)

	_, err = mf.service.AcceptMatch(context.Background(), adminUser, "fx-1", 7, reconcile.SourceAgreed)
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
}

func TestMergeService_ReadOnlyPlanKeepsDecisions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mf := newMergeFixture(t, newTestFixture("fx-1"),
		submissionOf("fx-1", fixture.SideHome, playedMatch(3, 1)),
		submissionOf("fx-1", fixture.SideAway, playedMatch(1, 3)),
	)

	adminPlan, err := mf.service.Plan(ctx, adminUser, "fx-1")
	require.NoError(t, err)
	viewerPlan, err := mf.service.Plan(ctx, readOnlyUser, "fx-1")
	require.NoError(t, err)

	assert.True(t, viewerPlan.ReadOnly)
	viewerPlan.ReadOnly = false
	if diff := cmp.Diff(adminPlan, viewerPlan); diff != "" {
		t.Fatalf("read-only plan differs (-admin +viewer):\n%s", diff)
	}

	_, err = mf.service.AcceptMatch(ctx, readOnlyUser, "fx-1", 0, reconcile.SourceHome)
	assert.True(t, errors.Is(err, ErrForbidden), "got %v", err)
	_, err = mf.service.MergeManOfTheMatch(ctx, homeCaptain, "fx-1", fixture.SideHome)
	assert.True(t, errors.Is(err, ErrForbidden), "got %v", err)

	_, err = mf.service.Plan(ctx, anonymous, "fx-1")
	assert.True(t, errors.Is(err, ErrUnauthorized), "got %v", err)
}

func TestMergeService_ShortSubmissionIsPadded(t *testing.T) {
	t.Parallel()

	mf := newMergeFixture(t, newTestFixture("fx-1"),
		submissionOf("fx-1", fixture.SideHome, playedMatch(3, 1)),
	)

	plan, err := mf.service.Plan(context.Background(), adminUser, "fx-1")
	require.NoError(t, err)
	require.Len(t, plan.Matches, 3)
	offer, _ := plan.Match(0)
	assert.Equal(t, reconcile.DecisionConflict, offer.Decision)
	last, _ := plan.Match(2)
	assert.Equal(t, reconcile.DecisionNone, last.Decision)
}

func TestMergeService_MergeAccoladeAndManOfTheMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	home := submissionOf("fx-1", fixture.SideHome, playedMatch(3, 1))
	home.OneEighties = []fixture.PlayerRef{playerAnn, playerAnn}
	home.Home.ManOfTheMatch = playerBeth.ID
	away := submissionOf("fx-1", fixture.SideAway)
	away.HiChecks = []fixture.Checkout{{Player: playerDee, Notes: "161"}}
	mf := newMergeFixture(t, newTestFixture("fx-1"), home, away)

	_, err := mf.service.MergeAccolade(ctx, adminUser, "fx-1", reconcile.CategoryOneEighties, fixture.SideAway)
	assert.True(t, errors.Is(err, ErrConflict), "away has no 180s, got %v", err)

	plan, err := mf.service.MergeAccolade(ctx, adminUser, "fx-1", reconcile.CategoryOneEighties, fixture.SideHome)
	require.NoError(t, err)
	offer, _ := plan.Accolade(reconcile.CategoryOneEighties)
	assert.True(t, offer.Blocked)

	_, err = mf.service.MergeAccolade(ctx, adminUser, "fx-1", reconcile.CategoryHiChecks, fixture.SideAway)
	require.NoError(t, err)

	plan, err = mf.service.MergeManOfTheMatch(ctx, adminUser, "fx-1", fixture.SideHome)
	require.NoError(t, err)
	motm, _ := plan.ManOfTheMatchFor(fixture.SideHome)
	assert.Equal(t, reconcile.ManOfTheMatchMerged, motm.Status)

	stored, _, _ := mf.fixtures.GetByID(ctx, "fx-1")
	assert.Equal(t, []fixture.PlayerRef{playerAnn, playerAnn}, stored.OneEighties)
	assert.Equal(t, []fixture.Checkout{{Player: playerDee, Notes: "161"}}, stored.HiChecks)
	assert.Equal(t, playerBeth.ID, stored.Home.ManOfTheMatch)
}

func TestMergeService_ConcurrentCommandConflicts(t *testing.T) {
	t.Parallel()

	mf := newMergeFixture(t, newTestFixture("fx-1"),
		submissionOf("fx-1", fixture.SideHome, playedMatch(3, 1)),
	)
	release, err := mf.guard.Acquire(fixtureGuardKey("fx-1"))
	require.NoError(t, err)
	defer release()

	_, err = mf.service.AcceptMatch(context.Background(), adminUser, "fx-1", 0, reconcile.SourceHome)
	assert.True(t, errors.Is(err, ErrConflict), "got %v", err)

	stored, _, _ := mf.fixtures.GetByID(context.Background(), "fx-1")
	assert.Nil(t, stored.Matches[0])
}

func TestMergeService_Pending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fixtures := memory.NewFixtureRepository([]fixture.Fixture{
		newTestFixture("fx-b"),
		newTestFixture("fx-a"),
		newTestFixture("fx-c"),
	})
	submissions := memory.NewSubmissionRepository([]fixture.Submission{
		submissionOf("fx-a", fixture.SideHome, playedMatch(3, 1)),
		submissionOf("fx-b", fixture.SideAway, playedMatch(3, 1)),
		submissionOf("fx-c", fixture.SideAway, nil, nil, nil),
	})
	service := NewMergeService(fixtures, submissions, nil, nil, logging.NewNop(), MergeServiceConfig{WorkerCount: 2})

	pending, err := service.Pending(ctx, adminUser, "div-1")
	require.NoError(t, err)
	// fx-b only has an away record, which is not offered.
	assert.Equal(t, []string{"fx-a"}, pending)

	_, err = service.Pending(ctx, homeCaptain, "div-1")
	assert.True(t, errors.Is(err, ErrForbidden), "got %v", err)
}

func TestMergeService_UpsertFailureIsReported(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fixtureRepo := fixturemock.NewRepository(t)
	submissions := memory.NewSubmissionRepository([]fixture.Submission{
		submissionOf("fx-1", fixture.SideHome, playedMatch(3, 1)),
	})
	reporter := &recordingReporter{}
	service := NewMergeService(fixtureRepo, submissions, nil, reporter, logging.NewNop(), MergeServiceConfig{})

	dbErr := errors.New("connection reset")
	fixtureRepo.On("GetByID", mock.Anything, "fx-1").Return(newTestFixture("fx-1"), true, nil).Once()
	fixtureRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(f fixture.Fixture) bool {
		return f.ID == "fx-1" && f.Matches[0].Published()
	})).Return(dbErr).Once()

	_, err := service.AcceptMatch(ctx, adminUser, "fx-1", 0, reconcile.SourceHome)
	require.ErrorIs(t, err, dbErr)
	require.Equal(t, 1, reporter.count())
	assert.ErrorIs(t, reporter.reports[0].err, dbErr)
}
