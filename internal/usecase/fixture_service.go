package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/domain/user"
	"github.com/riskibarqy/darts-league/internal/platform/id"
	"github.com/riskibarqy/darts-league/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

type CreateFixtureInput struct {
	DivisionID string
	Season     string
	HomeTeam   string
	AwayTeam   string
	HomeTeamID string
	AwayTeamID string
	Date       time.Time
	Venue      string
	MatchSlots int
}

// UpdateFixtureDetailsInput carries optional changes; nil fields are left as is.
type UpdateFixtureDetailsInput struct {
	Date      *time.Time
	Venue     *string
	Postponed *bool
}

type FixtureService struct {
	fixtureRepo fixture.Repository
	idGen       id.Generator
	guard       *resilience.InFlight
	reporter    ErrorReporter
	now         func() time.Time
}

func NewFixtureService(fixtureRepo fixture.Repository, idGen id.Generator, guard *resilience.InFlight, reporter ErrorReporter) *FixtureService {
	if guard == nil {
		guard = resilience.NewInFlight()
	}
	return &FixtureService{
		fixtureRepo: fixtureRepo,
		idGen:       idGen,
		guard:       guard,
		reporter:    reporterOrNop(reporter),
		now:         time.Now,
	}
}

func (s *FixtureService) Get(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	return sheetStore{fixtures: s.fixtureRepo}.loadFixture(ctx, fixtureID)
}

func (s *FixtureService) ListByDivision(ctx context.Context, divisionID string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByDivision", attribute.String("division.id", divisionID))
	var err error
	defer func() { endSpan(span, err) }()

	divisionID = strings.TrimSpace(divisionID)
	if divisionID == "" {
		err = fmt.Errorf("%w: division id is required", ErrInvalidInput)
		return nil, err
	}

	fixtures, err := s.fixtureRepo.ListByDivision(ctx, divisionID)
	if err != nil {
		err = fmt.Errorf("list fixtures by division: %w", err)
		return nil, err
	}
	return fixtures, nil
}

// ApplicablePlayers lists the players named in the canonical fixture's matches.
func (s *FixtureService) ApplicablePlayers(ctx context.Context, fixtureID string) ([]fixture.PlayerRef, error) {
	f, err := s.Get(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	return fixture.ApplicablePlayers(f.Matches), nil
}

func (s *FixtureService) Create(ctx context.Context, principal user.Principal, input CreateFixtureInput) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Create")
	var err error
	defer func() { endSpan(span, err) }()

	if err = requireAdmin(principal); err != nil {
		return fixture.Fixture{}, err
	}
	if err = validateCreateFixture(&input); err != nil {
		return fixture.Fixture{}, err
	}

	fixtureID, err := s.idGen.NewID()
	if err != nil {
		err = fmt.Errorf("generate fixture id: %w", err)
		reportUnexpected(ctx, s.reporter, "CreateFixture", err)
		return fixture.Fixture{}, err
	}

	item := fixture.Fixture{
		ID:         fixtureID,
		DivisionID: input.DivisionID,
		Season:     input.Season,
		HomeTeam:   input.HomeTeam,
		AwayTeam:   input.AwayTeam,
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		Date:       input.Date.UTC(),
		Venue:      input.Venue,
		Sheet:      fixture.EmptySheet(input.MatchSlots),
		UpdatedAt:  s.now().UTC(),
	}
	if err = s.fixtureRepo.Upsert(ctx, item); err != nil {
		err = fmt.Errorf("upsert fixture: %w", err)
		reportUnexpected(ctx, s.reporter, "CreateFixture", err, "fixture_id", fixtureID)
		return fixture.Fixture{}, err
	}
	return item, nil
}

// UpdateDetails changes scheduling details only; the score sheet is untouched.
func (s *FixtureService) UpdateDetails(ctx context.Context, principal user.Principal, fixtureID string, input UpdateFixtureDetailsInput) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.UpdateDetails", attribute.String("fixture.id", fixtureID))
	var err error
	defer func() { endSpan(span, err) }()

	if err = requireAdmin(principal); err != nil {
		return fixture.Fixture{}, err
	}

	release, err := s.guard.Acquire(fixtureGuardKey(strings.TrimSpace(fixtureID)))
	if err != nil {
		err = fmt.Errorf("%w: fixture %s is being saved", ErrConflict, fixtureID)
		return fixture.Fixture{}, err
	}
	defer release()

	item, err := s.Get(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, err
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			err = fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
			return fixture.Fixture{}, err
		}
		item.Date = input.Date.UTC()
	}
	if input.Venue != nil {
		item.Venue = strings.TrimSpace(*input.Venue)
	}
	if input.Postponed != nil {
		item.Postponed = *input.Postponed
	}
	item.UpdatedAt = s.now().UTC()

	if err = s.fixtureRepo.Upsert(ctx, item); err != nil {
		err = fmt.Errorf("upsert fixture: %w", err)
		reportUnexpected(ctx, s.reporter, "UpdateFixtureDetails", err, "fixture_id", item.ID)
		return fixture.Fixture{}, err
	}
	return item, nil
}

func validateCreateFixture(input *CreateFixtureInput) error {
	input.DivisionID = strings.TrimSpace(input.DivisionID)
	input.Season = strings.TrimSpace(input.Season)
	input.HomeTeam = strings.TrimSpace(input.HomeTeam)
	input.AwayTeam = strings.TrimSpace(input.AwayTeam)
	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)
	input.Venue = strings.TrimSpace(input.Venue)

	switch {
	case input.DivisionID == "":
		return fmt.Errorf("%w: division id is required", ErrInvalidInput)
	case input.HomeTeamID == "" || input.AwayTeamID == "":
		return fmt.Errorf("%w: both team ids are required", ErrInvalidInput)
	case input.HomeTeamID == input.AwayTeamID:
		return fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	case input.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	case input.MatchSlots < 0:
		return fmt.Errorf("%w: match slots must not be negative", ErrInvalidInput)
	}
	if input.MatchSlots == 0 {
		input.MatchSlots = fixture.DefaultMatchSlots
	}
	return nil
}
