package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/domain/user"
	"github.com/riskibarqy/darts-league/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

// SheetService edits score sheets: the canonical fixture for admins and a
// team's own submission for its members.
type SheetService struct {
	store    sheetStore
	guard    *resilience.InFlight
	reporter ErrorReporter
	now      func() time.Time
}

func NewSheetService(
	fixtures fixture.Repository,
	submissions fixture.SubmissionRepository,
	guard *resilience.InFlight,
	reporter ErrorReporter,
) *SheetService {
	if guard == nil {
		guard = resilience.NewInFlight()
	}
	return &SheetService{
		store:    sheetStore{fixtures: fixtures, submissions: submissions},
		guard:    guard,
		reporter: reporterOrNop(reporter),
		now:      time.Now,
	}
}

func (s *SheetService) Get(ctx context.Context, principal user.Principal, fixtureID string, target SheetTarget) (fixture.Sheet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SheetService.Get",
		attribute.String("fixture.id", fixtureID),
		attribute.String("sheet", string(target)),
	)
	var err error
	defer func() { endSpan(span, err) }()

	if err = requireAuthenticated(principal); err != nil {
		return fixture.Sheet{}, err
	}
	f, err := s.store.loadFixture(ctx, fixtureID)
	if err != nil {
		return fixture.Sheet{}, err
	}
	sheet, err := s.store.readSheet(ctx, f, target)
	if err != nil {
		return fixture.Sheet{}, err
	}
	return sheet, nil
}

func (s *SheetService) ApplicablePlayers(ctx context.Context, principal user.Principal, fixtureID string, target SheetTarget) ([]fixture.PlayerRef, error) {
	sheet, err := s.Get(ctx, principal, fixtureID, target)
	if err != nil {
		return nil, err
	}
	return fixture.ApplicablePlayers(sheet.Matches), nil
}

func (s *SheetService) SetMatch(ctx context.Context, principal user.Principal, fixtureID string, target SheetTarget, index int, match *fixture.Match) (fixture.Sheet, error) {
	return s.mutate(ctx, principal, fixtureID, target, "SetMatch", func(sheet *fixture.Sheet) error {
		if index < 0 || index >= len(sheet.Matches) {
			return fmt.Errorf("%w: match index %d out of range [0,%d)", ErrInvalidInput, index, len(sheet.Matches))
		}
		if err := validateMatch(match); err != nil {
			return err
		}
		sheet.Matches[index] = match.Clone()
		return nil
	})
}

func (s *SheetService) AddOneEighty(ctx context.Context, principal user.Principal, fixtureID string, target SheetTarget, playerID string) (fixture.Sheet, error) {
	return s.mutate(ctx, principal, fixtureID, target, "AddOneEighty", func(sheet *fixture.Sheet) error {
		player, err := selectApplicablePlayer(*sheet, playerID)
		if err != nil {
			return err
		}
		sheet.OneEighties = append(sheet.OneEighties, player)
		return nil
	})
}

func (s *SheetService) RemoveOneEighty(ctx context.Context, principal user.Principal, fixtureID string, target SheetTarget, index int) (fixture.Sheet, error) {
	return s.mutate(ctx, principal, fixtureID, target, "RemoveOneEighty", func(sheet *fixture.Sheet) error {
		if index < 0 || index >= len(sheet.OneEighties) {
			return fmt.Errorf("%w: 180 index %d out of range", ErrInvalidInput, index)
		}
		sheet.OneEighties = append(sheet.OneEighties[:index:index], sheet.OneEighties[index+1:]...)
		return nil
	})
}

func (s *SheetService) AddHiCheck(ctx context.Context, principal user.Principal, fixtureID string, target SheetTarget, playerID, notes string) (fixture.Sheet, error) {
	return s.mutate(ctx, principal, fixtureID, target, "AddHiCheck", func(sheet *fixture.Sheet) error {
		player, err := selectApplicablePlayer(*sheet, playerID)
		if err != nil {
			return err
		}
		sheet.HiChecks = append(sheet.HiChecks, fixture.Checkout{Player: player, Notes: strings.TrimSpace(notes)})
		return nil
	})
}

func (s *SheetService) RemoveHiCheck(ctx context.Context, principal user.Principal, fixtureID string, target SheetTarget, index int) (fixture.Sheet, error) {
	return s.mutate(ctx, principal, fixtureID, target, "RemoveHiCheck", func(sheet *fixture.Sheet) error {
		if index < 0 || index >= len(sheet.HiChecks) {
			return fmt.Errorf("%w: hi-check index %d out of range", ErrInvalidInput, index)
		}
		sheet.HiChecks = append(sheet.HiChecks[:index:index], sheet.HiChecks[index+1:]...)
		return nil
	})
}

// SetManOfTheMatch sets the side's pick; an empty player id clears it.
func (s *SheetService) SetManOfTheMatch(ctx context.Context, principal user.Principal, fixtureID string, target SheetTarget, side fixture.Side, playerID string) (fixture.Sheet, error) {
	return s.mutate(ctx, principal, fixtureID, target, "SetManOfTheMatch", func(sheet *fixture.Sheet) error {
		if side != fixture.SideHome && side != fixture.SideAway {
			return fmt.Errorf("%w: unknown side %q", ErrInvalidInput, side)
		}
		playerID = strings.TrimSpace(playerID)
		if playerID == "" {
			sheet.SetManOfTheMatch(side, "")
			return nil
		}
		player, err := selectApplicablePlayer(*sheet, playerID)
		if err != nil {
			return err
		}
		sheet.SetManOfTheMatch(side, player.ID)
		return nil
	})
}

// mutate runs one read-modify-write against a sheet. Nothing is stored when
// apply fails, and a second write for the same sheet while one is pending
// fails with ErrConflict.
func (s *SheetService) mutate(
	ctx context.Context,
	principal user.Principal,
	fixtureID string,
	target SheetTarget,
	op string,
	apply func(sheet *fixture.Sheet) error,
) (fixture.Sheet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SheetService."+op,
		attribute.String("fixture.id", fixtureID),
		attribute.String("sheet", string(target)),
	)
	var err error
	defer func() { endSpan(span, err) }()

	if err = requireAuthenticated(principal); err != nil {
		return fixture.Sheet{}, err
	}

	release, err := s.guard.Acquire(target.guardKey(strings.TrimSpace(fixtureID)))
	if err != nil {
		if errors.Is(err, resilience.ErrInFlight) {
			err = fmt.Errorf("%w: %s sheet of fixture %s is being saved", ErrConflict, target, fixtureID)
		}
		return fixture.Sheet{}, err
	}
	defer release()

	f, err := s.store.loadFixture(ctx, fixtureID)
	if err != nil {
		reportUnexpected(ctx, s.reporter, op, err, "fixture_id", fixtureID)
		return fixture.Sheet{}, err
	}
	if err = canWriteSheet(principal, f, target); err != nil {
		return fixture.Sheet{}, err
	}

	sheet, err := s.store.readSheet(ctx, f, target)
	if err != nil {
		reportUnexpected(ctx, s.reporter, op, err, "fixture_id", fixtureID)
		return fixture.Sheet{}, err
	}
	if err = apply(&sheet); err != nil {
		return fixture.Sheet{}, err
	}

	if err = s.persist(ctx, principal, f, target, sheet); err != nil {
		reportUnexpected(ctx, s.reporter, op, err, "fixture_id", fixtureID, "sheet", string(target))
		return fixture.Sheet{}, err
	}
	return sheet.Clone(), nil
}

func (s *SheetService) persist(ctx context.Context, principal user.Principal, f fixture.Fixture, target SheetTarget, sheet fixture.Sheet) error {
	now := s.now().UTC()
	side, ok := target.Side()
	if !ok {
		f.Sheet = sheet
		f.UpdatedAt = now
		if err := s.store.fixtures.Upsert(ctx, f); err != nil {
			return fmt.Errorf("upsert fixture: %w", err)
		}
		return nil
	}

	sub := fixture.Submission{
		FixtureID:   f.ID,
		Author:      side,
		SubmittedBy: principal.UserID,
		Sheet:       sheet,
		UpdatedAt:   now,
	}
	if err := s.store.submissions.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("upsert %s submission: %w", side, err)
	}
	return nil
}

func validateMatch(match *fixture.Match) error {
	if match == nil {
		return nil
	}
	for _, score := range []*int{match.HomeScore, match.AwayScore} {
		if score != nil && *score < 0 {
			return fmt.Errorf("%w: scores must not be negative", ErrInvalidInput)
		}
	}
	for _, players := range [][]fixture.PlayerRef{match.HomePlayers, match.AwayPlayers} {
		for _, p := range players {
			if strings.TrimSpace(p.ID) == "" {
				return fmt.Errorf("%w: player id is required", ErrInvalidInput)
			}
		}
	}
	return nil
}

// selectApplicablePlayer resolves playerID against the players of the sheet's matches.
func selectApplicablePlayer(sheet fixture.Sheet, playerID string) (fixture.PlayerRef, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fixture.PlayerRef{}, fmt.Errorf("%w: select a player", ErrInvalidInput)
	}
	player, ok := fixture.FindPlayer(fixture.ApplicablePlayers(sheet.Matches), playerID)
	if !ok {
		return fixture.PlayerRef{}, fmt.Errorf("%w: player %s did not play in this fixture", ErrInvalidInput, playerID)
	}
	return player, nil
}
