package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
)

// sheetStore loads and persists either sheet kind behind one API.
type sheetStore struct {
	fixtures    fixture.Repository
	submissions fixture.SubmissionRepository
}

func (s sheetStore) loadFixture(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	item, exists, err := s.fixtures.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}
	return item, nil
}

// loadSubmission returns nil when the side has not submitted yet.
func (s sheetStore) loadSubmission(ctx context.Context, fixtureID string, side fixture.Side) (*fixture.Submission, error) {
	item, exists, err := s.submissions.GetByFixtureAndAuthor(ctx, fixtureID, side)
	if err != nil {
		return nil, fmt.Errorf("get %s submission: %w", side, err)
	}
	if !exists {
		return nil, nil
	}
	return &item, nil
}

// readSheet returns the sheet selected by target. A missing submission is an
// empty sheet sized like the fixture.
func (s sheetStore) readSheet(ctx context.Context, f fixture.Fixture, target SheetTarget) (fixture.Sheet, error) {
	side, ok := target.Side()
	if !ok {
		return f.Sheet.Clone(), nil
	}

	sub, err := s.loadSubmission(ctx, f.ID, side)
	if err != nil {
		return fixture.Sheet{}, err
	}
	if sub == nil {
		return fixture.EmptySheet(len(f.Matches)), nil
	}
	return padMatches(sub.Sheet, len(f.Matches)), nil
}

// padMatches extends the sheet to n slots so indices line up with the fixture.
func padMatches(sheet fixture.Sheet, n int) fixture.Sheet {
	out := sheet.Clone()
	for len(out.Matches) < n {
		out.Matches = append(out.Matches, nil)
	}
	return out
}

func padSubmission(sub *fixture.Submission, n int) *fixture.Submission {
	if sub == nil {
		return nil
	}
	out := sub.Clone()
	out.Sheet = padMatches(out.Sheet, n)
	return &out
}
