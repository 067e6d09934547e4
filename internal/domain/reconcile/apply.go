package reconcile

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
)

// ErrNoOffer is returned when the plan holds no action for the request.
var ErrNoOffer = errors.New("no merge offer")

// AcceptMatch writes the offered record for one slot into f. Other slots are
// left untouched.
func AcceptMatch(f *fixture.Fixture, plan Plan, index int, src Source) error {
	offer, ok := plan.Match(index)
	if !ok || index >= len(f.Matches) {
		return fmt.Errorf("%w: match %d does not exist", ErrNoOffer, index)
	}
	if offer.Decision == DecisionPublished {
		return fmt.Errorf("%w: match %d is already published", ErrNoOffer, index)
	}

	record, ok := offer.Record(src)
	if !ok {
		return fmt.Errorf("%w: match %d has no %s record (decision=%s)", ErrNoOffer, index, src, offer.Decision)
	}

	f.Matches[index] = fixture.MergeMatch(f.Matches[index], record)
	return nil
}

// MergeAccolade replaces the canonical list of a category with the side's list.
func MergeAccolade(f *fixture.Fixture, plan Plan, category Category, side fixture.Side, submission *fixture.Submission) error {
	offer, ok := plan.Accolade(category)
	if !ok {
		return fmt.Errorf("%w: unknown category %q", ErrNoOffer, category)
	}
	if !offer.Offered(side) || submission == nil {
		return fmt.Errorf("%w: %s has nothing to merge for %s", ErrNoOffer, side, category)
	}

	switch category {
	case CategoryOneEighties:
		f.OneEighties = append([]fixture.PlayerRef(nil), submission.OneEighties...)
	case CategoryHiChecks:
		f.HiChecks = append([]fixture.Checkout(nil), submission.HiChecks...)
	}
	return nil
}

// MergeManOfTheMatch copies the side's man of the match into f.
func MergeManOfTheMatch(f *fixture.Fixture, plan Plan, side fixture.Side) error {
	offer, ok := plan.ManOfTheMatchFor(side)
	if !ok || offer.Status != ManOfTheMatchOffered {
		return fmt.Errorf("%w: man of the match for %s", ErrNoOffer, side)
	}

	f.SetManOfTheMatch(side, offer.Candidate.ID)
	return nil
}
