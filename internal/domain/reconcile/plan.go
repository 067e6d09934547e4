package reconcile

import (
	"github.com/riskibarqy/darts-league/internal/domain/fixture"
)

// Decision is the outcome for one canonical match slot.
type Decision string

const (
	DecisionPublished Decision = "published"
	DecisionAgreed    Decision = "agreed"
	DecisionConflict  Decision = "conflict"
	DecisionNone      Decision = "none"
)

// Source selects which record an Accept action copies.
type Source string

const (
	SourceAgreed Source = "agreed"
	SourceHome   Source = "home"
	SourceAway   Source = "away"
)

type Category string

const (
	CategoryOneEighties Category = "one_eighties"
	CategoryHiChecks    Category = "hi_checks"
)

var Categories = []Category{CategoryOneEighties, CategoryHiChecks}

func ParseCategory(value string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == value {
			return c, true
		}
	}
	return "", false
}

type ManOfTheMatchStatus string

const (
	ManOfTheMatchMerged         ManOfTheMatchStatus = "merged"
	ManOfTheMatchOffered        ManOfTheMatchStatus = "offered"
	ManOfTheMatchNothingToMerge ManOfTheMatchStatus = "nothing_to_merge"
)

type MatchOffer struct {
	Index    int
	Decision Decision
	Agreed   *fixture.Match
	Home     *fixture.Match
	Away     *fixture.Match
}

// Record returns the record an Accept from src would write.
func (o MatchOffer) Record(src Source) (*fixture.Match, bool) {
	switch o.Decision {
	case DecisionAgreed:
		if src == SourceAgreed && o.Agreed != nil {
			return o.Agreed, true
		}
	case DecisionConflict:
		switch src {
		case SourceHome:
			return o.Home, o.Home != nil
		case SourceAway:
			return o.Away, o.Away != nil
		}
	}
	return nil, false
}

func (o MatchOffer) Open() bool {
	return o.Decision == DecisionAgreed || o.Decision == DecisionConflict
}

// AccoladeEntry is a 180 (no notes) or a high checkout.
type AccoladeEntry struct {
	Player fixture.PlayerRef
	Notes  string
}

type AccoladeOffer struct {
	Category Category
	// Blocked is set once the canonical fixture has any entry in the category.
	Blocked bool
	Home    []AccoladeEntry
	Away    []AccoladeEntry
}

func (o AccoladeOffer) Offered(side fixture.Side) bool {
	if o.Blocked {
		return false
	}
	return len(o.entries(side)) > 0
}

func (o AccoladeOffer) entries(side fixture.Side) []AccoladeEntry {
	if side == fixture.SideAway {
		return o.Away
	}
	return o.Home
}

type ManOfTheMatchOffer struct {
	Side      fixture.Side
	Status    ManOfTheMatchStatus
	Current   string
	Candidate fixture.PlayerRef
}

// Plan is the full set of merge decisions for one fixture.
type Plan struct {
	FixtureID     string
	ReadOnly      bool
	Matches       []MatchOffer
	Accolades     []AccoladeOffer
	ManOfTheMatch []ManOfTheMatchOffer
}

// HasOpenActions reports whether any Accept, Merge or Use action is available.
func (p Plan) HasOpenActions() bool {
	for _, m := range p.Matches {
		if m.Open() {
			return true
		}
	}
	for _, a := range p.Accolades {
		if a.Offered(fixture.SideHome) || a.Offered(fixture.SideAway) {
			return true
		}
	}
	for _, m := range p.ManOfTheMatch {
		if m.Status == ManOfTheMatchOffered {
			return true
		}
	}
	return false
}

func (p Plan) Match(index int) (MatchOffer, bool) {
	if index < 0 || index >= len(p.Matches) {
		return MatchOffer{}, false
	}
	return p.Matches[index], true
}

func (p Plan) Accolade(category Category) (AccoladeOffer, bool) {
	for _, a := range p.Accolades {
		if a.Category == category {
			return a, true
		}
	}
	return AccoladeOffer{}, false
}

func (p Plan) ManOfTheMatchFor(side fixture.Side) (ManOfTheMatchOffer, bool) {
	for _, m := range p.ManOfTheMatch {
		if m.Side == side {
			return m, true
		}
	}
	return ManOfTheMatchOffer{}, false
}

// Build evaluates every canonical match slot, accolade category and man of
// the match against the two submissions. Either submission may be nil.
func Build(f fixture.Fixture, home, away *fixture.Submission) Plan {
	plan := Plan{
		FixtureID: f.ID,
		Matches:   make([]MatchOffer, 0, len(f.Matches)),
	}

	for i := range f.Matches {
		plan.Matches = append(plan.Matches, resolveMatch(i, f.Sheet, home, away))
	}
	for _, c := range Categories {
		plan.Accolades = append(plan.Accolades, resolveAccolade(c, f.Sheet, home, away))
	}
	plan.ManOfTheMatch = []ManOfTheMatchOffer{
		resolveManOfTheMatch(fixture.SideHome, f.Sheet, home),
		resolveManOfTheMatch(fixture.SideAway, f.Sheet, away),
	}
	return plan
}

func resolveMatch(index int, canonical fixture.Sheet, home, away *fixture.Submission) MatchOffer {
	offer := MatchOffer{Index: index, Decision: DecisionNone}
	if canonical.MatchAt(index).Published() {
		offer.Decision = DecisionPublished
		return offer
	}

	homeMatch := submittedMatch(home, index)
	awayMatch := submittedMatch(away, index)

	if homeMatch != nil && awayMatch != nil && fixture.MatchEquals(homeMatch, awayMatch) {
		offer.Decision = DecisionAgreed
		offer.Agreed = homeMatch.Clone()
		return offer
	}
	// Only the home side gates: an away-only record is not offered.
	if homeMatch == nil {
		return offer
	}

	offer.Decision = DecisionConflict
	offer.Home = homeMatch.Clone()
	offer.Away = awayMatch.Clone()
	return offer
}

func submittedMatch(s *fixture.Submission, index int) *fixture.Match {
	if s == nil {
		return nil
	}
	return s.MatchAt(index)
}

func resolveAccolade(category Category, canonical fixture.Sheet, home, away *fixture.Submission) AccoladeOffer {
	offer := AccoladeOffer{Category: category}
	if len(accoladeEntries(category, canonical)) > 0 {
		offer.Blocked = true
		return offer
	}
	if home != nil {
		offer.Home = accoladeEntries(category, home.Sheet)
	}
	if away != nil {
		offer.Away = accoladeEntries(category, away.Sheet)
	}
	return offer
}

func accoladeEntries(category Category, s fixture.Sheet) []AccoladeEntry {
	var out []AccoladeEntry
	switch category {
	case CategoryOneEighties:
		for _, p := range s.OneEighties {
			out = append(out, AccoladeEntry{Player: p})
		}
	case CategoryHiChecks:
		for _, c := range s.HiChecks {
			out = append(out, AccoladeEntry{Player: c.Player, Notes: c.Notes})
		}
	}
	return out
}

func resolveManOfTheMatch(side fixture.Side, canonical fixture.Sheet, submission *fixture.Submission) ManOfTheMatchOffer {
	offer := ManOfTheMatchOffer{Side: side, Current: canonical.TeamSide(side).ManOfTheMatch}
	if offer.Current != "" {
		offer.Status = ManOfTheMatchMerged
		return offer
	}
	if submission == nil || submission.TeamSide(side).ManOfTheMatch == "" {
		offer.Status = ManOfTheMatchNothingToMerge
		return offer
	}

	candidateID := submission.TeamSide(side).ManOfTheMatch
	offer.Status = ManOfTheMatchOffered
	offer.Candidate = lookupPlayer(candidateID, submission.Matches, canonical.Matches)
	return offer
}

func lookupPlayer(id string, sources ...[]*fixture.Match) fixture.PlayerRef {
	for _, matches := range sources {
		if p, ok := fixture.FindPlayer(fixture.ApplicablePlayers(matches), id); ok {
			return p
		}
	}
	return fixture.PlayerRef{ID: id, Name: id}
}
