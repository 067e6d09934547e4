package fixture

import (
	"strings"
	"time"
)

// DefaultMatchSlots is the number of match slots a new fixture starts with.
const DefaultMatchSlots = 9

// Side identifies one of the two teams of a fixture.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func ParseSide(value string) (Side, bool) {
	switch Side(strings.ToLower(strings.TrimSpace(value))) {
	case SideHome:
		return SideHome, true
	case SideAway:
		return SideAway, true
	default:
		return "", false
	}
}

// PlayerRef points at a registered player. Identity is by ID only.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Match is one leg within a fixture.
type Match struct {
	HomeScore   *int        `json:"homeScore,omitempty"`
	AwayScore   *int        `json:"awayScore,omitempty"`
	HomePlayers []PlayerRef `json:"homePlayers"`
	AwayPlayers []PlayerRef `json:"awayPlayers"`
}

// Published reports whether the match carries a recorded score.
func (m *Match) Published() bool {
	return m != nil && (m.HomeScore != nil || m.AwayScore != nil)
}

// Checkout is a finish of more than 100.
type Checkout struct {
	Player PlayerRef `json:"player"`
	Notes  string    `json:"notes"`
}

type TeamSide struct {
	ManOfTheMatch string `json:"manOfTheMatch,omitempty"`
}

// Sheet is the score sheet shared by the canonical fixture and the
// per-team submissions. A nil match slot means no record at that index.
type Sheet struct {
	Matches     []*Match    `json:"matches"`
	Home        TeamSide    `json:"home"`
	Away        TeamSide    `json:"away"`
	OneEighties []PlayerRef `json:"oneEighties"`
	HiChecks    []Checkout  `json:"over100Checkouts"`
}

// MatchAt returns the match at index or nil when the slot is empty or out of range.
func (s Sheet) MatchAt(index int) *Match {
	if index < 0 || index >= len(s.Matches) {
		return nil
	}
	return s.Matches[index]
}

func (s Sheet) TeamSide(side Side) TeamSide {
	if side == SideAway {
		return s.Away
	}
	return s.Home
}

func (s *Sheet) SetManOfTheMatch(side Side, playerID string) {
	if side == SideAway {
		s.Away.ManOfTheMatch = playerID
		return
	}
	s.Home.ManOfTheMatch = playerID
}

// Clone returns a deep copy so callers can mutate it freely.
func (s Sheet) Clone() Sheet {
	out := Sheet{
		Home:        s.Home,
		Away:        s.Away,
		OneEighties: append([]PlayerRef(nil), s.OneEighties...),
		HiChecks:    append([]Checkout(nil), s.HiChecks...),
	}
	if s.Matches != nil {
		out.Matches = make([]*Match, len(s.Matches))
		for i, m := range s.Matches {
			out.Matches[i] = m.Clone()
		}
	}
	return out
}

func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}
	out := &Match{
		HomePlayers: append([]PlayerRef(nil), m.HomePlayers...),
		AwayPlayers: append([]PlayerRef(nil), m.AwayPlayers...),
	}
	if m.HomeScore != nil {
		v := *m.HomeScore
		out.HomeScore = &v
	}
	if m.AwayScore != nil {
		v := *m.AwayScore
		out.AwayScore = &v
	}
	return out
}

// Fixture is the canonical, published record of a scheduled match night.
type Fixture struct {
	ID         string
	DivisionID string
	Season     string
	HomeTeam   string
	AwayTeam   string
	HomeTeamID string
	AwayTeamID string
	Date       time.Time
	Venue      string
	Postponed  bool
	Sheet
	UpdatedAt time.Time
}

// SideOfTeam maps a team id to the side it plays on in this fixture.
func (f Fixture) SideOfTeam(teamID string) (Side, bool) {
	teamID = strings.TrimSpace(teamID)
	switch {
	case teamID == "":
		return "", false
	case teamID == f.HomeTeamID:
		return SideHome, true
	case teamID == f.AwayTeamID:
		return SideAway, true
	default:
		return "", false
	}
}

func (f Fixture) Clone() Fixture {
	out := f
	out.Sheet = f.Sheet.Clone()
	return out
}

// Submission is one team's independently entered copy of the fixture's results.
type Submission struct {
	FixtureID   string
	Author      Side
	SubmittedBy string
	Sheet
	UpdatedAt time.Time
}

func (s Submission) Clone() Submission {
	out := s
	out.Sheet = s.Sheet.Clone()
	return out
}

// EmptySheet returns a sheet with n empty match slots.
func EmptySheet(n int) Sheet {
	if n < 0 {
		n = 0
	}
	return Sheet{Matches: make([]*Match, n)}
}
