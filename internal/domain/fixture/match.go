package fixture

import (
	"sort"
	"strings"
)

// MatchEquals reports whether a and b describe the same reported result.
// Two absent matches are equal; player lists compare by id, position by position.
func MatchEquals(a, b *Match) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !scoreEquals(a.HomeScore, b.HomeScore) || !scoreEquals(a.AwayScore, b.AwayScore) {
		return false
	}
	return PlayersEqual(a.HomePlayers, b.HomePlayers) && PlayersEqual(a.AwayPlayers, b.AwayPlayers)
}

// PlayersEqual is order sensitive: same length and same id at every index.
func PlayersEqual(a, b []PlayerRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func scoreEquals(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// MergeMatch builds the value written into a canonical slot when a submitted
// match is accepted. Precedence, field by field:
//
//	HomeScore, AwayScore, HomePlayers, AwayPlayers: submitted
//
// Any field not listed keeps its canonical value. New Match fields must be
// added here explicitly.
func MergeMatch(canonical, submitted *Match) *Match {
	out := canonical.Clone()
	if out == nil {
		out = &Match{}
	}
	if submitted == nil {
		return out
	}

	src := submitted.Clone()
	out.HomeScore = src.HomeScore
	out.AwayScore = src.AwayScore
	out.HomePlayers = src.HomePlayers
	out.AwayPlayers = src.AwayPlayers
	return out
}

// ApplicablePlayers returns every player appearing in any match, deduplicated
// by id and sorted by name.
func ApplicablePlayers(matches []*Match) []PlayerRef {
	seen := make(map[string]struct{})
	out := make([]PlayerRef, 0)
	add := func(players []PlayerRef) {
		for _, p := range players {
			if strings.TrimSpace(p.ID) == "" {
				continue
			}
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	for _, m := range matches {
		if m == nil {
			continue
		}
		add(m.HomePlayers)
		add(m.AwayPlayers)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindPlayer looks a player up by id.
func FindPlayer(players []PlayerRef, id string) (PlayerRef, bool) {
	for _, p := range players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerRef{}, false
}
