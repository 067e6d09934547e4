package httpapi

import (
	"time"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/domain/reconcile"
)

type createFixtureRequest struct {
	DivisionID string    `json:"division_id" validate:"required"`
	Season     string    `json:"season" validate:"omitempty,max=20"`
	HomeTeam   string    `json:"home_team" validate:"required,max=100"`
	AwayTeam   string    `json:"away_team" validate:"required,max=100"`
	HomeTeamID string    `json:"home_team_id" validate:"required"`
	AwayTeamID string    `json:"away_team_id" validate:"required,nefield=HomeTeamID"`
	Date       time.Time `json:"date" validate:"required"`
	Venue      string    `json:"venue" validate:"omitempty,max=100"`
	MatchSlots int       `json:"match_slots" validate:"omitempty,min=1,max=21"`
}

type updateFixtureRequest struct {
	Date      *time.Time `json:"date"`
	Venue     *string    `json:"venue" validate:"omitempty,max=100"`
	Postponed *bool      `json:"postponed"`
}

type playerRefRequest struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"max=100"`
}

// setMatchRequest replaces one match slot. Clear empties the slot.
type setMatchRequest struct {
	Clear       bool               `json:"clear"`
	HomeScore   *int               `json:"home_score" validate:"omitempty,min=0"`
	AwayScore   *int               `json:"away_score" validate:"omitempty,min=0"`
	HomePlayers []playerRefRequest `json:"home_players" validate:"dive"`
	AwayPlayers []playerRefRequest `json:"away_players" validate:"dive"`
}

func (r setMatchRequest) toMatch() *fixture.Match {
	if r.Clear {
		return nil
	}
	return &fixture.Match{
		HomeScore:   r.HomeScore,
		AwayScore:   r.AwayScore,
		HomePlayers: playerRefsFromRequest(r.HomePlayers),
		AwayPlayers: playerRefsFromRequest(r.AwayPlayers),
	}
}

func playerRefsFromRequest(in []playerRefRequest) []fixture.PlayerRef {
	out := make([]fixture.PlayerRef, 0, len(in))
	for _, p := range in {
		out = append(out, fixture.PlayerRef{ID: p.ID, Name: p.Name})
	}
	return out
}

type addOneEightyRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type addHiCheckRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Notes    string `json:"notes" validate:"max=200"`
}

type setManOfTheMatchRequest struct {
	PlayerID string `json:"player_id"`
}

type acceptMatchRequest struct {
	Source string `json:"source" validate:"required,oneof=agreed home away"`
}

type mergeFromSideRequest struct {
	Side string `json:"side" validate:"required,oneof=home away"`
}

type playerRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type matchDTO struct {
	HomeScore   *int           `json:"home_score"`
	AwayScore   *int           `json:"away_score"`
	HomePlayers []playerRefDTO `json:"home_players"`
	AwayPlayers []playerRefDTO `json:"away_players"`
	Published   bool           `json:"published"`
}

type checkoutDTO struct {
	Player playerRefDTO `json:"player"`
	Notes  string       `json:"notes"`
}

type sheetDTO struct {
	Matches           []*matchDTO    `json:"matches"`
	HomeManOfTheMatch string         `json:"home_man_of_the_match"`
	AwayManOfTheMatch string         `json:"away_man_of_the_match"`
	OneEighties       []playerRefDTO `json:"one_eighties"`
	HiChecks          []checkoutDTO  `json:"hi_checks"`
	ApplicablePlayers []playerRefDTO `json:"applicable_players"`
}

type fixtureDTO struct {
	ID         string    `json:"id"`
	DivisionID string    `json:"division_id"`
	Season     string    `json:"season"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	Date       time.Time `json:"date"`
	Venue      string    `json:"venue"`
	Postponed  bool      `json:"postponed"`
	Sheet      sheetDTO  `json:"sheet"`
}

type matchOfferDTO struct {
	Index    int       `json:"index"`
	Decision string    `json:"decision"`
	Agreed   *matchDTO `json:"agreed,omitempty"`
	Home     *matchDTO `json:"home,omitempty"`
	Away     *matchDTO `json:"away,omitempty"`
	Actions  []string  `json:"actions"`
}

type accoladeEntryDTO struct {
	Player playerRefDTO `json:"player"`
	Notes  string       `json:"notes,omitempty"`
}

type accoladeOfferDTO struct {
	Category string             `json:"category"`
	Blocked  bool               `json:"blocked"`
	Home     []accoladeEntryDTO `json:"home"`
	Away     []accoladeEntryDTO `json:"away"`
	Actions  []string           `json:"actions"`
}

type manOfTheMatchOfferDTO struct {
	Side      string        `json:"side"`
	Status    string        `json:"status"`
	Current   string        `json:"current,omitempty"`
	Candidate *playerRefDTO `json:"candidate,omitempty"`
}

type mergePlanDTO struct {
	FixtureID      string                  `json:"fixture_id"`
	ReadOnly       bool                    `json:"read_only"`
	HasOpenActions bool                    `json:"has_open_actions"`
	Matches        []matchOfferDTO         `json:"matches"`
	Accolades      []accoladeOfferDTO      `json:"accolades"`
	ManOfTheMatch  []manOfTheMatchOfferDTO `json:"man_of_the_match"`
}

type pendingMergesDTO struct {
	DivisionID string   `json:"division_id"`
	FixtureIDs []string `json:"fixture_ids"`
}

func playerRefsToDTO(in []fixture.PlayerRef) []playerRefDTO {
	out := make([]playerRefDTO, 0, len(in))
	for _, p := range in {
		out = append(out, playerRefDTO{ID: p.ID, Name: p.Name})
	}
	return out
}

func matchToDTO(m *fixture.Match) *matchDTO {
	if m == nil {
		return nil
	}
	return &matchDTO{
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		HomePlayers: playerRefsToDTO(m.HomePlayers),
		AwayPlayers: playerRefsToDTO(m.AwayPlayers),
		Published:   m.Published(),
	}
}

func sheetToDTO(s fixture.Sheet) sheetDTO {
	out := sheetDTO{
		Matches:           make([]*matchDTO, 0, len(s.Matches)),
		HomeManOfTheMatch: s.Home.ManOfTheMatch,
		AwayManOfTheMatch: s.Away.ManOfTheMatch,
		OneEighties:       playerRefsToDTO(s.OneEighties),
		HiChecks:          make([]checkoutDTO, 0, len(s.HiChecks)),
		ApplicablePlayers: playerRefsToDTO(fixture.ApplicablePlayers(s.Matches)),
	}
	for _, m := range s.Matches {
		out.Matches = append(out.Matches, matchToDTO(m))
	}
	for _, c := range s.HiChecks {
		out.HiChecks = append(out.HiChecks, checkoutDTO{
			Player: playerRefDTO{ID: c.Player.ID, Name: c.Player.Name},
			Notes:  c.Notes,
		})
	}
	return out
}

func fixtureToDTO(f fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:         f.ID,
		DivisionID: f.DivisionID,
		Season:     f.Season,
		HomeTeam:   f.HomeTeam,
		AwayTeam:   f.AwayTeam,
		HomeTeamID: f.HomeTeamID,
		AwayTeamID: f.AwayTeamID,
		Date:       f.Date,
		Venue:      f.Venue,
		Postponed:  f.Postponed,
		Sheet:      sheetToDTO(f.Sheet),
	}
}

// planToDTO lists the actions a caller may take. A read-only plan carries
// the same decisions with no actions.
func planToDTO(p reconcile.Plan) mergePlanDTO {
	out := mergePlanDTO{
		FixtureID:      p.FixtureID,
		ReadOnly:       p.ReadOnly,
		HasOpenActions: p.HasOpenActions(),
		Matches:        make([]matchOfferDTO, 0, len(p.Matches)),
		Accolades:      make([]accoladeOfferDTO, 0, len(p.Accolades)),
		ManOfTheMatch:  make([]manOfTheMatchOfferDTO, 0, len(p.ManOfTheMatch)),
	}

	for _, m := range p.Matches {
		item := matchOfferDTO{
			Index:    m.Index,
			Decision: string(m.Decision),
			Agreed:   matchToDTO(m.Agreed),
			Home:     matchToDTO(m.Home),
			Away:     matchToDTO(m.Away),
			Actions:  []string{},
		}
		if !p.ReadOnly {
			for _, src := range []reconcile.Source{reconcile.SourceAgreed, reconcile.SourceHome, reconcile.SourceAway} {
				if _, ok := m.Record(src); ok {
					item.Actions = append(item.Actions, "accept_"+string(src))
				}
			}
		}
		out.Matches = append(out.Matches, item)
	}

	for _, a := range p.Accolades {
		item := accoladeOfferDTO{
			Category: string(a.Category),
			Blocked:  a.Blocked,
			Home:     accoladeEntriesToDTO(a.Home),
			Away:     accoladeEntriesToDTO(a.Away),
			Actions:  []string{},
		}
		if !p.ReadOnly {
			for _, side := range []fixture.Side{fixture.SideHome, fixture.SideAway} {
				if a.Offered(side) {
					item.Actions = append(item.Actions, "merge_"+string(side))
				}
			}
		}
		out.Accolades = append(out.Accolades, item)
	}

	for _, m := range p.ManOfTheMatch {
		item := manOfTheMatchOfferDTO{
			Side:    string(m.Side),
			Status:  string(m.Status),
			Current: m.Current,
		}
		if m.Status == reconcile.ManOfTheMatchOffered {
			item.Candidate = &playerRefDTO{ID: m.Candidate.ID, Name: m.Candidate.Name}
		}
		out.ManOfTheMatch = append(out.ManOfTheMatch, item)
	}
	return out
}

func accoladeEntriesToDTO(in []reconcile.AccoladeEntry) []accoladeEntryDTO {
	out := make([]accoladeEntryDTO, 0, len(in))
	for _, e := range in {
		out = append(out, accoladeEntryDTO{
			Player: playerRefDTO{ID: e.Player.ID, Name: e.Player.Name},
			Notes:  e.Notes,
		})
	}
	return out
}
