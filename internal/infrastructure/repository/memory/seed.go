package memory

import (
	"time"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
)

const (
	DivisionIDPremier = "div-premier-2026"
	DivisionIDFirst   = "div-first-2026"

	seedSeason = "2026/2027"
)

func SeedFixtures() []fixture.Fixture {
	first := time.Date(2026, 10, 6, 19, 30, 0, 0, time.UTC)
	return []fixture.Fixture{
		{
			ID:         "fx-premier-001",
			DivisionID: DivisionIDPremier,
			Season:     seedSeason,
			HomeTeam:   "Red Lion A",
			AwayTeam:   "Kings Head",
			HomeTeamID: "team-red-lion-a",
			AwayTeamID: "team-kings-head",
			Date:       first,
			Venue:      "Red Lion",
			Sheet:      fixture.EmptySheet(fixture.DefaultMatchSlots),
		},
		{
			ID:         "fx-premier-002",
			DivisionID: DivisionIDPremier,
			Season:     seedSeason,
			HomeTeam:   "Railway Tavern",
			AwayTeam:   "Red Lion A",
			HomeTeamID: "team-railway",
			AwayTeamID: "team-red-lion-a",
			Date:       first.AddDate(0, 0, 7),
			Venue:      "Railway Tavern",
			Sheet:      fixture.EmptySheet(fixture.DefaultMatchSlots),
		},
		{
			ID:         "fx-first-001",
			DivisionID: DivisionIDFirst,
			Season:     seedSeason,
			HomeTeam:   "Red Lion B",
			AwayTeam:   "The Anchor",
			HomeTeamID: "team-red-lion-b",
			AwayTeamID: "team-anchor",
			Date:       first.AddDate(0, 0, 1),
			Venue:      "Red Lion",
			Sheet:      fixture.EmptySheet(fixture.DefaultMatchSlots),
		},
	}
}
