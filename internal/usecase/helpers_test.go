package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/domain/user"
)

var (
	adminUser    = user.Principal{UserID: "u-admin", Role: user.RoleAdmin}
	readOnlyUser = user.Principal{UserID: "u-viewer", Role: user.RoleReadOnly}
	homeCaptain  = user.Principal{UserID: "u-home", TeamID: "team-home"}
	awayCaptain  = user.Principal{UserID: "u-away", TeamID: "team-away"}
	outsider     = user.Principal{UserID: "u-other", TeamID: "team-other"}
	anonymous    = user.Principal{}

	playerAnn  = fixture.PlayerRef{ID: "p-ann", Name: "Ann"}
	playerBeth = fixture.PlayerRef{ID: "p-beth", Name: "Beth"}
	playerCal  = fixture.PlayerRef{ID: "p-cal", Name: "Cal"}
	playerDee  = fixture.PlayerRef{ID: "p-dee", Name: "Dee"}
)

func intPtr(v int) *int { return &v }

func newTestFixture(id string) fixture.Fixture {
	return fixture.Fixture{
		ID:         id,
		DivisionID: "div-1",
		Season:     "2026/2027",
		HomeTeam:   "Home Arms",
		AwayTeam:   "Away Inn",
		HomeTeamID: "team-home",
		AwayTeamID: "team-away",
		Date:       time.Date(2026, 10, 6, 19, 30, 0, 0, time.UTC),
		Sheet:      fixture.EmptySheet(3),
	}
}

func playedMatch(home, away int) *fixture.Match {
	return &fixture.Match{
		HomeScore:   intPtr(home),
		AwayScore:   intPtr(away),
		HomePlayers: []fixture.PlayerRef{playerAnn, playerBeth},
		AwayPlayers: []fixture.PlayerRef{playerCal, playerDee},
	}
}

type reportedError struct {
	err  error
	args []any
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []reportedError
}

func (r *recordingReporter) Report(_ context.Context, err error, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, reportedError{err: err, args: args})
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}
