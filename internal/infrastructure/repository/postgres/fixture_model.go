package postgres

import (
	"time"
)

type fixtureTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	DivisionID string     `db:"division_public_id"`
	Season     string     `db:"season"`
	HomeTeam   string     `db:"home_team"`
	AwayTeam   string     `db:"away_team"`
	HomeTeamID string     `db:"home_team_public_id"`
	AwayTeamID string     `db:"away_team_public_id"`
	PlayedOn   time.Time  `db:"played_on"`
	Venue      string     `db:"venue"`
	Postponed  bool       `db:"postponed"`
	Sheet      []byte     `db:"sheet"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

// Sheet is bound as text so lib/pq does not send it as a binary bytea param.
type fixtureInsertModel struct {
	PublicID   string    `db:"public_id"`
	DivisionID string    `db:"division_public_id"`
	Season     string    `db:"season"`
	HomeTeam   string    `db:"home_team"`
	AwayTeam   string    `db:"away_team"`
	HomeTeamID string    `db:"home_team_public_id"`
	AwayTeamID string    `db:"away_team_public_id"`
	PlayedOn   time.Time `db:"played_on"`
	Venue      string    `db:"venue"`
	Postponed  bool      `db:"postponed"`
	Sheet      string    `db:"sheet"`
}

type submissionTableModel struct {
	ID          int64      `db:"id"`
	FixtureID   string     `db:"fixture_public_id"`
	Author      string     `db:"author"`
	SubmittedBy string     `db:"submitted_by"`
	Sheet       []byte     `db:"sheet"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type submissionInsertModel struct {
	FixtureID   string `db:"fixture_public_id"`
	Author      string `db:"author"`
	SubmittedBy string `db:"submitted_by"`
	Sheet       string `db:"sheet"`
}
