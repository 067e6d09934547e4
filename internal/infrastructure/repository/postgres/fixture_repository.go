package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	qb "github.com/riskibarqy/darts-league/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	query, args, err := fixtureBaseSelectBuilder().
		Where(
			qb.Eq("public_id", fixtureID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build get fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUnnamedPreparedStatementMissing(err) {
			return r.getByIDLiteral(ctx, fixtureID)
		}
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture: %w", err)
	}

	item, err := fixtureFromRow(row)
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	return item, true, nil
}

func (r *FixtureRepository) getByIDLiteral(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	query, args, err := fixtureBaseSelectBuilder().
		Where(
			qb.EqLiteral("public_id", fixtureID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build get fixture literal fallback query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture literal fallback: %w", err)
	}

	item, err := fixtureFromRow(row)
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	return item, true, nil
}

func (r *FixtureRepository) ListByDivision(ctx context.Context, divisionID string) ([]fixture.Fixture, error) {
	query, args, err := fixtureBaseSelectBuilder().
		Where(
			qb.Eq("division_public_id", divisionID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("played_on", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fixtures by division query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list fixtures by division: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		item, err := fixtureFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *FixtureRepository) Upsert(ctx context.Context, item fixture.Fixture) error {
	query, args, err := fixtureUpsertQuery(item)
	if err != nil {
		return err
	}

	var updatedAt time.Time
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return fmt.Errorf("upsert fixture %s: %w", item.ID, err)
	}
	return nil
}

func fixtureUpsertQuery(item fixture.Fixture) (string, []any, error) {
	sheet, err := encodeSheet(item.Sheet)
	if err != nil {
		return "", nil, fmt.Errorf("fixture %s: %w", item.ID, err)
	}

	insertModel := fixtureInsertModel{
		PublicID:   item.ID,
		DivisionID: item.DivisionID,
		Season:     item.Season,
		HomeTeam:   item.HomeTeam,
		AwayTeam:   item.AwayTeam,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		PlayedOn:   item.Date.UTC(),
		Venue:      item.Venue,
		Postponed:  item.Postponed,
		Sheet:      string(sheet),
	}

	query, args, err := qb.InsertModel("fixtures", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    division_public_id = EXCLUDED.division_public_id,
    season = EXCLUDED.season,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    home_team_public_id = EXCLUDED.home_team_public_id,
    away_team_public_id = EXCLUDED.away_team_public_id,
    played_on = EXCLUDED.played_on,
    venue = EXCLUDED.venue,
    postponed = EXCLUDED.postponed,
    sheet = EXCLUDED.sheet,
    updated_at = NOW(),
    deleted_at = NULL
RETURNING updated_at`)
	if err != nil {
		return "", nil, fmt.Errorf("build fixture upsert query: %w", err)
	}
	return query, args, nil
}

func fixtureFromRow(row fixtureTableModel) (fixture.Fixture, error) {
	sheet, err := decodeSheet(row.Sheet)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("fixture %s: %w", row.PublicID, err)
	}
	return fixture.Fixture{
		ID:         row.PublicID,
		DivisionID: row.DivisionID,
		Season:     row.Season,
		HomeTeam:   row.HomeTeam,
		AwayTeam:   row.AwayTeam,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		Date:       row.PlayedOn.UTC(),
		Venue:      row.Venue,
		Postponed:  row.Postponed,
		Sheet:      sheet,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func fixtureBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("fixtures")
}
