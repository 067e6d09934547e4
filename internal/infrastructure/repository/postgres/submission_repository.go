package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	qb "github.com/riskibarqy/darts-league/internal/platform/querybuilder"
)

type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) GetByFixtureAndAuthor(ctx context.Context, fixtureID string, author fixture.Side) (fixture.Submission, bool, error) {
	query, args, err := qb.Select("*").From("fixture_submissions").
		Where(
			qb.Eq("fixture_public_id", fixtureID),
			qb.Eq("author", string(author)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fixture.Submission{}, false, fmt.Errorf("build get submission query: %w", err)
	}

	var row submissionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Submission{}, false, nil
		}
		return fixture.Submission{}, false, fmt.Errorf("get submission: %w", err)
	}

	item, err := submissionFromRow(row)
	if err != nil {
		return fixture.Submission{}, false, err
	}
	return item, true, nil
}

func (r *SubmissionRepository) Upsert(ctx context.Context, item fixture.Submission) error {
	query, args, err := submissionUpsertQuery(item)
	if err != nil {
		return err
	}

	var updatedAt time.Time
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("upsert submission %s/%s: concurrent insert: %w", item.FixtureID, item.Author, err)
		}
		return fmt.Errorf("upsert submission %s/%s: %w", item.FixtureID, item.Author, err)
	}
	return nil
}

func submissionUpsertQuery(item fixture.Submission) (string, []any, error) {
	if _, ok := fixture.ParseSide(string(item.Author)); !ok {
		return "", nil, fmt.Errorf("submission %s: invalid author %q", item.FixtureID, item.Author)
	}

	sheet, err := encodeSheet(item.Sheet)
	if err != nil {
		return "", nil, fmt.Errorf("submission %s/%s: %w", item.FixtureID, item.Author, err)
	}

	query, args, err := qb.InsertModel("fixture_submissions", submissionInsertModel{
		FixtureID:   item.FixtureID,
		Author:      string(item.Author),
		SubmittedBy: item.SubmittedBy,
		Sheet:       string(sheet),
	}, `ON CONFLICT (fixture_public_id, author) WHERE deleted_at IS NULL
DO UPDATE SET
    submitted_by = EXCLUDED.submitted_by,
    sheet = EXCLUDED.sheet,
    updated_at = NOW()
RETURNING updated_at`)
	if err != nil {
		return "", nil, fmt.Errorf("build submission upsert query: %w", err)
	}
	return query, args, nil
}

func submissionFromRow(row submissionTableModel) (fixture.Submission, error) {
	author, ok := fixture.ParseSide(row.Author)
	if !ok {
		return fixture.Submission{}, fmt.Errorf("submission %s: invalid author %q", row.FixtureID, row.Author)
	}
	sheet, err := decodeSheet(row.Sheet)
	if err != nil {
		return fixture.Submission{}, fmt.Errorf("submission %s/%s: %w", row.FixtureID, author, err)
	}
	return fixture.Submission{
		FixtureID:   row.FixtureID,
		Author:      author,
		SubmittedBy: row.SubmittedBy,
		Sheet:       sheet,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
