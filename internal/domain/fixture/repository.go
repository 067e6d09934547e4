package fixture

import "context"

// Repository persists canonical fixtures. Upsert is a full replacement.
type Repository interface {
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
	ListByDivision(ctx context.Context, divisionID string) ([]Fixture, error)
	Upsert(ctx context.Context, item Fixture) error
}

// SubmissionRepository persists the per-team copies of a fixture.
type SubmissionRepository interface {
	GetByFixtureAndAuthor(ctx context.Context, fixtureID string, author Side) (Submission, bool, error)
	Upsert(ctx context.Context, item Submission) error
}
