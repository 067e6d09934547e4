package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
)

type SubmissionRepository struct {
	mu          sync.RWMutex
	submissions map[string]fixture.Submission
}

func NewSubmissionRepository(submissions []fixture.Submission) *SubmissionRepository {
	byKey := make(map[string]fixture.Submission, len(submissions))
	for _, item := range submissions {
		byKey[submissionKey(item.FixtureID, item.Author)] = item.Clone()
	}

	return &SubmissionRepository{submissions: byKey}
}

func (r *SubmissionRepository) GetByFixtureAndAuthor(_ context.Context, fixtureID string, author fixture.Side) (fixture.Submission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.submissions[submissionKey(fixtureID, author)]
	if !ok {
		return fixture.Submission{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *SubmissionRepository) Upsert(_ context.Context, item fixture.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.submissions[submissionKey(item.FixtureID, item.Author)] = item.Clone()
	return nil
}

func submissionKey(fixtureID string, author fixture.Side) string {
	return fixtureID + ":" + string(author)
}
