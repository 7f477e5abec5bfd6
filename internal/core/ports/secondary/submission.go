package secondary

import (
	"context"

	"gitlab.com/codearena-2025.net/internal/domain"
)

// SubmissionSink persists a finished job's submission record. It is called
// exactly once per job, on the completion callback path.
type SubmissionSink interface {
	Save(ctx context.Context, submission *domain.Submission) error
}
