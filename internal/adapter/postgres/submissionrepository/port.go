// package submissionrepository persists finished code-challenge submissions
// to PostgreSQL.
package submissionrepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/codearena-2025.net/internal/core/ports/primary"
	"gitlab.com/codearena-2025.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2025.net/internal/domain"
)

var _ secondary.SubmissionSink = (*SubmissionRepository)(nil)

// SubmissionRepository implements the SubmissionSink interface with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

// Save writes the submission record. Records are immutable once written;
// a duplicate id is ignored rather than updated.
func (r *SubmissionRepository) Save(ctx context.Context, submission *domain.Submission) error {
	query := `
		INSERT INTO code_challenge_submissions (
			id, user_id, question_id, code, language, success,
			memory_usage, running_time, code_size, submitted_at
		) VALUES (
			:id, :user_id, :question_id, :code, :language, :success,
			:memory_usage, :running_time, :code_size, :submitted_at
		)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		r.logger.Error("Failed to save submission", "userId", submission.UserID, "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}

	return nil
}
