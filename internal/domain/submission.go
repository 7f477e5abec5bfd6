package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission is the immutable record written once a job completes.
type Submission struct {
	ID          uuid.UUID `db:"id"`
	UserID      int64     `db:"user_id"`
	QuestionID  int64     `db:"question_id"`
	Code        string    `db:"code"`
	Language    string    `db:"language"`
	Success     bool      `db:"success"`
	MemoryUsage float64   `db:"memory_usage"`
	RunningTime int       `db:"running_time"`
	CodeSize    int       `db:"code_size"`
	SubmittedAt time.Time `db:"submitted_at"`
}

// NewSubmission builds a submission record from a completion callback.
func NewSubmission(result *TestcaseResult) *Submission {
	return &Submission{
		ID:          uuid.New(),
		UserID:      result.UserID,
		QuestionID:  result.QuestionID,
		Code:        result.Code,
		Language:    result.Language,
		Success:     result.Success,
		MemoryUsage: result.MemoryUsage,
		RunningTime: result.RunningTime,
		CodeSize:    result.CodeSize,
		SubmittedAt: time.Now(),
	}
}
