package secondary

import (
	"context"

	"gitlab.com/codearena-2025.net/internal/domain"
)

// JobIndex tracks which user owns a live job and what phase it is in.
// Diagnostics and ownership checks only; event delivery never consults it.
type JobIndex interface {
	// Put records a job. Entries expire on their own, so a missed cleanup
	// never leaks.
	Put(ctx context.Context, record *domain.JobRecord) error

	// Get retrieves a job record, or nil if the index has no entry.
	Get(ctx context.Context, jobID string) (*domain.JobRecord, error)

	// SetPhase advances the recorded lifecycle phase. No-op for unknown jobs.
	SetPhase(ctx context.Context, jobID string, phase domain.JobPhase) error

	// Remove drops the entry for a job.
	Remove(ctx context.Context, jobID string) error
}
