package challenge

import "context"

// IChallengeService brokers code-challenge jobs with the judge service. All
// operations are pure request/response proxies: none of them touch the
// subscription registry.
type IChallengeService interface {
	// Submit creates a judge job for the user's code and returns its id.
	Submit(ctx context.Context, ownerID, questionID int64, code, language string) (string, error)

	// Execute starts a created job and returns how many testcases the
	// client should expect progress events for.
	Execute(ctx context.Context, jobID string, ownerID int64) (int, error)

	// Cancel asks the judge to stop a running job. Advisory only: the job
	// is gone locally once the cancellation acknowledgment arrives on the
	// event path.
	Cancel(ctx context.Context, jobID string, ownerID int64) error

	// Delete releases upstream resources for a finished job.
	Delete(ctx context.Context, jobID string, ownerID int64) error

	// Authorize checks that a job belongs to the given user.
	Authorize(ctx context.Context, jobID string, ownerID int64) error
}
