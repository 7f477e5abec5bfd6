package domain

import "strings"

// Markers the judge embeds in the detail field of terminal callbacks. The
// substring match mirrors the upstream contract, which defines no structured
// category field.
const (
	detailCompleteMarker = "complete"
	detailCancelMarker   = "cancel"
)

// TestcaseResult is the callback payload the judge posts once per testcase
// or terminal job state.
type TestcaseResult struct {
	JobID   string `json:"jobId"`
	Success bool   `json:"success"`

	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`

	TestcaseIndex int     `json:"testcaseIndex"`
	MemoryUsage   float64 `json:"memoryUsage"`
	RunningTime   int     `json:"runningTime"`
	CodeSize      int     `json:"codeSize"`

	// Completion callbacks embed everything needed to persist the
	// submission; absent on per-testcase callbacks.
	UserID     int64  `json:"userId,omitempty"`
	QuestionID int64  `json:"questionId,omitempty"`
	Code       string `json:"code,omitempty"`
	Language   string `json:"language,omitempty"`
}

// IsCancellation reports whether this callback acknowledges a user-initiated
// cancel.
func (t *TestcaseResult) IsCancellation() bool {
	return t.Success && strings.Contains(t.Detail, detailCancelMarker)
}

// IsCompletion reports whether this callback is the job's completion record.
func (t *TestcaseResult) IsCompletion() bool {
	return t.Success && strings.Contains(t.Detail, detailCompleteMarker)
}
