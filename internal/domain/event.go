package domain

// ProgressEvent is one testcase update pushed to a subscribed client. The
// SSE event id carries the testcase index as well, so clients can resume
// by id.
type ProgressEvent struct {
	Success       bool    `json:"success"`
	RunningTime   int     `json:"runningTime"`
	MemoryUsage   float64 `json:"memoryUsage"`
	CodeSize      int     `json:"codeSize"`
	Error         string  `json:"error,omitempty"`
	Detail        string  `json:"detail,omitempty"`
	TestcaseIndex int     `json:"testcaseIndex"`
}
