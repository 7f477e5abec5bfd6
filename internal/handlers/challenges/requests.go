package challenges

import (
	"strings"

	"gitlab.com/codearena-2025.net/internal/static/errs"
)

// SubmitCodeRequest represents a request to submit code against a question
type SubmitCodeRequest struct {
	QuestionID int64  `json:"questionId"`
	Code       string `json:"code"`
	Language   string `json:"language"`
}

func (r *SubmitCodeRequest) Validate() error {
	if r.QuestionID <= 0 {
		return errs.ErrInvalidPayload
	}
	if strings.TrimSpace(r.Code) == "" {
		return errs.ErrInvalidPayload
	}
	if r.Language == "" {
		return errs.ErrInvalidPayload
	}
	return nil
}

// SubmitCodeResponse carries the job id or an error message. The unused
// field stays null so clients can tell "no data" from "error".
type SubmitCodeResponse struct {
	JobID *string `json:"jobId"`
	Error *string `json:"error"`
}

// ExecuteCodeResponse carries the testcase count or an error message.
type ExecuteCodeResponse struct {
	NumOfTestcase *int    `json:"numOfTestcase"`
	Error         *string `json:"error"`
}
