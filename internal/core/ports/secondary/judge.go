package secondary

import (
	"context"
	"fmt"
)

// JudgeResponse carries the HTTP status and decoded body of a successful
// judge service call.
type JudgeResponse struct {
	Status int
	Data   map[string]interface{}
}

// ClientError reports a 4xx from the judge service: something about the
// request was wrong (bad payload, unknown job or question, admission limit).
// The orchestrator maps Status to a domain error per endpoint.
type ClientError struct {
	Status int
	Path   string
	Data   map[string]interface{}
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("judge rejected %s with status %d", e.Path, e.Status)
}

// ServerError reports a 5xx or transport-level failure: the judge is
// unhealthy and nothing about the request was wrong. Full detail is logged
// at the adapter; callers only ever surface a generic internal error.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("judge unavailable (status %d): %s", e.Status, e.Message)
}

// JudgeGateway is the outbound contract to the external execution service.
type JudgeGateway interface {
	// Call sends one request to the judge service. Errors are classified
	// once here: *ClientError for 4xx, *ServerError for 5xx and transport
	// failures. Nothing downstream re-classifies.
	Call(ctx context.Context, method, path string, body interface{}) (*JudgeResponse, error)
}
