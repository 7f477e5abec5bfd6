package errs

import "errors"

// Stable user-facing errors for the code-challenge flow. The messages are
// part of the client contract; handlers pick the HTTP status from them with
// errors.Is.
var (
	ErrInvalidPayload   = errors.New("invalid request format")
	ErrQuestionNotFound = errors.New("unknown coding challenge question")
	ErrJobNotFound      = errors.New("unknown job")
	ErrAdmissionLimit   = errors.New("too many concurrent submissions; wait for a running one to finish")
	ErrInternal         = errors.New("internal error")
	ErrForbidden        = errors.New("job does not belong to this user")
	ErrUnauthorized     = errors.New("authorization required")
)

// ErrMalformedUpstream marks a judge response or callback missing an
// expected field. Treated as an upstream bug: logged in full, surfaced
// as a generic internal error.
var ErrMalformedUpstream = errors.New("judge returned an unexpected response")
