package relay

import (
	"context"
	"strconv"
	"strings"

	"gitlab.com/codearena-2025.net/internal/core/ports/primary"
	"gitlab.com/codearena-2025.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2025.net/internal/domain"
	"gitlab.com/codearena-2025.net/internal/sse"
)

// DispatchStatus tells the judge service what happened to a callback, so it
// can decide whether to keep streaming events for the job.
type DispatchStatus string

const (
	DispatchSuccess        DispatchStatus = "SUCCESS"
	DispatchClientNotFound DispatchStatus = "CLIENT_NOT_FOUND"
	DispatchGone           DispatchStatus = "GONE"
	DispatchError          DispatchStatus = "ERROR"
)

// Error categories an individual testcase may report without ending the
// job. The substring match mirrors the upstream contract; isRecoverable is
// the single place to swap in a structured category field if the judge ever
// grows one.
var recoverableErrors = []string{"runtime error", "compile error"}

func isRecoverable(errText string) bool {
	for _, category := range recoverableErrors {
		if strings.Contains(errText, category) {
			return true
		}
	}
	return false
}

func isFatal(result *domain.TestcaseResult) bool {
	return !result.Success && result.Error != "" && !isRecoverable(result.Error)
}

// Relay routes judge callbacks to the subscribed client and, for completion
// records, to the submission sink. It keeps no per-job state: the payload
// content is the only discriminator.
type Relay struct {
	registry *Registry
	sink     secondary.SubmissionSink
	jobs     secondary.JobIndex
	logger   primary.Logger
}

// NewRelay creates a new event relay
func NewRelay(registry *Registry, sink secondary.SubmissionSink, jobs secondary.JobIndex, logger primary.Logger) *Relay {
	return &Relay{
		registry: registry,
		sink:     sink,
		jobs:     jobs,
		logger:   logger,
	}
}

// Dispatch handles one testcase callback. Events for a job are forwarded in
// the order callbacks arrive; nothing is buffered across calls.
func (r *Relay) Dispatch(ctx context.Context, result *domain.TestcaseResult) DispatchStatus {
	switch {
	case result.IsCancellation():
		// The client asked for this; nothing to push.
		r.registry.RemoveAndClose(result.JobID)
		r.markTerminal(ctx, result.JobID)
		return DispatchGone
	case result.IsCompletion():
		return r.complete(ctx, result)
	}

	sub, ok := r.registry.Get(result.JobID)
	if !ok {
		return DispatchClientNotFound
	}

	event := sse.Event{
		ID: strconv.Itoa(result.TestcaseIndex),
		Data: domain.ProgressEvent{
			Success:       result.Success,
			RunningTime:   result.RunningTime,
			MemoryUsage:   result.MemoryUsage,
			CodeSize:      result.CodeSize,
			Error:         result.Error,
			Detail:        result.Detail,
			TestcaseIndex: result.TestcaseIndex,
		},
	}

	if isFatal(result) {
		// One terminal error event, then teardown.
		if err := sub.Send(event); err != nil {
			r.logger.Info("Subscriber gone before terminal event", "jobId", result.JobID, "error", err)
		}
		r.registry.RemoveAndClose(result.JobID)
		r.markTerminal(ctx, result.JobID)
		return DispatchSuccess
	}

	if err := sub.Send(event); err != nil {
		// The judge cannot retry a disconnected client; clean up instead of
		// propagating the push failure.
		r.logger.Info("Subscriber gone mid-delivery", "jobId", result.JobID, "error", err)
		r.registry.RemoveAndClose(result.JobID)
		return DispatchError
	}

	return DispatchSuccess
}

// complete closes out a finished job. The submission record is written even
// when no client is watching.
func (r *Relay) complete(ctx context.Context, result *domain.TestcaseResult) DispatchStatus {
	status := DispatchSuccess

	sub, ok := r.registry.Get(result.JobID)
	if !ok {
		status = DispatchClientNotFound
	} else {
		if err := sub.Send(sse.Event{Data: "complete"}); err != nil {
			r.logger.Info("Subscriber gone before completion event", "jobId", result.JobID, "error", err)
			status = DispatchError
		}
		r.registry.RemoveAndClose(result.JobID)
	}

	r.markTerminal(ctx, result.JobID)
	r.persist(ctx, result)
	return status
}

func (r *Relay) persist(ctx context.Context, result *domain.TestcaseResult) {
	if result.UserID == 0 || result.QuestionID == 0 || result.Code == "" {
		r.logger.Error("Completion callback missing submission fields",
			"jobId", result.JobID,
			"userId", result.UserID,
			"questionId", result.QuestionID)
		return
	}

	if err := r.sink.Save(ctx, domain.NewSubmission(result)); err != nil {
		r.logger.Error("Failed to persist submission", "jobId", result.JobID, "error", err)
	}
}

func (r *Relay) markTerminal(ctx context.Context, jobID string) {
	if r.jobs == nil {
		return
	}
	if err := r.jobs.SetPhase(ctx, jobID, domain.JobPhaseTerminal); err != nil {
		r.logger.Debug("Failed to mark job terminal", "jobId", jobID, "error", err)
	}
}
