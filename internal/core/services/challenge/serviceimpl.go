package challenge

import (
	"context"
	"errors"
	"net/http"

	"gitlab.com/codearena-2025.net/internal/core/ports/primary"
	"gitlab.com/codearena-2025.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2025.net/internal/domain"
	"gitlab.com/codearena-2025.net/internal/static/errs"
)

var _ IChallengeService = (*ChallengeService)(nil)

// ChallengeService implements IChallengeService over the judge gateway.
type ChallengeService struct {
	judge  secondary.JudgeGateway
	jobs   secondary.JobIndex
	logger primary.Logger
}

// NewChallengeService creates a new challenge service
func NewChallengeService(judge secondary.JudgeGateway, jobs secondary.JobIndex, logger primary.Logger) *ChallengeService {
	return &ChallengeService{
		judge:  judge,
		jobs:   jobs,
		logger: logger,
	}
}

// Submit creates a judge job and hands back the upstream-minted job id. No
// local state beyond the advisory job index; the id is a forwarding key.
func (s *ChallengeService) Submit(ctx context.Context, ownerID, questionID int64, code, language string) (string, error) {
	body := map[string]interface{}{
		"userId":     ownerID,
		"questionId": questionID,
		"code":       code,
		"language":   language,
	}

	resp, err := s.judge.Call(ctx, http.MethodPost, "/job/create", body)
	if err != nil {
		return "", s.classify(err, map[int]error{
			http.StatusBadRequest:          errs.ErrInvalidPayload,
			http.StatusNotFound:            errs.ErrQuestionNotFound,
			http.StatusUnprocessableEntity: errs.ErrAdmissionLimit,
		})
	}
	if resp.Status != http.StatusCreated {
		s.logger.Error("Unexpected status from job create", "status", resp.Status)
		return "", errs.ErrInternal
	}

	jobID, ok := stringField(resp.Data, "jobId")
	if !ok {
		s.logger.Error("Job create response missing jobId", "userId", ownerID)
		return "", errs.ErrMalformedUpstream
	}

	record := &domain.JobRecord{
		JobID:      jobID,
		OwnerID:    ownerID,
		QuestionID: questionID,
		Phase:      domain.JobPhaseCreated,
	}
	if err := s.jobs.Put(ctx, record); err != nil {
		// The index is advisory; the job is already live upstream.
		s.logger.Warn("Failed to index job", "jobId", jobID, "error", err)
	}

	s.logger.Info("Job created", "jobId", jobID, "userId", ownerID, "questionId", questionID)
	return jobID, nil
}

// Execute starts the job and reports the number of testcases the judge will
// run, so the caller knows how many progress events to expect.
func (s *ChallengeService) Execute(ctx context.Context, jobID string, ownerID int64) (int, error) {
	if err := s.Authorize(ctx, jobID, ownerID); err != nil {
		return 0, err
	}

	body := map[string]interface{}{
		"jobId":  jobID,
		"userId": ownerID,
	}

	resp, err := s.judge.Call(ctx, http.MethodPost, "/job/execute", body)
	if err != nil {
		return 0, s.classify(err, map[int]error{
			http.StatusBadRequest: errs.ErrInvalidPayload,
			http.StatusNotFound:   errs.ErrJobNotFound,
		})
	}

	if success, ok := boolField(resp.Data, "success"); ok && !success {
		message, _ := stringField(resp.Data, "error")
		s.logger.Error("Judge refused to execute job", "jobId", jobID, "error", message)
		return 0, errs.ErrInternal
	}

	count, ok := intField(resp.Data, "numOfTestcase")
	if !ok {
		s.logger.Error("Job execute response missing numOfTestcase", "jobId", jobID)
		return 0, errs.ErrMalformedUpstream
	}

	if err := s.jobs.SetPhase(ctx, jobID, domain.JobPhaseExecuting); err != nil {
		s.logger.Warn("Failed to update job phase", "jobId", jobID, "error", err)
	}

	s.logger.Info("Job executing", "jobId", jobID, "numOfTestcase", count)
	return count, nil
}

// Cancel signals the upstream worker to stop. No local state changes here:
// the worker self-terminates and the acknowledgment arrives through the
// normal event path, which closes the stream.
func (s *ChallengeService) Cancel(ctx context.Context, jobID string, ownerID int64) error {
	if err := s.Authorize(ctx, jobID, ownerID); err != nil {
		return err
	}

	body := map[string]interface{}{
		"jobId":  jobID,
		"userId": ownerID,
	}
	if _, err := s.judge.Call(ctx, http.MethodPost, "/job/cancel", body); err != nil {
		return s.classify(err, map[int]error{
			http.StatusBadRequest: errs.ErrInvalidPayload,
			http.StatusNotFound:   errs.ErrJobNotFound,
		})
	}

	s.logger.Info("Job cancel requested", "jobId", jobID, "userId", ownerID)
	return nil
}

// Delete cleans up upstream resources after a job has finished.
func (s *ChallengeService) Delete(ctx context.Context, jobID string, ownerID int64) error {
	if err := s.Authorize(ctx, jobID, ownerID); err != nil {
		return err
	}

	body := map[string]interface{}{
		"jobId":  jobID,
		"userId": ownerID,
	}
	if _, err := s.judge.Call(ctx, http.MethodDelete, "/job/delete", body); err != nil {
		return s.classify(err, map[int]error{
			http.StatusBadRequest: errs.ErrInvalidPayload,
			http.StatusNotFound:   errs.ErrJobNotFound,
		})
	}

	if err := s.jobs.Remove(ctx, jobID); err != nil {
		s.logger.Warn("Failed to drop job index entry", "jobId", jobID, "error", err)
	}

	s.logger.Info("Job deleted", "jobId", jobID, "userId", ownerID)
	return nil
}

// Authorize checks the job index entry against the requesting user. A
// missing entry is allowed through: the index is advisory with a TTL and
// the judge re-checks ownership on every call.
func (s *ChallengeService) Authorize(ctx context.Context, jobID string, ownerID int64) error {
	record, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		s.logger.Warn("Job index lookup failed", "jobId", jobID, "error", err)
		return nil
	}
	if record == nil {
		return nil
	}
	if record.OwnerID != ownerID {
		return errs.ErrForbidden
	}
	return nil
}

// classify maps an adapter error onto the endpoint's domain errors. Server
// errors were already logged in full at the adapter boundary; callers only
// see the generic internal error.
func (s *ChallengeService) classify(err error, byStatus map[int]error) error {
	var clientErr *secondary.ClientError
	if errors.As(err, &clientErr) {
		if mapped, ok := byStatus[clientErr.Status]; ok {
			return mapped
		}
		return errs.ErrInternal
	}
	return errs.ErrInternal
}

func stringField(data map[string]interface{}, key string) (string, bool) {
	value, ok := data[key].(string)
	return value, ok && value != ""
}

func boolField(data map[string]interface{}, key string) (bool, bool) {
	value, ok := data[key].(bool)
	return value, ok
}

func intField(data map[string]interface{}, key string) (int, bool) {
	switch value := data[key].(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	default:
		return 0, false
	}
}
