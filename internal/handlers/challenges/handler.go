package challenges

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/codearena-2025.net/internal/config"
	"gitlab.com/codearena-2025.net/internal/core/ports/primary"
	"gitlab.com/codearena-2025.net/internal/core/services/challenge"
	"gitlab.com/codearena-2025.net/internal/core/services/relay"
	"gitlab.com/codearena-2025.net/internal/handlers"
	"gitlab.com/codearena-2025.net/internal/handlers/response"
	"gitlab.com/codearena-2025.net/internal/sse"
	"gitlab.com/codearena-2025.net/internal/static/errs"
)

// ChallengeHandler handles code-challenge API requests
type ChallengeHandler struct {
	challengeService challenge.IChallengeService
	registry         *relay.Registry
	streamCfg        *config.StreamConfig
	logger           primary.Logger
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(
	challengeService challenge.IChallengeService,
	registry *relay.Registry,
	streamCfg *config.StreamConfig,
	logger primary.Logger,
) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		registry:         registry,
		streamCfg:        streamCfg,
		logger:           logger,
	}
}

// RegisterRoutes registers the API routes for ChallengeHandler
func (h *ChallengeHandler) RegisterRoutes(router *mux.Router, mw *handlers.MiddlewareProvider) {
	// Lets clients refresh auth cookies before opening the event stream.
	router.HandleFunc("/api/code-challenge/before-subscribe", h.BeforeSubscribe).Methods("GET")

	authed := router.PathPrefix("/api/code-challenge").Subrouter()
	authed.Use(mw.JWTMiddleware)
	authed.HandleFunc("/submit", h.Submit).Methods("POST")
	authed.HandleFunc("/execute", h.Execute).Methods("GET")
	authed.HandleFunc("/cancel", h.Cancel).Methods("POST")
	authed.HandleFunc("/job", h.Delete).Methods("DELETE")
	authed.HandleFunc("/subscribe", h.Subscribe).Methods("GET")
}

// Submit handles code submission requests
func (h *ChallengeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.UserID(r.Context())
	if !ok {
		writeSubmitError(w, errs.ErrUnauthorized)
		return
	}

	var req SubmitCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode submit request", "error", err)
		writeSubmitError(w, errs.ErrInvalidPayload)
		return
	}
	if err := req.Validate(); err != nil {
		writeSubmitError(w, err)
		return
	}

	jobID, err := h.challengeService.Submit(r.Context(), userID, req.QuestionID, req.Code, req.Language)
	if err != nil {
		writeSubmitError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, SubmitCodeResponse{JobID: &jobID})
}

// Execute handles job execution requests
func (h *ChallengeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.UserID(r.Context())
	if !ok {
		writeExecuteError(w, errs.ErrUnauthorized)
		return
	}

	jobID := r.URL.Query().Get("jobId")
	if jobID == "" {
		writeExecuteError(w, errs.ErrInvalidPayload)
		return
	}

	count, err := h.challengeService.Execute(r.Context(), jobID, userID)
	if err != nil {
		writeExecuteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, ExecuteCodeResponse{NumOfTestcase: &count})
}

// Cancel handles job cancellation requests. The stream stays open until the
// judge acknowledges through the event path.
func (h *ChallengeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.fireAndForget(w, r, h.challengeService.Cancel)
}

// Delete handles upstream job cleanup requests
func (h *ChallengeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.fireAndForget(w, r, h.challengeService.Delete)
}

func (h *ChallengeHandler) fireAndForget(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, jobID string, ownerID int64) error,
) {
	userID, ok := handlers.UserID(r.Context())
	if !ok {
		response.WriteError(w, response.ErrorMessage{
			Message:    errs.ErrUnauthorized.Error(),
			StatusCode: http.StatusUnauthorized,
		})
		return
	}

	jobID := r.URL.Query().Get("jobId")
	if jobID == "" {
		response.WriteError(w, response.ErrorMessage{
			Message:    errs.ErrInvalidPayload.Error(),
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	if err := op(r.Context(), jobID, userID); err != nil {
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			StatusCode: response.StatusOf(err),
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BeforeSubscribe answers the preflight probe clients issue before opening
// the event stream
func (h *ChallengeHandler) BeforeSubscribe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Subscribe opens the per-job event stream. The connection lives until a
// terminal event, the hard stream TTL, or the client going away; all three
// teardown paths coordinate through the registry's idempotent close.
func (h *ChallengeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.UserID(r.Context())
	if !ok {
		response.WriteError(w, response.ErrorMessage{
			Message:    errs.ErrUnauthorized.Error(),
			StatusCode: http.StatusUnauthorized,
		})
		return
	}

	jobID := r.URL.Query().Get("jobId")
	if jobID == "" {
		response.WriteError(w, response.ErrorMessage{
			Message:    errs.ErrInvalidPayload.Error(),
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	if err := h.challengeService.Authorize(r.Context(), jobID, userID); err != nil {
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			StatusCode: response.StatusOf(err),
		})
		return
	}

	stream := sse.NewStream(h.streamCfg.Buffer)
	h.registry.Put(jobID, stream)
	defer func() {
		// Evict, not RemoveAndClose: a reconnect may have replaced this
		// stream in the registry already.
		stream.Close()
		h.registry.Evict(jobID, stream)
	}()

	ctx, cancel := context.WithTimeout(r.Context(), h.streamCfg.TTL)
	defer cancel()

	if err := stream.Send(sse.Event{Data: "connected"}); err != nil {
		h.logger.Error("Failed to queue init event", "jobId", jobID, "error", err)
	}

	err := stream.Serve(ctx, w)
	switch {
	case err == nil:
		h.logger.Info("Event stream completed", "jobId", jobID)
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("Event stream timed out", "jobId", jobID)
	case errors.Is(err, context.Canceled):
		h.logger.Info("Event stream client disconnected", "jobId", jobID)
	default:
		h.logger.Error("Event stream error", "jobId", jobID, "error", err)
	}
}

func writeSubmitError(w http.ResponseWriter, err error) {
	message := err.Error()
	response.WriteJSON(w, response.StatusOf(err), SubmitCodeResponse{Error: &message})
}

func writeExecuteError(w http.ResponseWriter, err error) {
	message := err.Error()
	response.WriteJSON(w, response.StatusOf(err), ExecuteCodeResponse{Error: &message})
}
