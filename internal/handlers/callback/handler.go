package callback

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/codearena-2025.net/internal/core/ports/primary"
	"gitlab.com/codearena-2025.net/internal/core/services/relay"
	"gitlab.com/codearena-2025.net/internal/domain"
	"gitlab.com/codearena-2025.net/internal/handlers/response"
)

// CallbackHandler receives asynchronous testcase callbacks from the judge
// service and feeds them to the event relay.
type CallbackHandler struct {
	relayService *relay.Relay
	apiKey       string
	logger       primary.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(relayService *relay.Relay, apiKey string, logger primary.Logger) *CallbackHandler {
	return &CallbackHandler{
		relayService: relayService,
		apiKey:       apiKey,
		logger:       logger,
	}
}

// RegisterRoutes registers the API routes for CallbackHandler
func (h *CallbackHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/judge/callback", h.TestcaseResult).Methods("POST")
}

// TestcaseResult handles one progress or terminal callback. The returned
// status tells the judge whether to keep streaming events for the job.
func (h *CallbackHandler) TestcaseResult(w http.ResponseWriter, r *http.Request) {
	if h.apiKey != "" && r.Header.Get("X-Api-Key") != h.apiKey {
		http.Error(w, "Invalid API key", http.StatusUnauthorized)
		return
	}

	var result domain.TestcaseResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		h.logger.Error("Failed to decode testcase callback", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if result.JobID == "" {
		h.logger.Error("Testcase callback missing jobId")
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	status := h.relayService.Dispatch(r.Context(), &result)
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
