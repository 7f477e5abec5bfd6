package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codearena-2025.net/internal/core/services/relay"
	"gitlab.com/codearena-2025.net/internal/domain"
	"gitlab.com/codearena-2025.net/internal/sse"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type nopSink struct {
	mu    sync.Mutex
	saved int
}

func (s *nopSink) Save(context.Context, *domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved++
	return nil
}

func newTestHandler(apiKey string) (*CallbackHandler, *relay.Registry, *nopSink) {
	registry := relay.NewRegistry()
	sink := &nopSink{}
	relaySvc := relay.NewRelay(registry, sink, nil, nopLogger{})
	return NewCallbackHandler(relaySvc, apiKey, nopLogger{}), registry, sink
}

func postCallback(handler *CallbackHandler, apiKey, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/judge/callback", strings.NewReader(body))
	if apiKey != "" {
		req.Header.Set("X-Api-Key", apiKey)
	}
	recorder := httptest.NewRecorder()
	handler.TestcaseResult(recorder, req)
	return recorder
}

func TestCallbackDispatchesProgress(t *testing.T) {
	handler, registry, _ := newTestHandler("secret")
	stream := sse.NewStream(4)
	registry.Put("abc123", stream)

	recorder := postCallback(handler, "secret",
		`{"jobId":"abc123","success":true,"testcaseIndex":0,"runningTime":12,"memoryUsage":4.2}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, string(relay.DispatchSuccess), resp["status"])
}

func TestCallbackReportsMissingClient(t *testing.T) {
	handler, _, _ := newTestHandler("secret")

	recorder := postCallback(handler, "secret",
		`{"jobId":"ghost","success":true,"testcaseIndex":0}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, string(relay.DispatchClientNotFound), resp["status"])
}

func TestCallbackPersistsCompletion(t *testing.T) {
	handler, _, sink := newTestHandler("secret")

	recorder := postCallback(handler, "secret",
		`{"jobId":"abc123","success":true,"detail":"complete","userId":7,"questionId":42,"code":"x","language":"go"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, sink.saved)
}

func TestCallbackRejectsBadAPIKey(t *testing.T) {
	handler, _, _ := newTestHandler("secret")

	recorder := postCallback(handler, "wrong", `{"jobId":"abc123"}`)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCallbackRejectsMissingJobID(t *testing.T) {
	handler, _, _ := newTestHandler("secret")

	recorder := postCallback(handler, "secret", `{"success":true}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCallbackRejectsMalformedBody(t *testing.T) {
	handler, _, _ := newTestHandler("secret")

	recorder := postCallback(handler, "secret", `{not json`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
