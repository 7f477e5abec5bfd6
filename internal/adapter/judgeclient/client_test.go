package judgeclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codearena-2025.net/internal/config"
	"gitlab.com/codearena-2025.net/internal/core/ports/secondary"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func newTestClient(baseURL string) *Client {
	return NewClient(&config.JudgeConfig{
		BaseURL:  baseURL,
		APIKey:   "test-key",
		ClientID: "test-gateway",
		Timeout:  2 * time.Second,
	}, nopLogger{})
}

func TestCallSendsAuthHeaders(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"jobId":"abc123"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Call(context.Background(), http.MethodPost, "/job/create", map[string]interface{}{"userId": 7})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "abc123", resp.Data["jobId"])
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "test-key", gotHeaders.Get("X-Api-Key"))
	assert.Equal(t, "test-gateway", gotHeaders.Get("X-Client-Id"))
}

func TestCallClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"job not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Call(context.Background(), http.MethodPost, "/job/execute", nil)

	var clientErr *secondary.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusNotFound, clientErr.Status)
	assert.Equal(t, "/job/execute", clientErr.Path)
	assert.Equal(t, "job not found", clientErr.Data["error"])
}

func TestCallServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Call(context.Background(), http.MethodPost, "/job/create", nil)

	var serverErr *secondary.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.Status)
}

func TestCallTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(server.URL)
	_, err := client.Call(context.Background(), http.MethodPost, "/job/create", nil)

	var serverErr *secondary.ServerError
	require.ErrorAs(t, err, &serverErr)
}

func TestCallToleratesNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Call(context.Background(), http.MethodPost, "/job/create", nil)

	var clientErr *secondary.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusBadRequest, clientErr.Status)
}
