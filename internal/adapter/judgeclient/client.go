// package judgeclient is the HTTP adapter to the external execution service.
package judgeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"gitlab.com/codearena-2025.net/internal/config"
	"gitlab.com/codearena-2025.net/internal/core/ports/primary"
	"gitlab.com/codearena-2025.net/internal/core/ports/secondary"
)

var _ secondary.JudgeGateway = (*Client)(nil)

// Client calls the judge service with the shared API key and a fixed client
// identifier on every request.
type Client struct {
	httpClient *http.Client
	cfg        *config.JudgeConfig
	logger     primary.Logger
}

// NewClient creates a new judge service client
func NewClient(cfg *config.JudgeConfig, logger primary.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

// Call sends one request to the judge service and classifies the outcome.
// 4xx becomes *secondary.ClientError, 5xx and transport failures become
// *secondary.ServerError.
func (c *Client) Call(ctx context.Context, method, path string, body interface{}) (*secondary.JudgeResponse, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &secondary.ServerError{Message: err.Error()}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, &secondary.ServerError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.cfg.APIKey)
	req.Header.Set("X-Client-Id", c.cfg.ClientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Judge request failed", "path", path, "error", err)
		return nil, &secondary.ServerError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read judge response", "path", path, "error", err)
		return nil, &secondary.ServerError{Status: resp.StatusCode, Message: err.Error()}
	}

	// Error bodies are not always JSON; keep whatever decodes.
	data := map[string]interface{}{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &data)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Error("Judge returned server error",
			"path", path,
			"status", resp.StatusCode,
			"body", string(raw))
		return nil, &secondary.ServerError{Status: resp.StatusCode, Message: string(raw)}
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, &secondary.ClientError{Status: resp.StatusCode, Path: path, Data: data}
	}

	return &secondary.JudgeResponse{Status: resp.StatusCode, Data: data}, nil
}
