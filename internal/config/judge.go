package config

import (
	"os"
	"strconv"
	"time"
)

// JudgeConfig holds the connection settings for the external execution
// service. The API key is shared between outbound calls and the inbound
// callback endpoint.
type JudgeConfig struct {
	BaseURL  string
	APIKey   string
	ClientID string
	Timeout  time.Duration
}

func NewJudgeConfig() *JudgeConfig {
	baseURL := os.Getenv("JUDGE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:5000"
	}
	clientID := os.Getenv("JUDGE_CLIENT_ID")
	if clientID == "" {
		clientID = "codearena-gateway"
	}
	timeoutSec, err := strconv.Atoi(os.Getenv("JUDGE_TIMEOUT_SEC"))
	if err != nil {
		timeoutSec = 10
	}
	return &JudgeConfig{
		BaseURL:  baseURL,
		APIKey:   os.Getenv("JUDGE_API_KEY"),
		ClientID: clientID,
		Timeout:  time.Duration(timeoutSec) * time.Second,
	}
}
