package config

import (
	"os"
	"strconv"
	"time"
)

// StreamConfig bounds every open subscription. TTL is the hard lifetime of
// an event stream; Buffer is the per-connection outbound queue size.
type StreamConfig struct {
	TTL    time.Duration
	Buffer int
}

func NewStreamConfig() *StreamConfig {
	ttlSec, err := strconv.Atoi(os.Getenv("STREAM_TTL_SEC"))
	if err != nil {
		ttlSec = 180
	}
	buffer, err := strconv.Atoi(os.Getenv("STREAM_BUFFER"))
	if err != nil {
		buffer = 16
	}
	return &StreamConfig{
		TTL:    time.Duration(ttlSec) * time.Second,
		Buffer: buffer,
	}
}
