// package sse implements the one-way event stream a client holds open for a
// job: a per-connection outbound queue drained by the serving goroutine.
package sse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ErrStreamClosed is returned by Send once the stream has been torn down.
var ErrStreamClosed = errors.New("stream closed")

// Event is one server-sent event. A string Data is written verbatim,
// anything else is JSON-encoded.
type Event struct {
	ID   string
	Data interface{}
}

// Stream is a single-subscriber outbound event queue. Send and Close may be
// called from any goroutine; Close is idempotent.
type Stream struct {
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	createdAt time.Time
}

// NewStream creates a stream with the given queue size.
func NewStream(buffer int) *Stream {
	if buffer <= 0 {
		buffer = 16
	}
	return &Stream{
		events:    make(chan Event, buffer),
		done:      make(chan struct{}),
		createdAt: time.Now(),
	}
}

// Send queues an event for delivery. A closed stream reports ErrStreamClosed
// so the caller can treat the subscriber as gone.
func (s *Stream) Send(ev Event) error {
	select {
	case <-s.done:
		return ErrStreamClosed
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrStreamClosed
	}
}

// Close tears the stream down. Safe to call any number of times from
// competing completion, timeout and error paths.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed once the stream has been torn down.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// CreatedAt reports when the subscription was opened.
func (s *Stream) CreatedAt() time.Time {
	return s.createdAt
}

// Serve writes queued events to w as SSE frames until the stream closes or
// ctx expires. Events already queued when Close fires are still flushed.
func (s *Stream) Serve(ctx context.Context, w http.ResponseWriter) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errors.New("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case ev := <-s.events:
			if err := writeEvent(w, ev); err != nil {
				return err
			}
			flusher.Flush()
		case <-s.done:
			return s.drain(w, flusher)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Stream) drain(w io.Writer, flusher http.Flusher) error {
	for {
		select {
		case ev := <-s.events:
			if err := writeEvent(w, ev); err != nil {
				return err
			}
		default:
			flusher.Flush()
			return nil
		}
	}
}

func writeEvent(w io.Writer, ev Event) error {
	if ev.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", ev.ID); err != nil {
			return err
		}
	}

	var payload string
	switch data := ev.Data.(type) {
	case string:
		payload = data
	default:
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(encoded)
	}

	_, err := fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}
