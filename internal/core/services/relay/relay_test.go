package relay

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codearena-2025.net/internal/domain"
	"gitlab.com/codearena-2025.net/internal/sse"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type fakeSubscriber struct {
	mu      sync.Mutex
	events  []sse.Event
	sendErr error
	closed  int
}

func (f *fakeSubscriber) Send(ev sse.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeSubscriber) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
}

func (f *fakeSubscriber) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSubscriber) received() []sse.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sse.Event(nil), f.events...)
}

type fakeSink struct {
	mu    sync.Mutex
	saved []*domain.Submission
	err   error
}

func (f *fakeSink) Save(_ context.Context, submission *domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, submission)
	return nil
}

func (f *fakeSink) submissions() []*domain.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Submission(nil), f.saved...)
}

type fakeIndex struct {
	mu     sync.Mutex
	phases map[string]domain.JobPhase
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{phases: make(map[string]domain.JobPhase)}
}

func (f *fakeIndex) Put(_ context.Context, record *domain.JobRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phases[record.JobID] = record.Phase
	return nil
}

func (f *fakeIndex) Get(_ context.Context, _ string) (*domain.JobRecord, error) {
	return nil, nil
}

func (f *fakeIndex) SetPhase(_ context.Context, jobID string, phase domain.JobPhase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phases[jobID] = phase
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.phases, jobID)
	return nil
}

func newTestRelay() (*Relay, *Registry, *fakeSink) {
	registry := NewRegistry()
	sink := &fakeSink{}
	return NewRelay(registry, sink, newFakeIndex(), nopLogger{}), registry, sink
}

func TestDispatchProgressEvent(t *testing.T) {
	relay, registry, _ := newTestRelay()
	sub := &fakeSubscriber{}
	registry.Put("abc123", sub)

	status := relay.Dispatch(context.Background(), &domain.TestcaseResult{
		JobID:         "abc123",
		Success:       true,
		TestcaseIndex: 0,
		RunningTime:   12,
		MemoryUsage:   4.2,
	})

	assert.Equal(t, DispatchSuccess, status)
	assert.Equal(t, 0, sub.closeCount())

	events := sub.received()
	require.Len(t, events, 1)
	assert.Equal(t, "0", events[0].ID)

	progress, ok := events[0].Data.(domain.ProgressEvent)
	require.True(t, ok)
	assert.True(t, progress.Success)
	assert.Equal(t, 12, progress.RunningTime)
	assert.Equal(t, 4.2, progress.MemoryUsage)

	// the subscription survives a progress event
	_, ok = registry.Get("abc123")
	assert.True(t, ok)
}

func TestDispatchRecoverableTestcaseFailure(t *testing.T) {
	relay, registry, _ := newTestRelay()
	sub := &fakeSubscriber{}
	registry.Put("abc123", sub)

	status := relay.Dispatch(context.Background(), &domain.TestcaseResult{
		JobID:         "abc123",
		Success:       false,
		Error:         "runtime error: index out of range",
		TestcaseIndex: 3,
	})

	assert.Equal(t, DispatchSuccess, status)
	assert.Equal(t, 0, sub.closeCount())
	require.Len(t, sub.received(), 1)
	_, ok := registry.Get("abc123")
	assert.True(t, ok)
}

func TestDispatchFatalError(t *testing.T) {
	relay, registry, _ := newTestRelay()
	sub := &fakeSubscriber{}
	registry.Put("abc123", sub)

	status := relay.Dispatch(context.Background(), &domain.TestcaseResult{
		JobID:   "abc123",
		Success: false,
		Error:   "segmentation fault",
	})

	assert.Equal(t, DispatchSuccess, status)
	require.Len(t, sub.received(), 1)
	assert.Equal(t, 1, sub.closeCount())

	// a later callback for the same job finds no subscriber
	status = relay.Dispatch(context.Background(), &domain.TestcaseResult{
		JobID:   "abc123",
		Success: true,
	})
	assert.Equal(t, DispatchClientNotFound, status)
}

func TestDispatchCompletion(t *testing.T) {
	relay, registry, sink := newTestRelay()
	sub := &fakeSubscriber{}
	registry.Put("abc123", sub)

	status := relay.Dispatch(context.Background(), &domain.TestcaseResult{
		JobID:       "abc123",
		Success:     true,
		Detail:      "complete",
		MemoryUsage: 4.2,
		RunningTime: 12,
		CodeSize:    340,
		UserID:      7,
		QuestionID:  42,
		Code:        "print('hi')",
		Language:    "python",
	})

	assert.Equal(t, DispatchSuccess, status)
	assert.Equal(t, 1, sub.closeCount())

	events := sub.received()
	require.Len(t, events, 1)
	assert.Equal(t, "complete", events[0].Data)

	_, ok := registry.Get("abc123")
	assert.False(t, ok)

	saved := sink.submissions()
	require.Len(t, saved, 1)
	assert.Equal(t, int64(7), saved[0].UserID)
	assert.Equal(t, int64(42), saved[0].QuestionID)
	assert.Equal(t, "print('hi')", saved[0].Code)
	assert.Equal(t, "python", saved[0].Language)
	assert.True(t, saved[0].Success)
	assert.Equal(t, 340, saved[0].CodeSize)
	assert.False(t, saved[0].SubmittedAt.IsZero())
}

func TestDispatchCompletionWithoutSubscriber(t *testing.T) {
	relay, _, sink := newTestRelay()

	status := relay.Dispatch(context.Background(), &domain.TestcaseResult{
		JobID:      "abc123",
		Success:    true,
		Detail:     "complete",
		UserID:     7,
		QuestionID: 42,
		Code:       "print('hi')",
		Language:   "python",
	})

	// persistence happens whether or not anyone is watching
	assert.Equal(t, DispatchClientNotFound, status)
	assert.Len(t, sink.submissions(), 1)
}

func TestDispatchCompletionMissingFields(t *testing.T) {
	relay, registry, sink := newTestRelay()
	registry.Put("abc123", &fakeSubscriber{})

	status := relay.Dispatch(context.Background(), &domain.TestcaseResult{
		JobID:   "abc123",
		Success: true,
		Detail:  "complete",
	})

	assert.Equal(t, DispatchSuccess, status)
	assert.Empty(t, sink.submissions())
}

func TestDispatchCancellationAck(t *testing.T) {
	relay, registry, sink := newTestRelay()
	sub := &fakeSubscriber{}
	registry.Put("abc123", sub)

	status := relay.Dispatch(context.Background(), &domain.TestcaseResult{
		JobID:   "abc123",
		Success: true,
		Detail:  "cancelled by user",
	})

	assert.Equal(t, DispatchGone, status)
	assert.Equal(t, 1, sub.closeCount())
	// the client asked for the cancel; it gets no event for it
	assert.Empty(t, sub.received())
	assert.Empty(t, sink.submissions())
}

func TestDispatchDeliveryFailure(t *testing.T) {
	relay, registry, _ := newTestRelay()
	sub := &fakeSubscriber{sendErr: errors.New("client disconnected")}
	registry.Put("abc123", sub)

	status := relay.Dispatch(context.Background(), &domain.TestcaseResult{
		JobID:         "abc123",
		Success:       true,
		TestcaseIndex: 1,
	})

	assert.Equal(t, DispatchError, status)
	assert.Equal(t, 1, sub.closeCount())
	_, ok := registry.Get("abc123")
	assert.False(t, ok)
}

func TestDispatchWithoutSubscriber(t *testing.T) {
	relay, _, _ := newTestRelay()

	status := relay.Dispatch(context.Background(), &domain.TestcaseResult{
		JobID:         "abc123",
		Success:       true,
		TestcaseIndex: 0,
	})

	assert.Equal(t, DispatchClientNotFound, status)
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, isRecoverable("runtime error: nil pointer"))
	assert.True(t, isRecoverable("compile error on line 3"))
	assert.False(t, isRecoverable("segmentation fault"))
	assert.False(t, isRecoverable(""))
}
