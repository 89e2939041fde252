package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Emit(_ context.Context, event Event) error {
	p.events = append(p.events, event)
	return p.err
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	p := NewChannelPublisher(1, nil)
	ctx := context.Background()

	require.NoError(t, p.Emit(ctx, Event{Action: ActionApplicationCreated}))
	// Buffer full: the second emit drops instead of blocking.
	require.NoError(t, p.Emit(ctx, Event{Action: ActionApplicationSubmitted}))

	select {
	case got := <-p.Inbox():
		assert.Equal(t, ActionApplicationCreated, got.Action)
	default:
		t.Fatal("expected a buffered event")
	}
	select {
	case got := <-p.Inbox():
		t.Fatalf("unexpected second event %q", got.Action)
	default:
	}
}

func TestFanOutReachesAllTargets(t *testing.T) {
	first := &recordingPublisher{}
	second := &recordingPublisher{}

	err := FanOut{first, second}.Emit(context.Background(), Event{Action: ActionReviewStarted})
	require.NoError(t, err)
	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
}

func TestFanOutFailureDoesNotStopOthers(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("broker down")}
	healthy := &recordingPublisher{}

	err := FanOut{failing, healthy}.Emit(context.Background(), Event{Action: ActionApplicationApproved})
	require.EqualError(t, err, "broker down")
	require.Len(t, healthy.events, 1, "remaining targets still receive the event")
}

func TestWorkerDrainsIntoStore(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewChannelPublisher(8, nil)
	worker := NewWorker(store, publisher.Inbox(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionApplicationCreated}))
	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionApplicationSubmitted}))

	require.Eventually(t, func() bool {
		return len(store.Events()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	events := store.Events()
	assert.Equal(t, ActionApplicationCreated, events[0].Action)
	assert.Equal(t, ActionApplicationSubmitted, events[1].Action)
}
