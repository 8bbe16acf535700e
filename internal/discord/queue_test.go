package discord

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSender captures delivered messages and can fail the first N
// attempts per message with a scripted error.
type recordingSender struct {
	mu       sync.Mutex
	sent     []*Message
	attempts int
	failures []error // consumed one per attempt before succeeding
}

func (s *recordingSender) Send(_ context.Context, msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if len(s.failures) > 0 {
		err := s.failures[0]
		s.failures = s.failures[1:]
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) delivered() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Message, len(s.sent))
	copy(out, s.sent)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestQueue_DeliversInOrder(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, nil, time.Millisecond, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	msgs := []*Message{
		{Content: "first"},
		{Content: "second"},
		{Content: "third"},
	}
	for _, m := range msgs {
		require.NoError(t, q.Enqueue(ctx, m))
	}

	waitFor(t, func() bool { return len(sender.delivered()) == 3 })

	got := sender.delivered()
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
	assert.Equal(t, "third", got[2].Content)
}

func TestQueue_RetriesSameMessageAfterRateLimit(t *testing.T) {
	sender := &recordingSender{
		failures: []error{&RateLimitError{RetryAfter: 10 * time.Millisecond}},
	}
	q := NewQueue(sender, nil, time.Millisecond, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	require.NoError(t, q.Enqueue(ctx, &Message{Content: "limited"}))
	require.NoError(t, q.Enqueue(ctx, &Message{Content: "next"}))

	waitFor(t, func() bool { return len(sender.delivered()) == 2 })

	got := sender.delivered()
	// The rate-limited message is retried before anything behind it.
	assert.Equal(t, "limited", got[0].Content)
	assert.Equal(t, "next", got[1].Content)
}

func TestQueue_NonRateLimitErrorNotRetried(t *testing.T) {
	sender := &recordingSender{
		failures: []error{errors.New("webhook deleted")},
	}
	q := NewQueue(sender, nil, time.Millisecond, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	require.NoError(t, q.Enqueue(ctx, &Message{Content: "doomed"}))
	require.NoError(t, q.Enqueue(ctx, &Message{Content: "survivor"}))

	waitFor(t, func() bool { return len(sender.delivered()) == 1 })

	got := sender.delivered()
	assert.Equal(t, "survivor", got[0].Content)

	sender.mu.Lock()
	attempts := sender.attempts
	sender.mu.Unlock()
	assert.Equal(t, 2, attempts, "the failed message gets exactly one attempt")
}

func TestQueue_EnqueueFailsOnCancelledContext(t *testing.T) {
	// Fill the channel so Enqueue has to block, then cancel.
	q := NewQueue(&recordingSender{}, nil, time.Millisecond, 1)
	// Not started: nothing drains the channel.

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, &Message{Content: "fills the buffer"}))

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := q.Enqueue(cctx, &Message{Content: "blocked"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, q.Pending())
}

func TestQueue_StartIdempotent(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, nil, time.Millisecond, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	q.Start(ctx) // second call is a no-op, not a second consumer

	require.NoError(t, q.Enqueue(ctx, &Message{Content: "once"}))
	waitFor(t, func() bool { return len(sender.delivered()) == 1 })

	cancel()
	q.Wait()
}

func TestQueue_StopsOnContextCancel(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, nil, time.Millisecond, 16)

	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		q.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queue worker did not stop")
	}
}
