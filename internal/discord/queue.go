package discord

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Sender delivers one message. Satisfied by *Client; tests substitute fakes.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Queue is the single-consumer delivery queue in front of the Discord
// webhook. It enforces a minimum spacing between sends, honors 429 backoff
// by retrying the same message after the provider-stated wait, and delivers
// strictly in enqueue order. Messages are never silently discarded: a
// non-retryable transport failure is logged before the queue moves on.
type Queue struct {
	sender  Sender
	logger  *logrus.Logger
	limiter *rate.Limiter
	ch      chan *Message
	once    sync.Once
	wg      sync.WaitGroup
}

func NewQueue(sender Sender, logger *logrus.Logger, spacing time.Duration, depth int) *Queue {
	if logger == nil {
		logger = logrus.New()
	}
	if spacing <= 0 {
		spacing = time.Second
	}
	if depth <= 0 {
		depth = 256
	}
	return &Queue{
		sender:  sender,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(spacing), 1),
		ch:      make(chan *Message, depth),
	}
}

// Start launches the consumer goroutine. Safe to call more than once; only
// the first call has effect. The worker exits when ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	q.once.Do(func() {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			q.run(ctx)
		}()
	})
}

// Wait blocks until the consumer goroutine has exited.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Enqueue adds a message for delivery. Blocks when the queue is full rather
// than dropping, and fails only when ctx ends first.
func (q *Queue) Enqueue(ctx context.Context, msg *Message) error {
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of messages waiting for delivery.
func (q *Queue) Pending() int {
	return len(q.ch)
}

func (q *Queue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-q.ch:
			q.deliver(ctx, msg)
		}
	}
}

func (q *Queue) deliver(ctx context.Context, msg *Message) {
	for {
		if err := q.limiter.Wait(ctx); err != nil {
			return
		}

		err := q.sender.Send(ctx, msg)
		if err == nil {
			return
		}

		var rl *RateLimitError
		if errors.As(err, &rl) {
			q.logger.WithField("retry_after", rl.RetryAfter).Warn("discord rate limited, backing off")
			select {
			case <-ctx.Done():
				return
			case <-time.After(rl.RetryAfter):
			}
			continue // same message, next attempt
		}

		// Anything else is not retried here; rate-limit backoff is the
		// queue's only retry policy.
		q.logger.WithError(err).Error("discord delivery failed")
		return
	}
}
