package mail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/infutrix/backoffice-api/internal/observability"
)

var (
	ErrDispatcherClosed = errors.New("mail dispatcher closed")
	ErrQueueFull        = errors.New("mail queue full")
)

// Dispatcher sends mail in the background with bounded concurrency and a
// bounded number of pending messages. Delivery failures are logged and
// counted, never returned to the caller.
type Dispatcher struct {
	sender      Sender
	logger      *slog.Logger
	sem         *semaphore.Weighted
	pending     *semaphore.Weighted
	sendTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// NewDispatcher delivers at most concurrency messages at once and holds at
// most queueSize messages, in flight or waiting. queueSize is raised to
// concurrency when smaller.
func NewDispatcher(sender Sender, logger *slog.Logger, concurrency, queueSize int) *Dispatcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize < concurrency {
		queueSize = concurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sender:      sender,
		logger:      logger,
		sem:         semaphore.NewWeighted(int64(concurrency)),
		pending:     semaphore.NewWeighted(int64(queueSize)),
		sendTimeout: 30 * time.Second,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Enqueue renders the template now and delivers it asynchronously. It
// returns ErrQueueFull without blocking when the backlog is at capacity.
func (d *Dispatcher) Enqueue(name, to string, data any) error {
	msg, err := Render(name, to, data)
	if err != nil {
		return err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	if !d.pending.TryAcquire(1) {
		d.mu.Unlock()
		observability.RecordEmailDelivery(d.ctx, name, "dropped")
		d.logger.Warn("mail dropped, queue full", "template", name)
		return ErrQueueFull
	}
	d.wg.Add(1)
	d.mu.Unlock()
	go func() {
		defer d.wg.Done()
		defer d.pending.Release(1)
		if err := d.sem.Acquire(d.ctx, 1); err != nil {
			observability.RecordEmailDelivery(d.ctx, name, "dropped")
			d.logger.Warn("mail dropped on shutdown", "template", name)
			return
		}
		defer d.sem.Release(1)

		ctx, cancel := context.WithTimeout(d.ctx, d.sendTimeout)
		defer cancel()
		if err := d.sender.Send(ctx, msg); err != nil {
			observability.RecordEmailDelivery(ctx, name, "error")
			d.logger.Error("mail delivery failed", "template", name, "error", err)
			return
		}
		observability.RecordEmailDelivery(ctx, name, "success")
	}()
	return nil
}

// Close stops accepting mail and waits for in-flight deliveries. When ctx
// expires first, pending sends are cancelled.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
