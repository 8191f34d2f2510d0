package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkglog"
)

type Handler interface {
	Handle(ctx context.Context, event entity.ChangeEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event entity.ChangeEvent) error

func (f HandlerFunc) Handle(ctx context.Context, event entity.ChangeEvent) error {
	return f(ctx, event)
}

// Runner starts background work. It reports false when f was not started.
type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error) bool
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// ConsumerStats counts events by outcome.
type ConsumerStats struct {
	Delivered  int64
	Failed     int64
	Duplicates int64
}

// ChangeConsumer drains a Bus with a fixed number of workers and hands every
// event to a Handler, retrying failures with exponential backoff.
type ChangeConsumer struct {
	bus         *Bus
	handler     Handler
	runner      Runner
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup

	delivered  atomic.Int64
	failed     atomic.Int64
	duplicates atomic.Int64
}

func NewChangeConsumer(bus *Bus, handler Handler, runner Runner, cfg ConsumerConfig) *ChangeConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	return &ChangeConsumer{
		bus:         bus,
		handler:     handler,
		runner:      runner,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

// Start launches the workers. They exit when ctx is done or the bus is closed.
func (c *ChangeConsumer) Start(ctx context.Context) {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		if c.runner == nil {
			go func() { _ = c.worker(ctx) }()
			continue
		}
		if !c.runner.Go(ctx, c.worker) {
			c.wg.Done()
		}
	}
}

// Stop closes the bus and waits for the workers to drain it.
func (c *ChangeConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *ChangeConsumer) Stats() ConsumerStats {
	return ConsumerStats{
		Delivered:  c.delivered.Load(),
		Failed:     c.failed.Load(),
		Duplicates: c.duplicates.Load(),
	}
}

func (c *ChangeConsumer) worker(ctx context.Context) error {
	defer c.wg.Done()

	events := c.bus.Subscribe()
	for {
		select {
		case <-ctx.Done():
			if n := c.bus.Len(); n > 0 {
				slog.WarnContext(ctx, "change consumer stopped with pending events", "pending", n)
			}
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			c.processEvent(ctx, event)
		}
	}
}

func (c *ChangeConsumer) processEvent(ctx context.Context, event entity.ChangeEvent) {
	if c.handler == nil {
		return
	}
	ctx = pkglog.WithCorrelationID(ctx, event.CorrelationID)

	if event.EventID != 0 {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			c.duplicates.Add(1)
			slog.InfoContext(ctx, "skip duplicate change event", "event_id", event.EventID, "transaction_id", event.TransactionID)
			return
		}
	}

	// Each handler of a Fanout retries on its own, so one failing sink never
	// replays the others.
	handlers := []Handler{c.handler}
	if f, ok := c.handler.(Fanout); ok {
		handlers = f
	}

	var errs []error
	for _, h := range handlers {
		if err := c.deliver(ctx, h, event); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		c.failed.Add(1)
		slog.ErrorContext(ctx, "failed to deliver change event after retries",
			"event_id", event.EventID,
			"kind", event.Kind,
			"transaction_id", event.TransactionID,
			"error", err,
		)
		return
	}

	c.delivered.Add(1)
}

func (c *ChangeConsumer) deliver(ctx context.Context, h Handler, event entity.ChangeEvent) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.baseBackoff
	eb.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.maxRetries)), ctx)

	return backoff.Retry(func() error {
		return h.Handle(ctx, event)
	}, policy)
}
