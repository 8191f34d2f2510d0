package event

import (
	"context"
	"errors"
	"sync"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
)

var (
	ErrBusClosed = errors.New("event bus is closed")
	ErrBusFull   = errors.New("event bus is full")
)

// Bus is a bounded in-process queue of change events.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.ChangeEvent
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan entity.ChangeEvent, buffer),
	}
}

// Publish enqueues event without blocking. It fails with ErrBusFull when the
// buffer is exhausted so writers are never held up by slow consumers.
func (b *Bus) Publish(ctx context.Context, event entity.ChangeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.ch <- event:
		return nil
	default:
		return ErrBusFull
	}
}

func (b *Bus) Subscribe() <-chan entity.ChangeEvent {
	return b.ch
}

// Len reports how many events are waiting.
func (b *Bus) Len() int {
	return len(b.ch)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
