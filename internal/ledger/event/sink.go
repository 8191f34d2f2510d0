package event

import (
	"context"
	"errors"
	"log/slog"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
)

// LogSink writes every change event to the structured log.
type LogSink struct{}

func (LogSink) Handle(ctx context.Context, event entity.ChangeEvent) error {
	slog.InfoContext(ctx, "transaction change",
		"event_id", event.EventID,
		"kind", event.Kind,
		"transaction_id", event.TransactionID,
		"type", event.Transaction.Type,
		"amount", event.Transaction.Amount.StringFixed(2),
		"occurred_at", event.OccurredAt,
	)
	return nil
}

// Fanout delivers an event to every handler and joins their errors.
// ChangeConsumer retries each element separately.
type Fanout []Handler

func (f Fanout) Handle(ctx context.Context, event entity.ChangeEvent) error {
	var errs []error
	for _, h := range f {
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
