package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
)

// AMQPConfig addresses the topic exchange change events are published to.
type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// amqpChannel is the part of *amqp.Channel the sink uses.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSink publishes change events as JSON to a topic exchange. The routing
// key is the configured prefix followed by the lowercase change kind, for
// example "ledger.transaction.created".
type AMQPSink struct {
	conn       *amqp.Connection
	ch         amqpChannel
	exchange   string
	routingKey string
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(cfg AMQPConfig) (*AMQPSink, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	sink, err := newAMQPSink(ch, cfg.Exchange, cfg.RoutingKey)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	sink.conn = conn

	return sink, nil
}

func newAMQPSink(ch amqpChannel, exchange, routingKey string) (*AMQPSink, error) {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPSink{ch: ch, exchange: exchange, routingKey: routingKey}, nil
}

type changeMessage struct {
	EventID         int64             `json:"eventId"`
	Kind            entity.ChangeKind `json:"kind"`
	TransactionID   int64             `json:"transactionId"`
	AccountNumber   string            `json:"accountNumber,omitempty"`
	Amount          string            `json:"amount,omitempty"`
	Type            entity.TxType     `json:"type,omitempty"`
	Description     string            `json:"description,omitempty"`
	Reference       string            `json:"reference,omitempty"`
	TransactionDate *time.Time        `json:"transactionDate,omitempty"`
	OccurredAt      time.Time         `json:"occurredAt"`
}

func toChangeMessage(event entity.ChangeEvent) changeMessage {
	msg := changeMessage{
		EventID:       event.EventID,
		Kind:          event.Kind,
		TransactionID: event.TransactionID,
		OccurredAt:    event.OccurredAt.UTC(),
	}
	if event.Kind == entity.ChangeCleared {
		return msg
	}

	tx := event.Transaction
	date := tx.TransactionDate.UTC()
	msg.AccountNumber = tx.AccountNumber
	msg.Amount = tx.Amount.StringFixed(2)
	msg.Type = tx.Type
	msg.Description = tx.Description
	msg.Reference = tx.Reference
	msg.TransactionDate = &date

	return msg
}

func (s *AMQPSink) Handle(ctx context.Context, event entity.ChangeEvent) error {
	body, err := json.Marshal(toChangeMessage(event))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to marshal change event: %w", err))
	}

	key := s.routingKey + "." + strings.ToLower(string(event.Kind))
	err = s.ch.PublishWithContext(ctx, s.exchange, key, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     strconv.FormatInt(event.EventID, 10),
		CorrelationId: event.CorrelationID,
		Timestamp:     event.OccurredAt,
		Type:          string(event.Kind),
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	return nil
}

// Close closes the channel and, when dialed, the connection.
func (s *AMQPSink) Close(context.Context) error {
	var errs []error
	if err := s.ch.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
