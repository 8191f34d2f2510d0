package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/no-memory/hsbc-homework/internal/ledger/cache"
	"github.com/no-memory/hsbc-homework/internal/ledger/event"
	"github.com/no-memory/hsbc-homework/internal/ledger/inbound"
	"github.com/no-memory/hsbc-homework/internal/ledger/store"
	"github.com/no-memory/hsbc-homework/internal/ledger/usecase"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgconfig"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgrouter"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgroutine"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	EventID   pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	cfg := dep.Config

	storage := store.NewInMemoryStore(pkguid.NewSequence(), pkgconfig.IntOr(cfg, "ledger.store.shards", store.DefaultShards))
	layer := cache.NewLayer(
		pkgconfig.IntOr(cfg, "ledger.cache.query_size", cache.DefaultRegionSize),
		pkgconfig.IntOr(cfg, "ledger.cache.stats_size", cache.DefaultRegionSize),
	)
	bus := event.NewBus(pkgconfig.IntOr(cfg, "ledger.events.buffer", 512))

	handlers := event.Fanout{event.LogSink{}}
	var sink *event.AMQPSink
	if cfg.GetBool("ledger.events.amqp.enabled") {
		s, err := event.DialAMQP(event.AMQPConfig{
			URL:        cfg.GetString("ledger.events.amqp.url"),
			Exchange:   cfg.GetString("ledger.events.amqp.exchange"),
			RoutingKey: cfg.GetString("ledger.events.amqp.routing_key"),
		})
		if err != nil {
			return nil, err
		}
		sink = s
		handlers = append(handlers, sink)
	}

	var runner event.Runner
	if dep.Goroutine != nil {
		runner = dep.Goroutine
	}
	consumer := event.NewChangeConsumer(bus, handlers, runner, event.ConsumerConfig{
		Workers:     pkgconfig.IntOr(cfg, "ledger.events.workers", 4),
		MaxRetries:  pkgconfig.IntOr(cfg, "ledger.events.max_retries", 3),
		BaseBackoff: pkgconfig.DurationOr(cfg, "ledger.events.base_backoff", 200*time.Millisecond),
	})

	ctx := dep.Context
	if ctx == nil {
		ctx = context.Background()
	}
	consumer.Start(ctx)

	uc := usecase.New(usecase.Dependency{
		Store:   storage,
		Cache:   layer,
		Events:  bus,
		EventID: dep.EventID,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return func(ctx context.Context) error {
		err := consumer.Stop(ctx)
		if sink != nil {
			err = errors.Join(err, sink.Close(ctx))
		}
		return err
	}, nil
}
