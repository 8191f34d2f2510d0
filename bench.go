package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/no-memory/hsbc-homework/internal/ledger/aggregate"
	"github.com/no-memory/hsbc-homework/internal/ledger/cache"
	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
	"github.com/no-memory/hsbc-homework/internal/ledger/store"
	"github.com/no-memory/hsbc-homework/internal/ledger/usecase"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkglog"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgroutine"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkguid"
)

type benchCmd struct {
	Workers  int    `help:"Concurrent writers." default:"16"`
	Ops      int    `help:"Creates per writer." default:"1000"`
	Accounts int    `help:"Distinct account numbers to spread writes over." default:"8"`
	LogLevel string `help:"Log level while running." default:"warn"`
}

func (c *benchCmd) Run(*Globals) error {
	pkglog.InitLogging(c.LogLevel)

	if c.Workers < 1 || c.Ops < 1 || c.Accounts < 1 {
		return errors.New("workers, ops and accounts must be positive")
	}

	ctx := context.Background()
	storage := store.NewInMemoryStore(pkguid.NewSequence(), store.DefaultShards)
	uc := usecase.New(usecase.Dependency{
		Store: storage,
		Cache: cache.NewLayer(0, 0),
	})

	types := entity.TxTypes()
	amount := decimal.RequireFromString("1.25")
	goroutine := pkgroutine.NewManager(c.Workers * 2)

	start := time.Now()
	for w := 0; w < c.Workers; w++ {
		goroutine.Go(ctx, func(ctx context.Context) error {
			for i := 0; i < c.Ops; i++ {
				_, err := uc.Create(ctx, usecase.TransactionInput{
					AccountNumber: fmt.Sprintf("%010d", (w*c.Ops+i)%c.Accounts+1000000000),
					Amount:        amount,
					Type:          types[i%len(types)],
					Description:   "bench " + strconv.Itoa(w) + "/" + strconv.Itoa(i),
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
		goroutine.Go(ctx, func(ctx context.Context) error {
			for i := 0; i < c.Ops; i++ {
				if _, err := uc.List(ctx, 0, 10); err != nil {
					return err
				}
				if _, err := uc.CountByType(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := goroutine.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	records, err := storage.FindAll(ctx)
	if err != nil {
		return err
	}

	want := int64(c.Workers * c.Ops)
	ids := make(map[int64]struct{}, len(records))
	for _, tx := range records {
		ids[tx.ID] = struct{}{}
	}
	if int64(len(ids)) != want {
		return fmt.Errorf("expected %d unique ids, got %d", want, len(ids))
	}

	summary := aggregate.Summarize(records)
	if summary.Count != want {
		return fmt.Errorf("expected %d records, got %d", want, summary.Count)
	}
	if wantTotal := amount.Mul(decimal.NewFromInt(want)); !summary.Total.Equal(wantTotal) {
		return fmt.Errorf("expected total %s, got %s", wantTotal.StringFixed(2), summary.Total.StringFixed(2))
	}

	total, err := uc.TotalAmount(ctx)
	if err != nil {
		return err
	}
	if !total.Equal(summary.Total) {
		return fmt.Errorf("cached total %s disagrees with store total %s", total.StringFixed(2), summary.Total.StringFixed(2))
	}

	slog.Warn("bench finished",
		"records", summary.Count,
		"total", summary.Total.StringFixed(2),
		"elapsed", elapsed.String(),
		"ops_per_sec", strconv.FormatFloat(float64(want)/elapsed.Seconds(), 'f', 0, 64),
	)
	return nil
}
