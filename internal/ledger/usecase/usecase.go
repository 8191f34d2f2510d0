package usecase

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/no-memory/hsbc-homework/internal/ledger/aggregate"
	"github.com/no-memory/hsbc-homework/internal/ledger/cache"
	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
	"github.com/no-memory/hsbc-homework/internal/ledger/query"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgerror"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkglog"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkguid"
)

type Store interface {
	Save(ctx context.Context, tx entity.Transaction) (entity.Transaction, error)
	Update(ctx context.Context, id int64, fn func(tx *entity.Transaction)) (entity.Transaction, error)
	FindByID(ctx context.Context, id int64) (entity.Transaction, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindAll(ctx context.Context) ([]entity.Transaction, error)
	DeleteByID(ctx context.Context, id int64) (entity.Transaction, error)
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.ChangeEvent) error
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store   Store
	Cache   *cache.Layer
	Events  EventPublisher
	Clock   Clock
	EventID pkguid.NumberID
}

type Usecase struct {
	store   Store
	cache   *cache.Layer
	events  EventPublisher
	clock   Clock
	eventID pkguid.NumberID
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	layer := dep.Cache
	if layer == nil {
		layer = cache.NewLayer(0, 0)
	}

	eventID := dep.EventID
	if eventID == nil {
		eventID = pkguid.NewSequence()
	}

	return &Usecase{
		store:   dep.Store,
		cache:   layer,
		events:  dep.Events,
		clock:   clock,
		eventID: eventID,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) Create(ctx context.Context, in TransactionInput) (entity.Transaction, error) {
	tx := entity.Transaction{TransactionDate: in.TransactionDate}
	in.apply(&tx)
	if tx.TransactionDate.IsZero() {
		tx.TransactionDate = u.clock.Now()
	}

	if err := tx.Validate(); err != nil {
		return entity.Transaction{}, pkgerror.NewInvalidInput(err)
	}

	saved, err := u.store.Save(ctx, tx)
	if err != nil {
		return entity.Transaction{}, normalizeErr(err)
	}
	u.cache.InvalidateAll()

	slog.InfoContext(ctx, "transaction created", "id", saved.ID, "type", saved.Type)
	u.publish(ctx, entity.ChangeCreated, saved.ID, saved)

	return saved, nil
}

func (u *Usecase) Get(ctx context.Context, id int64) (entity.Transaction, error) {
	return cache.Remember(ctx, u.cache.Query, cache.KeyID(id), cache.Same[entity.Transaction], func(ctx context.Context) (entity.Transaction, error) {
		tx, err := u.store.FindByID(ctx, id)
		if err != nil {
			return entity.Transaction{}, mapStoreErr(err)
		}
		return tx, nil
	})
}

func (u *Usecase) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := u.store.ExistsByID(ctx, id)
	if err != nil {
		return false, normalizeErr(err)
	}
	return ok, nil
}

func (u *Usecase) List(ctx context.Context, page, size int) (query.Page, error) {
	if err := query.ValidatePagination(page, size); err != nil {
		return query.Page{}, err
	}

	return cache.Remember(ctx, u.cache.Query, cache.KeyPage(page, size), query.Page.Clone, func(ctx context.Context) (query.Page, error) {
		records, err := u.snapshot(ctx)
		if err != nil {
			return query.Page{}, err
		}
		return query.List(records, page, size)
	})
}

func (u *Usecase) ByAccount(ctx context.Context, account string) ([]entity.Transaction, error) {
	return u.filtered(ctx, cache.KeyAccount(account), func(records []entity.Transaction) ([]entity.Transaction, error) {
		return query.ByAccount(records, account), nil
	})
}

func (u *Usecase) ByType(ctx context.Context, typ entity.TxType) ([]entity.Transaction, error) {
	return u.filtered(ctx, cache.KeyType(typ), func(records []entity.Transaction) ([]entity.Transaction, error) {
		return query.ByType(records, typ), nil
	})
}

func (u *Usecase) ByAccountAndType(ctx context.Context, account string, typ entity.TxType) ([]entity.Transaction, error) {
	return u.filtered(ctx, cache.KeyAccountType(account, typ), func(records []entity.Transaction) ([]entity.Transaction, error) {
		return query.ByAccountAndType(records, account, typ), nil
	})
}

func (u *Usecase) ByAmountRange(ctx context.Context, minAmount, maxAmount decimal.Decimal) ([]entity.Transaction, error) {
	if err := query.ValidateAmountRange(minAmount, maxAmount); err != nil {
		return nil, err
	}

	return u.filtered(ctx, cache.KeyAmount(minAmount, maxAmount), func(records []entity.Transaction) ([]entity.Transaction, error) {
		return query.ByAmountRange(records, minAmount, maxAmount)
	})
}

func (u *Usecase) ByDateRange(ctx context.Context, start, end time.Time) ([]entity.Transaction, error) {
	if start.After(end) {
		return nil, pkgerror.NewInvalidInput(query.ErrInvalidDateRange)
	}

	return u.filtered(ctx, cache.KeyDate(start, end), func(records []entity.Transaction) ([]entity.Transaction, error) {
		return query.ByDateRange(records, start, end)
	})
}

// Update replaces the mutable fields of an existing record. The id and the
// transaction date are kept.
func (u *Usecase) Update(ctx context.Context, id int64, in TransactionInput) (entity.Transaction, error) {
	if err := in.validate(); err != nil {
		return entity.Transaction{}, pkgerror.NewInvalidInput(err)
	}

	updated, err := u.store.Update(ctx, id, in.apply)
	if err != nil {
		return entity.Transaction{}, mapStoreErr(err)
	}
	u.cache.InvalidateAll()

	slog.InfoContext(ctx, "transaction updated", "id", updated.ID)
	u.publish(ctx, entity.ChangeUpdated, updated.ID, updated)

	return updated, nil
}

func (u *Usecase) Delete(ctx context.Context, id int64) error {
	removed, err := u.store.DeleteByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	u.cache.InvalidateAll()

	slog.InfoContext(ctx, "transaction deleted", "id", id)
	u.publish(ctx, entity.ChangeDeleted, id, removed)

	return nil
}

// DeleteAll empties the store and restarts id assignment.
func (u *Usecase) DeleteAll(ctx context.Context) error {
	if err := u.store.DeleteAll(ctx); err != nil {
		return normalizeErr(err)
	}
	u.cache.InvalidateAll()

	slog.InfoContext(ctx, "all transactions deleted")
	u.publish(ctx, entity.ChangeCleared, 0, entity.Transaction{})

	return nil
}

func (u *Usecase) Count(ctx context.Context) (int64, error) {
	return cache.Remember(ctx, u.cache.Stats, cache.KeyCount, cache.Same[int64], func(ctx context.Context) (int64, error) {
		n, err := u.store.Count(ctx)
		if err != nil {
			return 0, normalizeErr(err)
		}
		return n, nil
	})
}

func (u *Usecase) CountByType(ctx context.Context) (map[entity.TxType]int64, error) {
	return cache.Remember(ctx, u.cache.Stats, cache.KeyCountByType, maps.Clone[map[entity.TxType]int64], func(ctx context.Context) (map[entity.TxType]int64, error) {
		records, err := u.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return aggregate.CountByType(records), nil
	})
}

func (u *Usecase) CountByAccount(ctx context.Context) (map[string]int64, error) {
	return cache.Remember(ctx, u.cache.Stats, cache.KeyCountByAcct, maps.Clone[map[string]int64], func(ctx context.Context) (map[string]int64, error) {
		records, err := u.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return aggregate.CountByAccount(records), nil
	})
}

func (u *Usecase) TotalAmount(ctx context.Context) (decimal.Decimal, error) {
	return u.total(ctx, cache.KeyTotalAmount, aggregate.TotalAmount)
}

func (u *Usecase) TotalAmountByType(ctx context.Context, typ entity.TxType) (decimal.Decimal, error) {
	return u.total(ctx, cache.KeyTotalAmountByType(typ), func(records []entity.Transaction) decimal.Decimal {
		return aggregate.TotalAmountByType(records, typ)
	})
}

func (u *Usecase) TotalAmountByAccount(ctx context.Context, account string) (decimal.Decimal, error) {
	return u.total(ctx, cache.KeyTotalAmountByAccount(account), func(records []entity.Transaction) decimal.Decimal {
		return aggregate.TotalAmountByAccount(records, account)
	})
}

func (u *Usecase) filtered(ctx context.Context, key string, fn func([]entity.Transaction) ([]entity.Transaction, error)) ([]entity.Transaction, error) {
	return cache.Remember(ctx, u.cache.Query, key, slices.Clone[[]entity.Transaction], func(ctx context.Context) ([]entity.Transaction, error) {
		records, err := u.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return fn(records)
	})
}

func (u *Usecase) total(ctx context.Context, key string, fn func([]entity.Transaction) decimal.Decimal) (decimal.Decimal, error) {
	return cache.Remember(ctx, u.cache.Stats, key, cache.Same[decimal.Decimal], func(ctx context.Context) (decimal.Decimal, error) {
		records, err := u.snapshot(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return fn(records), nil
	})
}

func (u *Usecase) snapshot(ctx context.Context) ([]entity.Transaction, error) {
	records, err := u.store.FindAll(ctx)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return records, nil
}

// publish is best-effort; a failure never undoes the committed write.
func (u *Usecase) publish(ctx context.Context, kind entity.ChangeKind, id int64, tx entity.Transaction) {
	if u.events == nil {
		return
	}

	cid, _ := pkglog.CorrelationID(ctx)
	event := entity.ChangeEvent{
		EventID:       u.eventID.Generate(),
		Kind:          kind,
		TransactionID: id,
		Transaction:   tx,
		OccurredAt:    u.clock.Now(),
		CorrelationID: cid,
	}
	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish change event", "kind", kind, "transaction_id", id, "event_id", event.EventID, "error", err)
	}
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewNotFound("transaction not found")
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
