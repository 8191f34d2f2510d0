package inbound

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
	"github.com/no-memory/hsbc-homework/internal/ledger/query"
	"github.com/no-memory/hsbc-homework/internal/ledger/usecase"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgrouter"
)

type uc interface {
	Create(ctx context.Context, in usecase.TransactionInput) (entity.Transaction, error)
	Get(ctx context.Context, id int64) (entity.Transaction, error)
	List(ctx context.Context, page, size int) (query.Page, error)
	ByAccount(ctx context.Context, account string) ([]entity.Transaction, error)
	ByType(ctx context.Context, typ entity.TxType) ([]entity.Transaction, error)
	ByAccountAndType(ctx context.Context, account string, typ entity.TxType) ([]entity.Transaction, error)
	ByAmountRange(ctx context.Context, minAmount, maxAmount decimal.Decimal) ([]entity.Transaction, error)
	ByDateRange(ctx context.Context, start, end time.Time) ([]entity.Transaction, error)
	Update(ctx context.Context, id int64, in usecase.TransactionInput) (entity.Transaction, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	CountByType(ctx context.Context) (map[entity.TxType]int64, error)
	CountByAccount(ctx context.Context) (map[string]int64, error)
	TotalAmount(ctx context.Context) (decimal.Decimal, error)
	TotalAmountByType(ctx context.Context, typ entity.TxType) (decimal.Decimal, error)
	TotalAmountByAccount(ctx context.Context, account string) (decimal.Decimal, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/transactions", end.Create)
	r.GET("/api/v1/transactions", end.List) // ?page=&size=
	r.DELETE("/api/v1/transactions", end.DeleteAll)
	r.GET("/api/v1/transactions/:id", end.Get)
	r.PUT("/api/v1/transactions/:id", end.Update)
	r.DELETE("/api/v1/transactions/:id", end.Delete)

	r.GET("/api/v1/accounts/:account/transactions", end.ByAccount) // ?type=
	r.GET("/api/v1/types/:type/transactions", end.ByType)
	r.GET("/api/v1/ranges/amount", end.ByAmountRange) // ?minAmount=&maxAmount=
	r.GET("/api/v1/ranges/date", end.ByDateRange)     // ?startDate=&endDate=

	r.GET("/api/v1/statistics/count", end.Count)
	r.GET("/api/v1/statistics/count-by-type", end.CountByType)
	r.GET("/api/v1/statistics/count-by-account", end.CountByAccount)
	r.GET("/api/v1/statistics/total-amount", end.TotalAmount)
	r.GET("/api/v1/statistics/total-amount-by-type/:type", end.TotalAmountByType)
	r.GET("/api/v1/statistics/total-amount-by-account/:account", end.TotalAmountByAccount)
}
