package query

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgerror"
)

var (
	ErrInvalidAmountRange = errors.New("minimum amount cannot be greater than maximum amount")
	ErrAmountBound        = errors.New("amount bounds must have at most 10 integer digits and 2 decimal places")
	ErrInvalidDateRange   = errors.New("start date cannot be after end date")
)

// SortByDateDesc returns a sorted copy of records.
func SortByDateDesc(records []entity.Transaction) []entity.Transaction {
	out := slices.Clone(records)
	slices.SortFunc(out, func(a, b entity.Transaction) int {
		if c := b.TransactionDate.Compare(a.TransactionDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}

func filter(records []entity.Transaction, keep func(entity.Transaction) bool) []entity.Transaction {
	out := make([]entity.Transaction, 0)
	for _, tx := range records {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return SortByDateDesc(out)
}

func ByAccount(records []entity.Transaction, account string) []entity.Transaction {
	return filter(records, func(tx entity.Transaction) bool {
		return tx.AccountNumber == account
	})
}

func ByType(records []entity.Transaction, typ entity.TxType) []entity.Transaction {
	return filter(records, func(tx entity.Transaction) bool {
		return tx.Type == typ
	})
}

func ByAccountAndType(records []entity.Transaction, account string, typ entity.TxType) []entity.Transaction {
	return filter(records, func(tx entity.Transaction) bool {
		return tx.AccountNumber == account && tx.Type == typ
	})
}

// ByAmountRange keeps records with minAmount <= amount <= maxAmount.
// ValidateAmountRange checks that both bounds fit the amount format and that
// min <= max. The format check runs first so comparisons stay cheap.
func ValidateAmountRange(minAmount, maxAmount decimal.Decimal) error {
	if !entity.AmountFits(minAmount) || !entity.AmountFits(maxAmount) {
		return pkgerror.NewInvalidInput(ErrAmountBound)
	}
	if minAmount.GreaterThan(maxAmount) {
		return pkgerror.NewInvalidInput(ErrInvalidAmountRange)
	}
	return nil
}

func ByAmountRange(records []entity.Transaction, minAmount, maxAmount decimal.Decimal) ([]entity.Transaction, error) {
	if err := ValidateAmountRange(minAmount, maxAmount); err != nil {
		return nil, err
	}

	return filter(records, func(tx entity.Transaction) bool {
		return tx.Amount.GreaterThanOrEqual(minAmount) && tx.Amount.LessThanOrEqual(maxAmount)
	}), nil
}

// ByDateRange keeps records with start < date < end. Both bounds are exclusive.
func ByDateRange(records []entity.Transaction, start, end time.Time) ([]entity.Transaction, error) {
	if start.After(end) {
		return nil, pkgerror.NewInvalidInput(ErrInvalidDateRange)
	}

	return filter(records, func(tx entity.Transaction) bool {
		return tx.TransactionDate.After(start) && tx.TransactionDate.Before(end)
	}), nil
}
