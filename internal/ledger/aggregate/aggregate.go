// Package aggregate computes statistics over transaction snapshots.
//
// Sums use exact decimal arithmetic; an empty input yields zero.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
)

// Summary is a count and total over the same set of records.
type Summary struct {
	Count int64
	Total decimal.Decimal
}

func TotalCount(records []entity.Transaction) int64 {
	return int64(len(records))
}

func CountByType(records []entity.Transaction) map[entity.TxType]int64 {
	out := make(map[entity.TxType]int64)
	for _, tx := range records {
		out[tx.Type]++
	}
	return out
}

func CountByAccount(records []entity.Transaction) map[string]int64 {
	out := make(map[string]int64)
	for _, tx := range records {
		out[tx.AccountNumber]++
	}
	return out
}

func TotalAmount(records []entity.Transaction) decimal.Decimal {
	return sum(records, func(entity.Transaction) bool { return true })
}

func TotalAmountByType(records []entity.Transaction, typ entity.TxType) decimal.Decimal {
	return sum(records, func(tx entity.Transaction) bool { return tx.Type == typ })
}

func TotalAmountByAccount(records []entity.Transaction, account string) decimal.Decimal {
	return sum(records, func(tx entity.Transaction) bool { return tx.AccountNumber == account })
}

// Summarize returns the count and total of records in one pass.
func Summarize(records []entity.Transaction) Summary {
	total := decimal.Zero
	for _, tx := range records {
		total = total.Add(tx.Amount)
	}
	return Summary{Count: int64(len(records)), Total: total}
}

func sum(records []entity.Transaction, keep func(entity.Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range records {
		if keep(tx) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}
