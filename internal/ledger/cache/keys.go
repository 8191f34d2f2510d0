package cache

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
)

const (
	KeyCount       = "count"
	KeyCountByType = "countByType"
	KeyCountByAcct = "countByAccount"
	KeyTotalAmount = "totalAmount"
)

// Every key starts with its operation name. Free-form arguments are quoted so
// that no argument value can reproduce another operation's key.

func KeyID(id int64) string {
	return "id:" + strconv.FormatInt(id, 10)
}

func KeyPage(page, size int) string {
	return "page:" + strconv.Itoa(page) + ",size:" + strconv.Itoa(size)
}

func KeyAccount(account string) string {
	return "account:" + strconv.Quote(account)
}

func KeyType(typ entity.TxType) string {
	return "type:" + strconv.Quote(string(typ))
}

func KeyAccountType(account string, typ entity.TxType) string {
	return "accountType:" + strconv.Quote(account) + "," + strconv.Quote(string(typ))
}

// KeyAmount uses decimal's canonical form, so 10 and 10.00 share an entry.
func KeyAmount(minAmount, maxAmount decimal.Decimal) string {
	return "amount:" + minAmount.String() + "," + maxAmount.String()
}

func KeyDate(start, end time.Time) string {
	return "date:" + start.UTC().Format(time.RFC3339Nano) + "," + end.UTC().Format(time.RFC3339Nano)
}

func KeyTotalAmountByType(typ entity.TxType) string {
	return "totalAmountByType:" + strconv.Quote(string(typ))
}

func KeyTotalAmountByAccount(account string) string {
	return "totalAmountByAccount:" + strconv.Quote(account)
}
