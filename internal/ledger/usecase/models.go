package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
)

// TransactionInput carries the caller-controlled fields of a transaction.
type TransactionInput struct {
	AccountNumber string
	Amount        decimal.Decimal
	Type          entity.TxType
	Description   string
	Reference     string
	// TransactionDate is honored on Create only; zero means now.
	TransactionDate time.Time
}

func (in TransactionInput) apply(tx *entity.Transaction) {
	tx.AccountNumber = in.AccountNumber
	tx.Amount = in.Amount
	tx.Type = in.Type
	tx.Description = in.Description
	tx.Reference = in.Reference
}

func (in TransactionInput) validate() error {
	var tx entity.Transaction
	in.apply(&tx)
	return tx.Validate()
}
