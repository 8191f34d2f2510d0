package entity

import (
	"errors"
	"strings"
)

// ErrUnknownTxType is returned by ParseTxType for values outside the closed set.
var ErrUnknownTxType = errors.New("unknown transaction type")

// TxType is the closed set of transaction kinds.
type TxType string

const (
	TxTypeCredit     TxType = "CREDIT"
	TxTypeDebit      TxType = "DEBIT"
	TxTypeTransfer   TxType = "TRANSFER"
	TxTypePayment    TxType = "PAYMENT"
	TxTypeDeposit    TxType = "DEPOSIT"
	TxTypeWithdrawal TxType = "WITHDRAWAL"
	TxTypeFee        TxType = "FEE"
	TxTypeInterest   TxType = "INTEREST"
	TxTypeRefund     TxType = "REFUND"
	TxTypeAdjustment TxType = "ADJUSTMENT"
)

//nolint:gochecknoglobals // read-only lookup
var txTypeLabels = map[TxType]string{
	TxTypeCredit:     "Credit",
	TxTypeDebit:      "Debit",
	TxTypeTransfer:   "Transfer",
	TxTypePayment:    "Payment",
	TxTypeDeposit:    "Deposit",
	TxTypeWithdrawal: "Withdrawal",
	TxTypeFee:        "Fee",
	TxTypeInterest:   "Interest",
	TxTypeRefund:     "Refund",
	TxTypeAdjustment: "Adjustment",
}

// TxTypes returns every TxType in declaration order.
func TxTypes() []TxType {
	return []TxType{
		TxTypeCredit,
		TxTypeDebit,
		TxTypeTransfer,
		TxTypePayment,
		TxTypeDeposit,
		TxTypeWithdrawal,
		TxTypeFee,
		TxTypeInterest,
		TxTypeRefund,
		TxTypeAdjustment,
	}
}

// Valid reports whether t is one of the known types.
func (t TxType) Valid() bool {
	_, ok := txTypeLabels[t]
	return ok
}

// Label returns the human readable name, or an empty string for unknown types.
func (t TxType) Label() string {
	return txTypeLabels[t]
}

func (t TxType) String() string {
	return string(t)
}

// ParseTxType accepts any casing and surrounding whitespace.
func ParseTxType(raw string) (TxType, error) {
	t := TxType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", ErrUnknownTxType
	}
	return t, nil
}
