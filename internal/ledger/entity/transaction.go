package entity

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MinAccountDigits     = 10
	MaxAccountDigits     = 16
	MaxDescriptionLength = 500
	MaxAmountScale       = 2
	MaxAmountIntDigits   = 10
)

var (
	ErrAccountNumberInvalid = errors.New("account number must be 10-16 digits")
	ErrAmountNotPositive    = errors.New("amount must be greater than 0")
	ErrAmountPrecision      = errors.New("amount must have at most 10 integer digits and 2 decimal places")
	ErrTypeRequired         = errors.New("transaction type is required")
	ErrDescriptionBlank     = errors.New("description cannot be blank")
	ErrDescriptionTooLong   = errors.New("description cannot exceed 500 characters")
)

// Transaction is a single financial record. The store hands out copies only.
type Transaction struct {
	ID              int64
	AccountNumber   string
	Amount          decimal.Decimal
	Type            TxType
	Description     string
	TransactionDate time.Time
	Reference       string
}

// Validate checks the field invariants and reports every violation at once.
// The ID and TransactionDate are not checked since the store assigns them.
func (t Transaction) Validate() error {
	var errs []error

	if !validAccountNumber(t.AccountNumber) {
		errs = append(errs, ErrAccountNumberInvalid)
	}

	if !t.Amount.IsPositive() {
		errs = append(errs, ErrAmountNotPositive)
	} else if !AmountFits(t.Amount) {
		errs = append(errs, ErrAmountPrecision)
	}

	if t.Type == "" {
		errs = append(errs, ErrTypeRequired)
	} else if !t.Type.Valid() {
		errs = append(errs, ErrUnknownTxType)
	}

	if strings.TrimSpace(t.Description) == "" {
		errs = append(errs, ErrDescriptionBlank)
	} else if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		errs = append(errs, ErrDescriptionTooLong)
	}

	return errors.Join(errs...)
}

// Equal compares by value; decimals and times are compared semantically.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.AccountNumber == o.AccountNumber &&
		t.Amount.Equal(o.Amount) &&
		t.Type == o.Type &&
		t.Description == o.Description &&
		t.TransactionDate.Equal(o.TransactionDate) &&
		t.Reference == o.Reference
}

func validAccountNumber(s string) bool {
	if len(s) < MinAccountDigits || len(s) > MaxAccountDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// AmountFits reports whether d has at most MaxAmountIntDigits integer digits
// and MaxAmountScale decimal places. The exponent and coefficient length are
// checked before anything is rescaled, so inputs such as 1e-20000000 are
// rejected without building huge intermediates.
func AmountFits(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if d.IsZero() {
		return exp >= -MaxAmountScale && exp <= MaxAmountIntDigits
	}

	digits := int64(d.NumDigits())
	if exp+digits > MaxAmountIntDigits {
		return false
	}
	// More places than MaxAmountScale are only acceptable as trailing zeros,
	// and the coefficient must be long enough to hold them.
	if exp < -MaxAmountScale && digits <= -exp-MaxAmountScale {
		return false
	}

	if !d.Equal(d.Truncate(MaxAmountScale)) {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, MaxAmountIntDigits))
}
