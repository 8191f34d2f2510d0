package inbound

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
	"github.com/no-memory/hsbc-homework/internal/ledger/query"
)

type TransactionRequest struct {
	AccountNumber   string          `json:"accountNumber"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	TransactionDate *time.Time      `json:"transactionDate,omitempty"`
}

type Transaction struct {
	ID              int64         `json:"id"`
	AccountNumber   string        `json:"accountNumber"`
	Amount          string        `json:"amount"`
	Type            entity.TxType `json:"type"`
	TypeLabel       string        `json:"typeLabel"`
	Description     string        `json:"description"`
	TransactionDate time.Time     `json:"transactionDate"`
	Reference       string        `json:"reference,omitempty"`
}

func toHTTPTransaction(tx entity.Transaction) Transaction {
	return Transaction{
		ID:              tx.ID,
		AccountNumber:   tx.AccountNumber,
		Amount:          tx.Amount.StringFixed(2),
		Type:            tx.Type,
		TypeLabel:       tx.Type.Label(),
		Description:     tx.Description,
		TransactionDate: tx.TransactionDate,
		Reference:       tx.Reference,
	}
}

func toHTTPTransactions(txs []entity.Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toHTTPTransaction(tx))
	}
	return out
}

type CreatedResponse struct {
	Transaction
}

func (CreatedResponse) StatusCode() int {
	return http.StatusCreated
}

func (CreatedResponse) Message() string {
	return "transaction created"
}

type UpdatedResponse struct {
	Transaction
}

func (UpdatedResponse) Message() string {
	return "transaction updated"
}

type PageResponse struct {
	Content []Transaction `json:"content"`
	page    query.Page
}

func newPageResponse(p query.Page) PageResponse {
	return PageResponse{Content: toHTTPTransactions(p.Items), page: p}
}

func (r PageResponse) Meta() map[string]any {
	return map[string]any{
		"page":          r.page.Page,
		"size":          r.page.Size,
		"totalElements": r.page.TotalElements,
		"totalPages":    r.page.TotalPages,
		"first":         r.page.First,
		"last":          r.page.Last,
		"hasNext":       r.page.HasNext,
		"hasPrevious":   r.page.HasPrevious,
	}
}

type ListResponse struct {
	Transactions []Transaction `json:"transactions"`
}

func (r ListResponse) Meta() map[string]any {
	return map[string]any{"total": len(r.Transactions)}
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type CountsResponse struct {
	Counts map[string]int64 `json:"counts"`
}

type AmountResponse struct {
	Total string `json:"total"`
}

func newAmountResponse(d decimal.Decimal) AmountResponse {
	return AmountResponse{Total: d.StringFixed(2)}
}
