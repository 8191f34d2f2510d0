package inbound

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/no-memory/hsbc-homework/internal/ledger/cache"
	"github.com/no-memory/hsbc-homework/internal/ledger/event"
	"github.com/no-memory/hsbc-homework/internal/ledger/store"
	"github.com/no-memory/hsbc-homework/internal/ledger/usecase"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgrouter"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkguid"
)

type envelope[T any] struct {
	Message string            `json:"message"`
	Data    T                 `json:"data"`
	Meta    map[string]any    `json:"meta,omitempty"`
	Error   map[string]string `json:"error,omitempty"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	uc := usecase.New(usecase.Dependency{
		Store:  store.NewInMemoryStore(pkguid.NewSequence(), 4),
		Cache:  cache.NewLayer(64, 64),
		Events: event.NewBus(64),
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc)
	return router
}

func do[T any](t *testing.T, router http.Handler, method, target string, body any) (int, envelope[T]) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope[T]
	if rec.Body.Len() > 0 {
		if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
			t.Fatalf("decode %s %s: %v", method, target, err)
		}
	}
	return rec.Code, env
}

func create(t *testing.T, router http.Handler, account, amount, typ, desc string) Transaction {
	t.Helper()
	code, env := do[Transaction](t, router, http.MethodPost, "/api/v1/transactions", map[string]any{
		"accountNumber": account,
		"amount":        amount,
		"type":          typ,
		"description":   desc,
	})
	if code != http.StatusCreated {
		t.Fatalf("create status = %d, message = %q", code, env.Message)
	}
	return env.Data
}

func TestTransactionLifecycle(t *testing.T) {
	router := newRouter(t)

	a := create(t, router, "1234567890", "100", "credit", "Test transaction A")
	b := create(t, router, "1234567890", "50.00", "DEBIT", "Test transaction B")
	create(t, router, "0987654321", "200.00", "CREDIT", "Test transaction C")

	if a.ID != 1 || a.Amount != "100.00" || a.Type != "CREDIT" || a.TypeLabel != "Credit" {
		t.Fatalf("unexpected created record: %+v", a)
	}

	code, got := do[Transaction](t, router, http.MethodGet, "/api/v1/transactions/1", nil)
	if code != http.StatusOK || got.Data.Description != "Test transaction A" {
		t.Fatalf("get A = %d %+v", code, got.Data)
	}

	code, page := do[PageResponse](t, router, http.MethodGet, "/api/v1/transactions?page=0&size=2", nil)
	if code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	if len(page.Data.Content) != 2 || page.Data.Content[0].ID != 3 || page.Data.Content[1].ID != 2 {
		t.Fatalf("unexpected page content: %+v", page.Data.Content)
	}
	if page.Meta["totalElements"] != float64(3) || page.Meta["totalPages"] != float64(2) || page.Meta["hasNext"] != true {
		t.Fatalf("unexpected page meta: %v", page.Meta)
	}

	code, byAccount := do[ListResponse](t, router, http.MethodGet, "/api/v1/accounts/1234567890/transactions", nil)
	if code != http.StatusOK || len(byAccount.Data.Transactions) != 2 {
		t.Fatalf("by account = %d %+v", code, byAccount.Data)
	}

	code, byAccountType := do[ListResponse](t, router, http.MethodGet, "/api/v1/accounts/1234567890/transactions?type=debit", nil)
	if code != http.StatusOK || len(byAccountType.Data.Transactions) != 1 || byAccountType.Data.Transactions[0].ID != b.ID {
		t.Fatalf("by account and type = %d %+v", code, byAccountType.Data)
	}

	code, byType := do[ListResponse](t, router, http.MethodGet, "/api/v1/types/CREDIT/transactions", nil)
	if code != http.StatusOK || len(byType.Data.Transactions) != 2 {
		t.Fatalf("by type = %d %+v", code, byType.Data)
	}

	code, byAmount := do[ListResponse](t, router, http.MethodGet, "/api/v1/ranges/amount?minAmount=50&maxAmount=100", nil)
	if code != http.StatusOK || len(byAmount.Data.Transactions) != 2 {
		t.Fatalf("by amount = %d %+v", code, byAmount.Data)
	}

	start := url.QueryEscape(time.Now().Add(-time.Hour).UTC().Format(time.RFC3339))
	end := url.QueryEscape(time.Now().Add(time.Hour).UTC().Format(time.RFC3339))
	code, byDate := do[ListResponse](t, router, http.MethodGet, "/api/v1/ranges/date?startDate="+start+"&endDate="+end, nil)
	if code != http.StatusOK || len(byDate.Data.Transactions) != 3 {
		t.Fatalf("by date = %d %+v", code, byDate.Data)
	}

	code, total := do[AmountResponse](t, router, http.MethodGet, "/api/v1/statistics/total-amount", nil)
	if code != http.StatusOK || total.Data.Total != "350.00" {
		t.Fatalf("total = %d %+v", code, total.Data)
	}
	code, credit := do[AmountResponse](t, router, http.MethodGet, "/api/v1/statistics/total-amount-by-type/credit", nil)
	if code != http.StatusOK || credit.Data.Total != "300.00" {
		t.Fatalf("credit total = %d %+v", code, credit.Data)
	}
	code, acct := do[AmountResponse](t, router, http.MethodGet, "/api/v1/statistics/total-amount-by-account/1234567890", nil)
	if code != http.StatusOK || acct.Data.Total != "150.00" {
		t.Fatalf("account total = %d %+v", code, acct.Data)
	}
	code, byTypeCounts := do[CountsResponse](t, router, http.MethodGet, "/api/v1/statistics/count-by-type", nil)
	if code != http.StatusOK || byTypeCounts.Data.Counts["CREDIT"] != 2 || byTypeCounts.Data.Counts["DEBIT"] != 1 {
		t.Fatalf("count by type = %d %+v", code, byTypeCounts.Data)
	}
	code, byAcctCounts := do[CountsResponse](t, router, http.MethodGet, "/api/v1/statistics/count-by-account", nil)
	if code != http.StatusOK || byAcctCounts.Data.Counts["0987654321"] != 1 {
		t.Fatalf("count by account = %d %+v", code, byAcctCounts.Data)
	}

	code, updated := do[Transaction](t, router, http.MethodPut, "/api/v1/transactions/"+strconv.FormatInt(a.ID, 10), map[string]any{
		"accountNumber": "1234567890",
		"amount":        120.5,
		"type":          "REFUND",
		"description":   "updated",
		"reference":     "REF-9",
	})
	if code != http.StatusOK || updated.Data.Amount != "120.50" || updated.Data.Type != "REFUND" || !updated.Data.TransactionDate.Equal(a.TransactionDate) {
		t.Fatalf("update = %d %+v", code, updated.Data)
	}

	code, _ = do[any](t, router, http.MethodDelete, "/api/v1/transactions/"+strconv.FormatInt(b.ID, 10), nil)
	if code != http.StatusNoContent {
		t.Fatalf("delete status = %d", code)
	}
	code, missing := do[any](t, router, http.MethodGet, "/api/v1/transactions/"+strconv.FormatInt(b.ID, 10), nil)
	if code != http.StatusNotFound || missing.Message != "transaction not found" {
		t.Fatalf("get deleted = %d %+v", code, missing)
	}

	code, count := do[CountResponse](t, router, http.MethodGet, "/api/v1/statistics/count", nil)
	if code != http.StatusOK || count.Data.Count != 2 {
		t.Fatalf("count = %d %+v", code, count.Data)
	}

	code, _ = do[any](t, router, http.MethodDelete, "/api/v1/transactions", nil)
	if code != http.StatusNoContent {
		t.Fatalf("delete all status = %d", code)
	}
	fresh := create(t, router, "1234567890", "1.00", "FEE", "after clear")
	if fresh.ID != 1 {
		t.Fatalf("id after delete all = %d, want 1", fresh.ID)
	}
}

func TestErrorResponses(t *testing.T) {
	router := newRouter(t)

	cases := []struct {
		name   string
		method string
		target string
		body   any
		status int
	}{
		{"negative page", http.MethodGet, "/api/v1/transactions?page=-1&size=10", nil, http.StatusUnprocessableEntity},
		{"zero size", http.MethodGet, "/api/v1/transactions?page=0&size=0", nil, http.StatusUnprocessableEntity},
		{"size too large", http.MethodGet, "/api/v1/transactions?page=0&size=101", nil, http.StatusUnprocessableEntity},
		{"non numeric page", http.MethodGet, "/api/v1/transactions?page=abc", nil, http.StatusBadRequest},
		{"bad id", http.MethodGet, "/api/v1/transactions/abc", nil, http.StatusBadRequest},
		{"missing id", http.MethodGet, "/api/v1/transactions/999", nil, http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/api/v1/transactions/999", nil, http.StatusNotFound},
		{"update missing", http.MethodPut, "/api/v1/transactions/999", map[string]any{
			"accountNumber": "1234567890", "amount": "1.00", "type": "FEE", "description": "x",
		}, http.StatusNotFound},
		{"invalid fields", http.MethodPost, "/api/v1/transactions", map[string]any{
			"accountNumber": "12", "amount": "0", "type": "CREDIT", "description": " ",
		}, http.StatusUnprocessableEntity},
		{"unknown type in body", http.MethodPost, "/api/v1/transactions", map[string]any{
			"accountNumber": "1234567890", "amount": "1.00", "type": "BONUS", "description": "x",
		}, http.StatusUnprocessableEntity},
		{"unknown field", http.MethodPost, "/api/v1/transactions", map[string]any{
			"accountNumber": "1234567890", "amount": "1.00", "type": "FEE", "description": "x", "bogus": true,
		}, http.StatusBadRequest},
		{"unknown type in path", http.MethodGet, "/api/v1/types/BONUS/transactions", nil, http.StatusBadRequest},
		{"amount range inverted", http.MethodGet, "/api/v1/ranges/amount?minAmount=10&maxAmount=5", nil, http.StatusUnprocessableEntity},
		{"amount range missing", http.MethodGet, "/api/v1/ranges/amount?minAmount=10", nil, http.StatusBadRequest},
		{"amount range extreme exponent", http.MethodGet, "/api/v1/ranges/amount?minAmount=1e-20000000&maxAmount=5", nil, http.StatusBadRequest},
		{"amount range too many digits", http.MethodGet, "/api/v1/ranges/amount?minAmount=1&maxAmount=10000000000", nil, http.StatusBadRequest},
		{"date range inverted", http.MethodGet, "/api/v1/ranges/date?startDate=2025-02-01T00:00:00&endDate=2025-01-01T00:00:00", nil, http.StatusUnprocessableEntity},
		{"date range malformed", http.MethodGet, "/api/v1/ranges/date?startDate=yesterday&endDate=today", nil, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := do[any](t, router, tc.method, tc.target, tc.body)
			if code != tc.status {
				t.Fatalf("status = %d, want %d (message %q)", code, tc.status, env.Message)
			}
			if env.Message == "" {
				t.Fatalf("expected an error message")
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
