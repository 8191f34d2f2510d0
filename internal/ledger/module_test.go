package ledger

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/no-memory/hsbc-homework/internal/pkg/pkgconfig"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgrouter"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgroutine"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkguid"
)

func TestNewRegistersRoutesAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := pkgconfig.NewViperFromMap(map[string]any{
		"ledger.store.shards":        8,
		"ledger.events.workers":      2,
		"ledger.events.base_backoff": "10ms",
	})
	router := pkgrouter.NewRouter(pkguid.NewUUID())
	goroutine := pkgroutine.NewManager(10)

	closer, err := New(Dependency{
		Config:    cfg,
		Goroutine: goroutine,
		Router:    router,
		Context:   ctx,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	body := bytes.NewBufferString(`{"accountNumber":"1234567890","amount":"10.00","type":"DEPOSIT","description":"seed"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := closer(stopCtx); err != nil {
		t.Fatalf("closer returned error: %v", err)
	}

	cancel()
	if err := goroutine.Wait(); err != nil {
		t.Fatalf("workers returned error: %v", err)
	}
}

func TestNewWithoutRunner(t *testing.T) {
	closer, err := New(Dependency{
		Config: pkgconfig.NewViperFromMap(map[string]any{}),
		Router: pkgrouter.NewRouter(pkguid.NewUUID()),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := closer(ctx); err != nil {
		t.Fatalf("closer returned error: %v", err)
	}
}
