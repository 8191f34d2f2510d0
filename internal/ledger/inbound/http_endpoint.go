package inbound

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
	"github.com/no-memory/hsbc-homework/internal/ledger/usecase"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgerror"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgrouter"
)

const (
	defaultPage = 0
	defaultSize = 10

	maxBodyBytes = 1 << 20
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Create(ctx context.Context, r *http.Request) (any, error) {
	in, err := decodeTransaction(r)
	if err != nil {
		return nil, err
	}

	tx, err := h.uc.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	return CreatedResponse{Transaction: toHTTPTransaction(tx)}, nil
}

func (h *HTTPEndpoint) Get(ctx context.Context, r *http.Request) (any, error) {
	id, err := parseID(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := h.uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return toHTTPTransaction(tx), nil
}

func (h *HTTPEndpoint) List(ctx context.Context, r *http.Request) (any, error) {
	page, err := parseIntParam(pkgrouter.GetQuery(r, "page"), defaultPage, "page")
	if err != nil {
		return nil, err
	}
	size, err := parseIntParam(pkgrouter.GetQuery(r, "size"), defaultSize, "size")
	if err != nil {
		return nil, err
	}

	p, err := h.uc.List(ctx, page, size)
	if err != nil {
		return nil, err
	}

	return newPageResponse(p), nil
}

func (h *HTTPEndpoint) Update(ctx context.Context, r *http.Request) (any, error) {
	id, err := parseID(ctx)
	if err != nil {
		return nil, err
	}

	in, err := decodeTransaction(r)
	if err != nil {
		return nil, err
	}

	tx, err := h.uc.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}

	return UpdatedResponse{Transaction: toHTTPTransaction(tx)}, nil
}

func (h *HTTPEndpoint) Delete(ctx context.Context, r *http.Request) (any, error) {
	id, err := parseID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.uc.Delete(ctx, id); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) DeleteAll(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.DeleteAll(ctx); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) ByAccount(ctx context.Context, r *http.Request) (any, error) {
	account := pkgrouter.GetParam(ctx, "account")

	var (
		txs []entity.Transaction
		err error
	)
	if raw := pkgrouter.GetQuery(r, "type"); raw != "" {
		typ, perr := parseTypeParam(raw)
		if perr != nil {
			return nil, perr
		}
		txs, err = h.uc.ByAccountAndType(ctx, account, typ)
	} else {
		txs, err = h.uc.ByAccount(ctx, account)
	}
	if err != nil {
		return nil, err
	}

	return ListResponse{Transactions: toHTTPTransactions(txs)}, nil
}

func (h *HTTPEndpoint) ByType(ctx context.Context, r *http.Request) (any, error) {
	typ, err := parseTypeParam(pkgrouter.GetParam(ctx, "type"))
	if err != nil {
		return nil, err
	}

	txs, err := h.uc.ByType(ctx, typ)
	if err != nil {
		return nil, err
	}

	return ListResponse{Transactions: toHTTPTransactions(txs)}, nil
}

func (h *HTTPEndpoint) ByAmountRange(ctx context.Context, r *http.Request) (any, error) {
	minAmount, err := parseAmountParam(pkgrouter.GetQuery(r, "minAmount"), "minAmount")
	if err != nil {
		return nil, err
	}
	maxAmount, err := parseAmountParam(pkgrouter.GetQuery(r, "maxAmount"), "maxAmount")
	if err != nil {
		return nil, err
	}

	txs, err := h.uc.ByAmountRange(ctx, minAmount, maxAmount)
	if err != nil {
		return nil, err
	}

	return ListResponse{Transactions: toHTTPTransactions(txs)}, nil
}

func (h *HTTPEndpoint) ByDateRange(ctx context.Context, r *http.Request) (any, error) {
	start, err := parseTimeParam(pkgrouter.GetQuery(r, "startDate"), "startDate")
	if err != nil {
		return nil, err
	}
	end, err := parseTimeParam(pkgrouter.GetQuery(r, "endDate"), "endDate")
	if err != nil {
		return nil, err
	}

	txs, err := h.uc.ByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return ListResponse{Transactions: toHTTPTransactions(txs)}, nil
}

func (h *HTTPEndpoint) Count(ctx context.Context, r *http.Request) (any, error) {
	n, err := h.uc.Count(ctx)
	if err != nil {
		return nil, err
	}

	return CountResponse{Count: n}, nil
}

func (h *HTTPEndpoint) CountByType(ctx context.Context, r *http.Request) (any, error) {
	counts, err := h.uc.CountByType(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(counts))
	for typ, n := range counts {
		out[string(typ)] = n
	}

	return CountsResponse{Counts: out}, nil
}

func (h *HTTPEndpoint) CountByAccount(ctx context.Context, r *http.Request) (any, error) {
	counts, err := h.uc.CountByAccount(ctx)
	if err != nil {
		return nil, err
	}

	return CountsResponse{Counts: counts}, nil
}

func (h *HTTPEndpoint) TotalAmount(ctx context.Context, r *http.Request) (any, error) {
	total, err := h.uc.TotalAmount(ctx)
	if err != nil {
		return nil, err
	}

	return newAmountResponse(total), nil
}

func (h *HTTPEndpoint) TotalAmountByType(ctx context.Context, r *http.Request) (any, error) {
	typ, err := parseTypeParam(pkgrouter.GetParam(ctx, "type"))
	if err != nil {
		return nil, err
	}

	total, err := h.uc.TotalAmountByType(ctx, typ)
	if err != nil {
		return nil, err
	}

	return newAmountResponse(total), nil
}

func (h *HTTPEndpoint) TotalAmountByAccount(ctx context.Context, r *http.Request) (any, error) {
	total, err := h.uc.TotalAmountByAccount(ctx, pkgrouter.GetParam(ctx, "account"))
	if err != nil {
		return nil, err
	}

	return newAmountResponse(total), nil
}

func decodeTransaction(r *http.Request) (usecase.TransactionInput, error) {
	if r.Body == nil {
		return usecase.TransactionInput{}, pkgerror.NewInvalidFormat()
	}

	var req TransactionRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return usecase.TransactionInput{}, pkgerror.NewInvalidFormat()
	}

	in := usecase.TransactionInput{
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		Amount:        req.Amount,
		Description:   req.Description,
		Reference:     req.Reference,
	}
	if req.TransactionDate != nil {
		in.TransactionDate = *req.TransactionDate
	}

	if raw := strings.TrimSpace(req.Type); raw != "" {
		typ, err := entity.ParseTxType(raw)
		if err != nil {
			return usecase.TransactionInput{}, pkgerror.NewInvalidInput(err)
		}
		in.Type = typ
	}

	return in, nil
}

func parseID(ctx context.Context) (int64, error) {
	id, err := strconv.ParseInt(pkgrouter.GetParam(ctx, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, pkgerror.NewMalformed("invalid transaction id")
	}
	return id, nil
}

func parseIntParam(raw string, def int, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerror.NewMalformed("invalid " + name)
	}
	return v, nil
}

func parseTypeParam(raw string) (entity.TxType, error) {
	typ, err := entity.ParseTxType(raw)
	if err != nil {
		return "", pkgerror.NewMalformed("invalid transaction type")
	}
	return typ, nil
}

func parseAmountParam(raw, name string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, pkgerror.NewMalformed(name + " is required")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || !entity.AmountFits(d) {
		return decimal.Zero, pkgerror.NewMalformed("invalid " + name)
	}
	return d, nil
}

// localDateTime is accepted for callers that send dates without a zone; they
// are read as UTC.
const localDateTime = "2006-01-02T15:04:05"

func parseTimeParam(raw, name string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, pkgerror.NewMalformed(name + " is required")
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(localDateTime, raw, time.UTC); err == nil {
		return t, nil
	}

	return time.Time{}, pkgerror.NewMalformed("invalid " + name)
}
