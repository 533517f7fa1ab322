package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

type postingServiceStub struct {
	postBatchFn func(ctx context.Context, input usecase.PostBatchInput) (*domain.PostingBatch, error)
	journalFn   func(ctx context.Context, input usecase.JournalEntryInput) (*domain.PostingBatch, error)
	getBatchFn  func(ctx context.Context, batchRef string) ([]*domain.LedgerLine, error)
}

func (s *postingServiceStub) PostBatch(ctx context.Context, input usecase.PostBatchInput) (*domain.PostingBatch, error) {
	return s.postBatchFn(ctx, input)
}

func (s *postingServiceStub) PostJournalEntry(ctx context.Context, input usecase.JournalEntryInput) (*domain.PostingBatch, error) {
	return s.journalFn(ctx, input)
}

func (s *postingServiceStub) GetBatch(ctx context.Context, batchRef string) ([]*domain.LedgerLine, error) {
	return s.getBatchFn(ctx, batchRef)
}

type balanceServiceStub struct {
	accountBalanceFn func(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)
	bankBalanceFn    func(ctx context.Context, bankAccountID string) (decimal.Decimal, error)
	recentLinesFn    func(ctx context.Context, accountID string, limit int) ([]*domain.LedgerLine, error)
}

func (s *balanceServiceStub) AccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	return s.accountBalanceFn(ctx, accountID, asOf)
}

func (s *balanceServiceStub) BankBalance(ctx context.Context, bankAccountID string) (decimal.Decimal, error) {
	return s.bankBalanceFn(ctx, bankAccountID)
}

func (s *balanceServiceStub) RecentLines(ctx context.Context, accountID string, limit int) ([]*domain.LedgerLine, error) {
	return s.recentLinesFn(ctx, accountID, limit)
}

func balanceRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "acc-1")
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPostingHandler_GetBalance_CalendarDateAsOf(t *testing.T) {
	var gotAsOf *time.Time
	handler := NewPostingHandler(&postingServiceStub{}, &balanceServiceStub{
		accountBalanceFn: func(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
			gotAsOf = asOf
			return decimal.RequireFromString("100.00"), nil
		},
	})

	rec := httptest.NewRecorder()
	handler.GetBalance(rec, balanceRequest("/accounts/acc-1/balance?as_of=2026-08-30"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for calendar-date as_of, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotAsOf == nil {
		t.Fatal("expected as_of to be passed through")
	}
	want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if !gotAsOf.Equal(want) {
		t.Fatalf("expected as_of %v, got %v", want, *gotAsOf)
	}
}

func TestPostingHandler_GetBalance_RFC3339AsOf(t *testing.T) {
	var gotAsOf *time.Time
	handler := NewPostingHandler(&postingServiceStub{}, &balanceServiceStub{
		accountBalanceFn: func(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
			gotAsOf = asOf
			return decimal.Zero, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.GetBalance(rec, balanceRequest("/accounts/acc-1/balance?as_of=2026-08-30T12:30:00Z"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotAsOf == nil || gotAsOf.Hour() != 12 {
		t.Fatalf("expected timestamp as_of to keep its time of day, got %v", gotAsOf)
	}
}

func TestPostingHandler_GetBalance_InvalidAsOf(t *testing.T) {
	handler := NewPostingHandler(&postingServiceStub{}, &balanceServiceStub{
		accountBalanceFn: func(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
			t.Fatal("AccountBalance should not be called for an unparsable as_of")
			return decimal.Zero, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.GetBalance(rec, balanceRequest("/accounts/acc-1/balance?as_of=30-08-2026"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
