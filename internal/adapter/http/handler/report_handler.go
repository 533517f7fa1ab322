package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/finbook/finbook/internal/usecase"
)

var (
	errMissingPeriod  = errors.New("from and to query parameters are required")
	errInvertedPeriod = errors.New("to must not precede from")
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	TrialBalance(ctx context.Context, asOf *time.Time) (*usecase.TrialBalanceReport, error)
	ProfitAndLoss(ctx context.Context, from, to time.Time) (*usecase.ProfitAndLossReport, error)
	NetCashChange(ctx context.Context, from, to time.Time) (*usecase.CashFlowReport, error)
	CheckConsistency(ctx context.Context) (bool, error)
}

// ReportHandler handles reporting HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// TrialBalance returns the trial balance, optionally as of a past date via
// the as_of query parameter (RFC 3339).
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseTimeQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of parameter", err.Error())
		return
	}

	report, err := h.reportUC.TrialBalance(r.Context(), asOf)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to build trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// ProfitAndLoss returns period revenue and expenses. Both the from and to
// query parameters are required.
func (h *ReportHandler) ProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	from, to, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	report, err := h.reportUC.ProfitAndLoss(r.Context(), from, to)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to build profit and loss", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// CashFlow returns period cash movement through bank-linked accounts. Both
// the from and to query parameters are required.
func (h *ReportHandler) CashFlow(w http.ResponseWriter, r *http.Request) {
	from, to, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	report, err := h.reportUC.NetCashChange(r.Context(), from, to)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to build cash flow", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// parsePeriodQuery reads the mandatory from/to window of a period report.
func parsePeriodQuery(r *http.Request) (time.Time, time.Time, error) {
	from, err := parseTimeQuery(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to, err := parseTimeQuery(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if from == nil || to == nil {
		return time.Time{}, time.Time{}, errMissingPeriod
	}

	if to.Before(*from) {
		return time.Time{}, time.Time{}, errInvertedPeriod
	}

	return *from, *to, nil
}

// Consistency reports whether ledger debits equal credits overall.
func (h *ReportHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	ok, err := h.reportUC.CheckConsistency(r.Context())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"consistent": ok})
}
