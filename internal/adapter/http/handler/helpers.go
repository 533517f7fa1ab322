package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/finbook/finbook/internal/adapter/http/dto"
	"github.com/finbook/finbook/internal/adapter/http/middleware"
	"github.com/finbook/finbook/internal/domain"
)

// actorID resolves the acting identity for a mutating request. The JWT
// subject wins over whatever the body claims when the request was
// authenticated; otherwise the body value is kept.
func actorID(r *http.Request, fallback string) string {
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok && claims.Subject != "" {
		return claims.Subject
	}
	return fallback
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrBankAccountNotFound),
		errors.Is(err, domain.ErrDocumentNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateAccountNumber),
		errors.Is(err, domain.ErrDuplicateDocumentNumber):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlreadySettled),
		errors.Is(err, domain.ErrCannotVoidSettled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyBatch),
		errors.Is(err, domain.ErrUnbalancedBatch),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrMemoTooLong),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrSameBankAccount),
		errors.Is(err, domain.ErrInvalidAccountNumber),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrInvalidBalanceSide),
		errors.Is(err, domain.ErrInvalidDocumentKind),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidUnitPrice),
		errors.Is(err, domain.ErrInvalidTaxRate),
		errors.Is(err, domain.ErrInvalidPaymentDirection),
		errors.Is(err, domain.ErrInsufficientPayment):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
