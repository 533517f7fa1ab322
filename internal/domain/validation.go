package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxMemoLength        = 500
	MaxAmount            = "1000000000000" // 1 trillion
)

// ValidateAccountName validates an account name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAmount validates a monetary amount for cash operations.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxAmount)
	}

	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
