package domain

import "errors"

var (
	// Posting errors
	ErrEmptyBatch      = errors.New("posting batch has no lines")
	ErrUnbalancedBatch = errors.New("posting batch debits do not equal credits")
	ErrNegativeAmount  = errors.New("debit and credit amounts cannot be negative")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrSameAccount     = errors.New("debit and credit accounts cannot be the same")
	ErrMemoTooLong     = errors.New("memo exceeds maximum length")

	// Account errors
	ErrAccountNotFound         = errors.New("account not found")
	ErrInvalidAccountNumber    = errors.New("account number is required")
	ErrInvalidAccountName      = errors.New("invalid account name")
	ErrInvalidAccountType      = errors.New("invalid account type")
	ErrInvalidBalanceSide      = errors.New("invalid normal balance side")
	ErrDuplicateAccountNumber  = errors.New("account number already exists")
	ErrBankAccountNotFound     = errors.New("bank account not found")
	ErrSameBankAccount         = errors.New("source and target bank accounts cannot be the same")

	// Document errors
	ErrInvalidDocumentKind     = errors.New("invalid document kind")
	ErrDocumentNotFound        = errors.New("document not found")
	ErrDuplicateDocumentNumber = errors.New("document number already exists")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrInvalidUnitPrice        = errors.New("unit price cannot be negative")
	ErrInvalidTaxRate          = errors.New("tax rate cannot be negative")
	ErrAlreadySettled          = errors.New("document is already paid or has no open balance")
	ErrCannotVoidSettled       = errors.New("document with recorded payments cannot be voided")

	// Payment errors
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrInvalidPaymentDirection = errors.New("invalid payment direction")
	ErrInsufficientPayment     = errors.New("payment amount is less than the document balance")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
