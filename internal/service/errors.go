// Package service implements the ledger's business rules: customer
// registration, transaction admission, weekly reporting and bulk import.
// Services hold a storage.Store and perform a sequence of request-scoped
// store calls; no locks are held across calls, so concurrent admissions may
// race against stale reads. That is accepted behavior.
package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError marks a client-fault failure: a missing or malformed field,
// a duplicate, an exceeded cap or insufficient balance. The message is safe
// to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// InsufficientFundsError rejects a withdrawal whose amount exceeds the
// available balance. It carries the balance so the response can include it.
type InsufficientFundsError struct {
	AvailableBalance decimal.Decimal
}

func (e *InsufficientFundsError) Error() string { return "Insufficient funds for withdrawal" }

// NotFoundError marks a missing customer, transaction or group.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
