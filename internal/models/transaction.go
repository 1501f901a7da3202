package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
)

// ValidType reports whether t is one of the two accepted transaction types.
func ValidType(t string) bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

// Transaction represents a single deposit or withdrawal against a customer.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// OwnerID references the owning customer. A transaction cannot outlive
	// its owner; the service cascades deletes.
	OwnerID string `json:"owner"`

	// Amount is the transaction amount. Strictly positive at creation; an
	// update to exactly zero means "delete this transaction".
	Amount decimal.Decimal `json:"amount"`

	// Type is either TypeDeposit or TypeWithdrawal.
	Type string `json:"type"`

	// Date is the calendar date the transaction applies to. Used both for
	// the weekly cap and for weekly report placement, truncated to the
	// local calendar day.
	Date time.Time `json:"date"`

	// CreatedAt is the Unix timestamp when the record was persisted.
	CreatedAt int64 `json:"createdAt"`
}
