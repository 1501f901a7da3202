package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fynance/ledger/internal/calculator"
	"github.com/fynance/ledger/internal/metrics"
	"github.com/fynance/ledger/internal/models"
	"github.com/fynance/ledger/internal/storage"
)

// TransactionService enforces the admission rules that decide whether a
// deposit or withdrawal may be recorded.
type TransactionService struct {
	store storage.Store
}

// NewTransactionService creates a TransactionService with the given storage backend.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store}
}

// CreateRequest carries a transaction admission request.
type CreateRequest struct {
	OwnerID string
	Amount  decimal.Decimal
	Type    string
	Date    time.Time
}

// CreateResult is the admission outcome: the persisted transaction and the
// owner's balance as computed during the check, i.e. before this transaction.
type CreateResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
}

// Create runs the ordered admission checks and persists the transaction when
// they all pass. Checks short-circuit on the first failure:
//
//  1. all fields present, owner exists
//  2. amount strictly positive
//  3. type is deposit or withdrawal
//  4. no transaction of this type on the same calendar day for this owner
//  5. weekly cap for this type in the Monday-Sunday window containing the date
//  6. withdrawals only: amount does not exceed the balance over the owner's
//     entire history
func (s *TransactionService) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if req.OwnerID == "" || req.Type == "" || req.Date.IsZero() || req.Amount.IsZero() {
		metrics.TransactionsRejected.WithLabelValues(metrics.ReasonInvalidRequest).Inc()
		return nil, validationf("All fields are required")
	}
	if req.Amount.Sign() <= 0 {
		metrics.TransactionsRejected.WithLabelValues(metrics.ReasonInvalidRequest).Inc()
		return nil, validationf("invalid amount")
	}
	if !models.ValidType(req.Type) {
		metrics.TransactionsRejected.WithLabelValues(metrics.ReasonInvalidRequest).Inc()
		return nil, validationf("invalid transaction type")
	}

	customer, err := s.store.GetCustomer(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		metrics.TransactionsRejected.WithLabelValues(metrics.ReasonInvalidRequest).Inc()
		return nil, notFoundf("Customer not found")
	}

	// Duplicate-day guard: one transaction of each type per calendar day.
	dayStart := calculator.StartOfDay(req.Date)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Second)
	existing, err := s.store.FindTransactionInRange(ctx, req.OwnerID, req.Type, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.TransactionsRejected.WithLabelValues(metrics.ReasonDuplicateDay).Inc()
		return nil, validationf("Transaction already exists for this day")
	}

	// Weekly rate limit over the Monday-Sunday window containing the date.
	weekStart, weekEnd := calculator.WeekRange(req.Date)
	count, err := s.store.CountTransactionsInRange(ctx, req.OwnerID, req.Type, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	if count >= calculator.WeeklyLimit(req.Type) {
		metrics.TransactionsRejected.WithLabelValues(metrics.ReasonWeeklyLimit).Inc()
		return nil, validationf("You have reached the weekly limit for %ss.", req.Type)
	}

	// Balance over the owner's entire history, not just up to the date.
	txns, err := s.store.ListTransactionsByOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	balance := calculator.Balance(txns)

	if req.Type == models.TypeWithdrawal && req.Amount.GreaterThan(balance) {
		metrics.TransactionsRejected.WithLabelValues(metrics.ReasonInsufficientBalance).Inc()
		return nil, &InsufficientFundsError{AvailableBalance: balance}
	}

	txn := &models.Transaction{
		OwnerID: req.OwnerID,
		Amount:  req.Amount,
		Type:    req.Type,
		Date:    req.Date,
	}
	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	metrics.TransactionsAdmitted.WithLabelValues(req.Type).Inc()
	slog.Info("Transaction admitted",
		"transaction_id", txn.ID,
		"owner_id", txn.OwnerID,
		"type", txn.Type,
		"amount", txn.Amount,
	)

	// The reported balance is the pre-transaction balance.
	return &CreateResult{Transaction: txn, Balance: balance}, nil
}

// UpdateTxnRequest carries a partial transaction update. Nil fields keep
// their existing values. An amount of exactly zero deletes the transaction.
type UpdateTxnRequest struct {
	Amount *decimal.Decimal
	Date   *time.Time
}

// UpdateResult reports the outcome of an update: either the saved
// transaction, or Deleted when a zero amount removed it.
type UpdateResult struct {
	Transaction *models.Transaction
	Deleted     bool
}

// Update re-validates balance sufficiency for withdrawals (backing the old
// amount out before comparing) and applies the provided fields. Duplicate-day
// and weekly-limit rules are deliberately not re-checked here; only the
// balance invariant is re-verified.
func (s *TransactionService) Update(ctx context.Context, id string, req UpdateTxnRequest) (*UpdateResult, error) {
	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, notFoundf("Transaction not found")
	}

	if req.Amount != nil && req.Amount.Sign() < 0 {
		return nil, validationf("Amount cannot be less than 0")
	}

	if txn.Type == models.TypeWithdrawal && req.Amount != nil {
		txns, err := s.store.ListTransactionsByOwner(ctx, txn.OwnerID)
		if err != nil {
			return nil, err
		}
		// Back the transaction's own amount out before comparing.
		available := calculator.Balance(txns).Add(txn.Amount)
		if req.Amount.GreaterThan(available) {
			return nil, validationf("Amount cannot be greater than available balance")
		}
	}

	// Zero means "remove this transaction".
	if req.Amount != nil && req.Amount.IsZero() {
		if err := s.store.DeleteTransaction(ctx, id); err != nil {
			return nil, err
		}
		slog.Info("Transaction deleted via zero-amount update", "transaction_id", id)
		return &UpdateResult{Deleted: true}, nil
	}

	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.Date != nil {
		txn.Date = *req.Date
	}
	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	slog.Info("Transaction updated", "transaction_id", txn.ID)
	return &UpdateResult{Transaction: txn}, nil
}

// Delete removes a transaction unconditionally. No dependent recomputation.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	slog.Info("Transaction deleted", "transaction_id", id)
	return nil
}

// Dashboard summarizes the whole ledger.
type Dashboard struct {
	CustomerCount int             `json:"no_of_customers"`
	Income        decimal.Decimal `json:"income"`
	Withdrawals   decimal.Decimal `json:"withdrawals"`
	GroupCount    int             `json:"no_of_groups"`
}

// GetDashboard aggregates customer and transaction totals.
func (s *TransactionService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	customerCount, err := s.store.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	deposits, err := s.store.ListTransactionsByType(ctx, models.TypeDeposit)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.store.ListTransactionsByType(ctx, models.TypeWithdrawal)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		CustomerCount: customerCount,
		Income:        calculator.TypeTotal(deposits, models.TypeDeposit),
		Withdrawals:   calculator.TypeTotal(withdrawals, models.TypeWithdrawal),
		GroupCount:    len(groups),
	}, nil
}
