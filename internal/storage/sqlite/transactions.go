package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fynance/ledger/internal/models"
	"github.com/fynance/ledger/internal/storage"
)

const transactionColumns = "id, owner_id, amount, type, date, created_at"

// CreateTransaction inserts a single transaction.
// Missing ID and CreatedAt are populated here.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	prepareTransaction(txn)

	query := `
		INSERT INTO transactions (id, owner_id, amount, type, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		txn.ID,
		txn.OwnerID,
		txn.Amount.String(),
		txn.Type,
		txn.Date.Unix(),
		txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateTransactions bulk-inserts a batch of transactions in one store
// transaction, so an import batch lands all at once.
func (s *SQLiteStore) CreateTransactions(ctx context.Context, txns []*models.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO transactions (id, owner_id, amount, type, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, txn := range txns {
		prepareTransaction(txn)
		_, err = tx.ExecContext(ctx, query,
			txn.ID,
			txn.OwnerID,
			txn.Amount.String(),
			txn.Type,
			txn.Date.Unix(),
			txn.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID. Returns (nil, nil) when absent.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	txn, err := scanTransactionFields(row)
	if err == sql.ErrNoRows {
		return nil, nil // Transaction not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns every transaction ordered by date ascending.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date")
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListTransactionsByOwner returns one customer's transactions by date ascending.
func (s *SQLiteStore) ListTransactionsByOwner(ctx context.Context, ownerID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE owner_id = ? ORDER BY date", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by owner: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListTransactionsByOwners returns all transactions owned by any of the given customers.
func (s *SQLiteStore) ListTransactionsByOwners(ctx context.Context, ownerIDs []string) ([]*models.Transaction, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}

	query := "SELECT " + transactionColumns + " FROM transactions WHERE owner_id IN (?" +
		repeatPlaceholder(len(ownerIDs)-1) + ") ORDER BY date"
	rows, err := s.db.QueryContext(ctx, query, ownerArgs(ownerIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by owners: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListTransactionsByOwnersInRange restricts ListTransactionsByOwners to a date window.
func (s *SQLiteStore) ListTransactionsByOwnersInRange(ctx context.Context, ownerIDs []string, from, to time.Time) ([]*models.Transaction, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}

	query := "SELECT " + transactionColumns + " FROM transactions WHERE owner_id IN (?" +
		repeatPlaceholder(len(ownerIDs)-1) + ") AND date >= ? AND date <= ? ORDER BY date"
	args := append(ownerArgs(ownerIDs), from.Unix(), to.Unix())
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions in range: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListTransactionsByType returns all transactions of one type.
func (s *SQLiteStore) ListTransactionsByType(ctx context.Context, txnType string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE type = ? ORDER BY date", txnType)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by type: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// CountTransactionsInRange counts one customer's transactions of one type
// within an inclusive date window.
func (s *SQLiteStore) CountTransactionsInRange(ctx context.Context, ownerID, txnType string, from, to time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE owner_id = ? AND type = ? AND date >= ? AND date <= ?",
		ownerID, txnType, from.Unix(), to.Unix(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// FindTransactionInRange returns one transaction of the owner and type within
// an inclusive date window, or (nil, nil).
func (s *SQLiteStore) FindTransactionInRange(ctx context.Context, ownerID, txnType string, from, to time.Time) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE owner_id = ? AND type = ? AND date >= ? AND date <= ? LIMIT 1",
		ownerID, txnType, from.Unix(), to.Unix(),
	)
	txn, err := scanTransactionFields(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return txn, nil
}

// UpdateTransaction overwrites an existing transaction's amount and date.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET amount = ?, date = ? WHERE id = ?",
		txn.Amount.String(), txn.Date.Unix(), txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", txn.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteTransaction removes a transaction by ID. Deleting a missing
// transaction is not an error.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// DeleteTransactionsByOwner removes every transaction owned by a customer.
func (s *SQLiteStore) DeleteTransactionsByOwner(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE owner_id = ?", ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete transactions by owner: %w", err)
	}
	return nil
}

func prepareTransaction(txn *models.Transaction) {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.Date.IsZero() {
		txn.Date = time.Now()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}
}

func scanTransactionFields(row rowScanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var amount string
	var date int64
	err := row.Scan(
		&txn.ID,
		&txn.OwnerID,
		&amount,
		&txn.Type,
		&date,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("malformed stored amount %q: %w", amount, err)
	}
	txn.Amount = parsed
	txn.Date = time.Unix(date, 0)
	return txn, nil
}

func scanTransactions(rows *sql.Rows) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransactionFields(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

func ownerArgs(ownerIDs []string) []any {
	args := make([]any, len(ownerIDs))
	for i, id := range ownerIDs {
		args[i] = id
	}
	return args
}
