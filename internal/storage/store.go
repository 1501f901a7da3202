// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/fynance/ledger/internal/models"
)

// ErrNotFound is returned by mutating operations whose target row does not
// exist. Get* methods return (nil, nil) instead.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for customer and transaction persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Get* methods return (nil, nil) when the record does not exist; the service
// layer decides whether that is an error.
type Store interface {
	// CreateCustomer persists a new customer. Missing ID, RegDate and
	// timestamps are populated by the store.
	CreateCustomer(ctx context.Context, customer *models.Customer) error

	// GetCustomer retrieves a customer by ID.
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)

	// GetCustomerByName retrieves a customer by exact name.
	GetCustomerByName(ctx context.Context, name string) (*models.Customer, error)

	// GetCustomerByGroupIndex retrieves the customer holding the given
	// index within a group.
	GetCustomerByGroupIndex(ctx context.Context, group string, index int) (*models.Customer, error)

	// ListCustomers returns all customers ordered by group, then group index.
	ListCustomers(ctx context.Context) ([]*models.Customer, error)

	// ListCustomersByGroup returns the customers of one group ordered by
	// group index ascending.
	ListCustomersByGroup(ctx context.Context, group string) ([]*models.Customer, error)

	// ListGroups returns the distinct group codes, sorted lexicographically.
	ListGroups(ctx context.Context) ([]string, error)

	// MaxGroupIndex returns the highest group index in use for a group,
	// or 0 when the group has no customers.
	MaxGroupIndex(ctx context.Context, group string) (int, error)

	// CountCustomers returns the total number of customers.
	CountCustomers(ctx context.Context) (int, error)

	// UpdateCustomer overwrites an existing customer's mutable fields.
	UpdateCustomer(ctx context.Context, customer *models.Customer) error

	// DeleteCustomer removes a customer by ID. Owned transactions are NOT
	// removed here; the service cascades first.
	DeleteCustomer(ctx context.Context, id string) error

	// CreateTransaction persists a single transaction. Missing ID and
	// CreatedAt are populated by the store.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error

	// CreateTransactions bulk-inserts a batch of transactions in one store
	// transaction.
	CreateTransactions(ctx context.Context, txns []*models.Transaction) error

	// GetTransaction retrieves a transaction by ID.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// ListTransactions returns every transaction ordered by date ascending.
	ListTransactions(ctx context.Context) ([]*models.Transaction, error)

	// ListTransactionsByOwner returns all of one customer's transactions
	// ordered by date ascending.
	ListTransactionsByOwner(ctx context.Context, ownerID string) ([]*models.Transaction, error)

	// ListTransactionsByOwners returns all transactions owned by any of the
	// given customers.
	ListTransactionsByOwners(ctx context.Context, ownerIDs []string) ([]*models.Transaction, error)

	// ListTransactionsByOwnersInRange restricts ListTransactionsByOwners to
	// date >= from && date <= to.
	ListTransactionsByOwnersInRange(ctx context.Context, ownerIDs []string, from, to time.Time) ([]*models.Transaction, error)

	// ListTransactionsByType returns all transactions of one type.
	ListTransactionsByType(ctx context.Context, txnType string) ([]*models.Transaction, error)

	// CountTransactionsInRange counts one customer's transactions of one
	// type with date >= from && date <= to.
	CountTransactionsInRange(ctx context.Context, ownerID, txnType string, from, to time.Time) (int, error)

	// FindTransactionInRange returns one transaction of the owner and type
	// with date >= from && date <= to, or (nil, nil).
	FindTransactionInRange(ctx context.Context, ownerID, txnType string, from, to time.Time) (*models.Transaction, error)

	// UpdateTransaction overwrites an existing transaction's amount and date.
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error

	// DeleteTransaction removes a transaction by ID.
	DeleteTransaction(ctx context.Context, id string) error

	// DeleteTransactionsByOwner removes every transaction owned by the
	// given customer.
	DeleteTransactionsByOwner(ctx context.Context, ownerID string) error

	// Close releases any resources held by the store.
	Close() error
}
