package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fynance/ledger/internal/models"
	"github.com/fynance/ledger/internal/storage"
)

const customerColumns = "id, name, grp, group_index, address, phone, reg_date, created_at, updated_at"

// CreateCustomer inserts a new customer into the database.
// Missing ID, RegDate and timestamps are populated here.
func (s *SQLiteStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	now := time.Now()
	if customer.RegDate.IsZero() {
		customer.RegDate = now
	}
	if customer.CreatedAt == 0 {
		customer.CreatedAt = now.Unix()
	}
	customer.UpdatedAt = now.Unix()

	query := `
		INSERT INTO customers (id, name, grp, group_index, address, phone, reg_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.Group,
		customer.GroupIndex,
		customer.Address,
		customer.Phone,
		customer.RegDate.Unix(),
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetCustomer retrieves a customer by ID. Returns (nil, nil) when absent.
func (s *SQLiteStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = ?", id)
	return scanCustomer(row)
}

// GetCustomerByName retrieves a customer by exact name. Returns (nil, nil) when absent.
func (s *SQLiteStore) GetCustomerByName(ctx context.Context, name string) (*models.Customer, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE name = ?", name)
	return scanCustomer(row)
}

// GetCustomerByGroupIndex retrieves the holder of a group index. Returns (nil, nil) when absent.
func (s *SQLiteStore) GetCustomerByGroupIndex(ctx context.Context, group string, index int) (*models.Customer, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE grp = ? AND group_index = ?", group, index)
	return scanCustomer(row)
}

// ListCustomers returns all customers ordered by group, then group index.
func (s *SQLiteStore) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+customerColumns+" FROM customers ORDER BY grp, group_index")
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// ListCustomersByGroup returns one group's customers ordered by group index.
func (s *SQLiteStore) ListCustomersByGroup(ctx context.Context, group string) ([]*models.Customer, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE grp = ? ORDER BY group_index", group)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers by group: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// ListGroups returns the distinct group codes, sorted lexicographically.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT grp FROM customers ORDER BY grp")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var group string
		if err := rows.Scan(&group); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	return groups, nil
}

// MaxGroupIndex returns the highest group index in use for a group, or 0.
func (s *SQLiteStore) MaxGroupIndex(ctx context.Context, group string) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(group_index) FROM customers WHERE grp = ?", group).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max group index: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

// CountCustomers returns the total number of customers.
func (s *SQLiteStore) CountCustomers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

// UpdateCustomer overwrites an existing customer's mutable fields.
func (s *SQLiteStore) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = time.Now().Unix()

	query := `
		UPDATE customers
		SET name = ?, grp = ?, group_index = ?, address = ?, phone = ?, reg_date = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		customer.Name,
		customer.Group,
		customer.GroupIndex,
		customer.Address,
		customer.Phone,
		customer.RegDate.Unix(),
		customer.UpdatedAt,
		customer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("customer %s: %w", customer.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteCustomer removes a customer by ID. Owned transactions are not
// touched; the service layer cascades before calling this.
func (s *SQLiteStore) DeleteCustomer(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomerFields(row rowScanner) (*models.Customer, error) {
	customer := &models.Customer{}
	var regDate int64
	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Group,
		&customer.GroupIndex,
		&customer.Address,
		&customer.Phone,
		&regDate,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	customer.RegDate = time.Unix(regDate, 0)
	return customer, nil
}

func scanCustomer(row *sql.Row) (*models.Customer, error) {
	customer, err := scanCustomerFields(row)
	if err == sql.ErrNoRows {
		return nil, nil // Customer not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func scanCustomers(rows *sql.Rows) ([]*models.Customer, error) {
	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomerFields(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return customers, nil
}
