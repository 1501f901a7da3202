package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fynance/ledger/internal/models"
	"github.com/fynance/ledger/internal/storage"
)

// Sentinel values substituted for missing import fields.
const (
	ImportDefaultGroup   = "Nill"
	ImportDefaultName    = "Unknown"
	ImportDefaultPhone   = "0000000000"
	ImportDefaultAddress = "N/A"
)

// ImportService reconciles externally sourced customer and transaction
// records into the ledger.
type ImportService struct {
	store storage.Store
}

// NewImportService creates an ImportService with the given storage backend.
func NewImportService(store storage.Store) *ImportService {
	return &ImportService{store: store}
}

// RawCustomer is one record of an import batch, as sourced externally.
// Amounts and dates arrive in whatever shape the source used.
type RawCustomer struct {
	Name         string           `json:"name"`
	Phone        string           `json:"phone"`
	Address      string           `json:"address"`
	RegNumber    string           `json:"reg_number"`
	Date         string           `json:"date"`
	RegDate      string           `json:"reg_date"`
	Transactions []RawTransaction `json:"transactions"`
}

// RawTransaction is one embedded transaction record. Amount may be a JSON
// number or a numeric string.
type RawTransaction struct {
	Amount any    `json:"amount"`
	Type   string `json:"type"`
	Date   string `json:"date"`
}

// ImportResult reports how much of the batch was persisted.
type ImportResult struct {
	Customers    int `json:"customers"`
	Transactions int `json:"transactions"`
}

// Import ingests a batch of raw customer records. Customers are saved one at
// a time; their accepted transactions are collected and bulk-inserted at the
// end. A customer save failure aborts the remaining batch WITHOUT rolling
// back customers already saved — callers must treat a failed import as
// possibly partially applied.
func (s *ImportService) Import(ctx context.Context, batch []RawCustomer) (*ImportResult, error) {
	if len(batch) == 0 {
		return nil, validationf("no records to import")
	}

	// Group indexes are allocated by a counter scoped to this call, seeded
	// from storage on first use per group. Nothing is shared between
	// concurrent or successive imports.
	indexes := newGroupIndexAllocator(s.store)
	now := time.Now()

	var txnDocs []*models.Transaction
	imported := 0

	for _, raw := range batch {
		customer, err := s.sanitizeCustomer(ctx, raw, indexes, now)
		if err != nil {
			return nil, err
		}
		if err := s.store.CreateCustomer(ctx, customer); err != nil {
			slog.Error("Import aborted on customer save",
				"name", customer.Name,
				"imported_so_far", imported,
				"error", err,
			)
			return nil, fmt.Errorf("import aborted after %d customers: %w", imported, err)
		}
		imported++

		seen := make(map[string]bool)
		for _, rawTxn := range raw.Transactions {
			txn := sanitizeTransaction(rawTxn, customer.ID, seen, now)
			if txn != nil {
				txnDocs = append(txnDocs, txn)
			}
		}
	}

	if err := s.store.CreateTransactions(ctx, txnDocs); err != nil {
		return nil, err
	}

	slog.Info("Import completed", "customers", imported, "transactions", len(txnDocs))
	return &ImportResult{Customers: imported, Transactions: len(txnDocs)}, nil
}

func (s *ImportService) sanitizeCustomer(ctx context.Context, raw RawCustomer, indexes *groupIndexAllocator, now time.Time) (*models.Customer, error) {
	group := ImportDefaultGroup
	if raw.RegNumber != "" {
		group = strings.ToUpper(stripDigits(raw.RegNumber))
	}

	index, err := indexes.next(ctx, group)
	if err != nil {
		return nil, err
	}

	regDate := now
	if d, ok := parseDate(raw.Date); ok {
		regDate = d
	} else if d, ok := parseDate(raw.RegDate); ok {
		regDate = d
	}

	return &models.Customer{
		Name:       defaultString(raw.Name, ImportDefaultName),
		Group:      group,
		GroupIndex: index,
		Address:    defaultString(raw.Address, ImportDefaultAddress),
		Phone:      defaultString(raw.Phone, ImportDefaultPhone),
		RegDate:    regDate,
	}, nil
}

// sanitizeTransaction coerces and validates one raw transaction. It returns
// nil when the record should be silently dropped: unparseable or non-positive
// amount, or a duplicate of a record already seen for this customer.
func sanitizeTransaction(raw RawTransaction, ownerID string, seen map[string]bool, now time.Time) *models.Transaction {
	amount, ok := coerceAmount(raw.Amount)
	if !ok || amount.Sign() <= 0 {
		return nil
	}

	date := now
	if d, ok := parseDate(raw.Date); ok {
		date = d
	}

	txnType := raw.Type
	if !models.ValidType(txnType) {
		txnType = models.TypeDeposit
	}

	key := amount.String() + "-" + txnType + "-" + date.UTC().Format(time.RFC3339)
	if seen[key] {
		return nil
	}
	seen[key] = true

	return &models.Transaction{
		OwnerID: ownerID,
		Amount:  amount,
		Type:    txnType,
		Date:    date,
	}
}

// groupIndexAllocator hands out sequential group indexes for one import
// session. The first request for a group seeds the counter from the highest
// index already in storage.
type groupIndexAllocator struct {
	store storage.Store
	last  map[string]int
}

func newGroupIndexAllocator(store storage.Store) *groupIndexAllocator {
	return &groupIndexAllocator{store: store, last: make(map[string]int)}
}

// next assumes group is already normalized by the caller.
func (a *groupIndexAllocator) next(ctx context.Context, group string) (int, error) {
	if _, ok := a.last[group]; !ok {
		max, err := a.store.MaxGroupIndex(ctx, group)
		if err != nil {
			return 0, err
		}
		a.last[group] = max
	}
	a.last[group]++
	return a.last[group], nil
}

// coerceAmount accepts the amount shapes an import source may produce:
// JSON numbers and numeric strings.
func coerceAmount(v any) (decimal.Decimal, bool) {
	switch amount := v.(type) {
	case float64:
		return decimal.NewFromFloat(amount), true
	case int:
		return decimal.NewFromInt(int64(amount)), true
	case string:
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

var importDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range importDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func stripDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, s)
}
