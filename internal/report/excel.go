// Package report renders ledger data as downloadable xlsx workbooks.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fynance/ledger/internal/calculator"
	"github.com/fynance/ledger/internal/models"
	"github.com/fynance/ledger/internal/storage"
)

const customersSheet = "Customers"

// ExcelService builds the full-ledger export workbook.
type ExcelService struct {
	store storage.Store
}

// NewExcelService creates an ExcelService with the given storage backend.
func NewExcelService(store storage.Store) *ExcelService {
	return &ExcelService{store: store}
}

// Write renders the workbook and streams it to w. The workbook holds a
// "Customers" sheet with derived balances, then one sheet per calendar month
// that has transactions: customer rows by date columns of net amounts,
// deposits positive and withdrawals negative.
func (s *ExcelService) Write(ctx context.Context, w io.Writer) error {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return err
	}
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return err
	}

	byOwner := make(map[string][]*models.Transaction)
	for _, txn := range txns {
		byOwner[txn.OwnerID] = append(byOwner[txn.OwnerID], txn)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeCustomersSheet(f, customers, byOwner); err != nil {
		return err
	}
	if err := writeMonthSheets(f, customers, txns); err != nil {
		return err
	}

	return f.Write(w)
}

func writeCustomersSheet(f *excelize.File, customers []*models.Customer, byOwner map[string][]*models.Transaction) error {
	f.SetSheetName(f.GetSheetName(0), customersSheet)

	header := []any{"Name", "Group", "Group Index", "Address", "Phone", "Registration Date", "Balance"}
	if err := f.SetSheetRow(customersSheet, "A1", &header); err != nil {
		return err
	}

	for i, c := range customers {
		row := []any{
			c.Name,
			c.Group,
			c.GroupIndex,
			c.Address,
			c.Phone,
			c.RegDate.Format("2006-01-02"),
			calculator.Balance(byOwner[c.ID]).String(),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(customersSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// monthKey groups transactions into per-month sheets.
type monthKey struct {
	year  int
	month time.Month
}

func (k monthKey) sheetName() string {
	return fmt.Sprintf("%s %d", k.month.String(), k.year)
}

func writeMonthSheets(f *excelize.File, customers []*models.Customer, txns []*models.Transaction) error {
	nameByID := make(map[string]string, len(customers))
	for _, c := range customers {
		nameByID[c.ID] = c.Name
	}

	// net[month][owner][day] accumulates signed amounts.
	net := make(map[monthKey]map[string]map[string]decimal.Decimal)
	days := make(map[monthKey]map[string]bool)
	for _, txn := range txns {
		key := monthKey{year: txn.Date.Year(), month: txn.Date.Month()}
		day := txn.Date.Format("2006-01-02")

		amount := txn.Amount
		if txn.Type == models.TypeWithdrawal {
			amount = amount.Neg()
		}

		if net[key] == nil {
			net[key] = make(map[string]map[string]decimal.Decimal)
			days[key] = make(map[string]bool)
		}
		if net[key][txn.OwnerID] == nil {
			net[key][txn.OwnerID] = make(map[string]decimal.Decimal)
		}
		net[key][txn.OwnerID][day] = net[key][txn.OwnerID][day].Add(amount)
		days[key][day] = true
	}

	months := make([]monthKey, 0, len(net))
	for key := range net {
		months = append(months, key)
	}
	sort.Slice(months, func(a, b int) bool {
		if months[a].year != months[b].year {
			return months[a].year < months[b].year
		}
		return months[a].month < months[b].month
	})

	for _, key := range months {
		sheet := key.sheetName()
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		monthDays := make([]string, 0, len(days[key]))
		for day := range days[key] {
			monthDays = append(monthDays, day)
		}
		sort.Strings(monthDays)

		header := make([]any, 0, len(monthDays)+1)
		header = append(header, "Customer")
		for _, day := range monthDays {
			header = append(header, day)
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return err
		}

		rowIdx := 2
		for _, c := range customers {
			perDay := net[key][c.ID]
			if len(perDay) == 0 {
				continue
			}
			row := make([]any, 0, len(monthDays)+1)
			row = append(row, nameByID[c.ID])
			for _, day := range monthDays {
				if amount, ok := perDay[day]; ok {
					row = append(row, amount.String())
				} else {
					row = append(row, "")
				}
			}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowIdx), &row); err != nil {
				return err
			}
			rowIdx++
		}
	}
	return nil
}
