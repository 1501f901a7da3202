package report

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fynance/ledger/internal/models"
	"github.com/fynance/ledger/internal/storage/sqlite"
)

func TestExcelExport(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	ada := &models.Customer{
		Name: "Ada", Group: "AB", GroupIndex: 1,
		Address: "1 Export Road", Phone: "0000",
		RegDate: time.Date(2025, time.January, 10, 0, 0, 0, 0, time.Local),
	}
	if err := store.CreateCustomer(ctx, ada); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	march := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.Local)
	txns := []*models.Transaction{
		{OwnerID: ada.ID, Amount: decimal.NewFromInt(100), Type: models.TypeDeposit, Date: march},
		{OwnerID: ada.ID, Amount: decimal.NewFromInt(40), Type: models.TypeWithdrawal, Date: march},
		{OwnerID: ada.ID, Amount: decimal.NewFromInt(25), Type: models.TypeDeposit, Date: march.AddDate(0, 1, 0)},
	}
	if err := store.CreateTransactions(ctx, txns); err != nil {
		t.Fatalf("CreateTransactions failed: %v", err)
	}

	var buf bytes.Buffer
	if err := NewExcelService(store).Write(ctx, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("workbook did not reopen: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Customers": true, "March 2025": true, "April 2025": true}
	for _, sheet := range sheets {
		delete(want, sheet)
	}
	if len(want) != 0 {
		t.Fatalf("missing sheets %v in %v", want, sheets)
	}

	name, err := f.GetCellValue("Customers", "A2")
	if err != nil || name != "Ada" {
		t.Errorf("customer name cell = %q (err %v), want Ada", name, err)
	}
	balance, err := f.GetCellValue("Customers", "G2")
	if err != nil || balance != "85" {
		t.Errorf("balance cell = %q (err %v), want 85", balance, err)
	}

	// March nets deposit 100 against withdrawal 40 on the same day.
	day, err := f.GetCellValue("March 2025", "B1")
	if err != nil || day != "2025-03-03" {
		t.Errorf("March header = %q (err %v), want 2025-03-03", day, err)
	}
	netAmount, err := f.GetCellValue("March 2025", "B2")
	if err != nil || netAmount != "60" {
		t.Errorf("March net cell = %q (err %v), want 60", netAmount, err)
	}
}
