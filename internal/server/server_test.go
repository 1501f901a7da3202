package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fynance/ledger/internal/storage/sqlite"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store).Router()
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decodeJSON(t, rec, &body)
	return body.Message
}

func registerVia(t *testing.T, router *gin.Engine, name, group string, index int) string {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/customers", gin.H{
		"name": name, "group": group, "group_index": index, "address": "1 Test Street",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", name, rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	decodeJSON(t, rec, &created)
	return created.ID
}

func TestCustomerEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("register", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/customers", gin.H{
			"name": "Ada", "group": "ab", "group_index": 1, "address": "Somewhere",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var created struct {
			Group string `json:"group"`
			Phone string `json:"phone"`
		}
		decodeJSON(t, rec, &created)
		if created.Group != "AB" {
			t.Errorf("group = %q, want normalized AB", created.Group)
		}
		if created.Phone != "0000" {
			t.Errorf("phone = %q, want default 0000", created.Phone)
		}
	})

	t.Run("register validation", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/customers", gin.H{"name": "No Group"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := message(t, rec); got != "All fields are required" {
			t.Errorf("message = %q", got)
		}
	})

	t.Run("lookup missing", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/customers/nope", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := message(t, rec); got != "Customer not found" {
			t.Errorf("message = %q", got)
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		id := registerVia(t, router, "Bea", "CD", 1)

		rec := doRequest(t, router, http.MethodPut, "/api/customers/"+id, gin.H{"name": "Beatrice"})
		if rec.Code != http.StatusOK {
			t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
		}

		rec = doRequest(t, router, http.MethodDelete, "/api/customers/"+id, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete status = %d", rec.Code)
		}
		rec = doRequest(t, router, http.MethodDelete, "/api/customers/"+id, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("second delete status = %d, want 404", rec.Code)
		}
	})

	t.Run("groups", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/customers/groups/all", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var body struct {
			Groups []string `json:"groups"`
		}
		decodeJSON(t, rec, &body)
		if len(body.Groups) == 0 {
			t.Error("expected at least the default group")
		}
	})
}

func TestTransactionEndpoints(t *testing.T) {
	router := newTestRouter(t)
	owner := registerVia(t, router, "Ada", "AB", 1)

	t.Run("deposit", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/txns?owner="+owner, gin.H{
			"amount": 100, "type": "deposit", "date": "2025-06-16",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Transaction struct {
				ID string `json:"id"`
			} `json:"transaction"`
			Balance decimal.Decimal `json:"balance"`
		}
		decodeJSON(t, rec, &body)
		if body.Transaction.ID == "" {
			t.Error("expected generated transaction ID")
		}
		if !body.Balance.IsZero() {
			t.Errorf("pre-transaction balance = %s, want 0", body.Balance)
		}
	})

	t.Run("string amount accepted", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/txns?owner="+owner, gin.H{
			"amount": "55.50", "type": "deposit", "date": "2025-06-17",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("insufficient funds carries balance", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/txns?owner="+owner, gin.H{
			"amount": 1000, "type": "withdrawal", "date": "2025-06-18",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Message          string          `json:"message"`
			AvailableBalance decimal.Decimal `json:"availableBalance"`
		}
		decodeJSON(t, rec, &body)
		if body.Message != "Insufficient funds for withdrawal" {
			t.Errorf("message = %q", body.Message)
		}
		if !body.AvailableBalance.Equal(decimal.RequireFromString("155.50")) {
			t.Errorf("availableBalance = %s, want 155.50", body.AvailableBalance)
		}
	})

	t.Run("duplicate day", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/txns?owner="+owner, gin.H{
			"amount": 5, "type": "deposit", "date": "2025-06-16",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := message(t, rec); got != "Transaction already exists for this day" {
			t.Errorf("message = %q", got)
		}
	})

	t.Run("update to zero deletes", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/txns?owner="+owner, gin.H{
			"amount": 10, "type": "deposit", "date": "2025-06-19",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d", rec.Code)
		}
		var created struct {
			Transaction struct {
				ID string `json:"id"`
			} `json:"transaction"`
		}
		decodeJSON(t, rec, &created)

		rec = doRequest(t, router, http.MethodPut, "/api/txns/"+created.Transaction.ID+"/update", gin.H{
			"amount": 0,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
		}
		if got := message(t, rec); got != "Transaction deleted successfully" {
			t.Errorf("message = %q", got)
		}
	})

	t.Run("delete is unconditional", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, "/api/txns/never-existed/delete", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("dashboard", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/txns/dashboard", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var body struct {
			CustomerCount int             `json:"no_of_customers"`
			Income        decimal.Decimal `json:"income"`
		}
		decodeJSON(t, rec, &body)
		if body.CustomerCount != 1 {
			t.Errorf("no_of_customers = %d, want 1", body.CustomerCount)
		}
		if !body.Income.Equal(decimal.RequireFromString("155.50")) {
			t.Errorf("income = %s, want 155.50", body.Income)
		}
	})
}

func TestReportEndpoints(t *testing.T) {
	router := newTestRouter(t)
	owner := registerVia(t, router, "Ada", "AB", 1)

	rec := doRequest(t, router, http.MethodPost, "/api/txns?owner="+owner, gin.H{
		"amount": 100, "type": "deposit", "date": "2025-06-16",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed deposit status = %d", rec.Code)
	}

	t.Run("missing regGroup", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/txns/group?weekIndex=23&year=2025", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("missing weekIndex", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/txns/group?regGroup=AB", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/txns/group?regGroup=ZZ&weekIndex=23&year=2025", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := message(t, rec); got != "No users found in this group" {
			t.Errorf("message = %q", got)
		}
	})

	t.Run("group grid", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/txns/group?regGroup=ab&weekIndex=23&year=2025", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Customers []struct {
				Name        string `json:"name"`
				DepositTxns []struct {
					Date   string          `json:"date"`
					Amount decimal.Decimal `json:"amount"`
				} `json:"deposit_txn"`
			} `json:"customers"`
			WeekTotals   []json.RawMessage `json:"weekTotals"`
			CurrentMonth string            `json:"currentMonth"`
		}
		decodeJSON(t, rec, &body)
		if len(body.Customers) != 1 {
			t.Fatalf("customers = %d, want 1", len(body.Customers))
		}
		if len(body.Customers[0].DepositTxns) != 7 {
			t.Errorf("deposit cells = %d, want 7", len(body.Customers[0].DepositTxns))
		}
		if got := body.Customers[0].DepositTxns[0].Date; got != "16/06/2025" {
			t.Errorf("first cell date = %q, want 16/06/2025", got)
		}
		if len(body.WeekTotals) != 7 {
			t.Errorf("weekTotals = %d, want 7", len(body.WeekTotals))
		}
		if body.CurrentMonth != "June" {
			t.Errorf("currentMonth = %q, want June", body.CurrentMonth)
		}
	})

	t.Run("default group is empty not 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/txns/all_group?weekIndex=23&year=2025", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("excel download", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/reports/excel", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
			t.Errorf("content type = %q", ct)
		}
		if rec.Body.Len() == 0 {
			t.Error("expected workbook bytes")
		}
	})
}

func TestImportEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/customers/import", []gin.H{
		{
			"name":       "Ada",
			"reg_number": "AB12",
			"transactions": []gin.H{
				{"amount": 100, "type": "deposit", "date": "2024-03-04"},
				{"amount": 100, "type": "deposit", "date": "2024-03-04"},
			},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Customers    int `json:"customers"`
		Transactions int `json:"transactions"`
	}
	decodeJSON(t, rec, &body)
	if body.Customers != 1 || body.Transactions != 1 {
		t.Errorf("imported %d customers / %d transactions, want 1 / 1", body.Customers, body.Transactions)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	if rec := doRequest(t, router, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodGet, "/metrics", nil); rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d", rec.Code)
	}
}
