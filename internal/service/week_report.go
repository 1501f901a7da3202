package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fynance/ledger/internal/calculator"
	"github.com/fynance/ledger/internal/models"
	"github.com/fynance/ledger/internal/storage"
)

// DefaultGroup is the group served by the all-groups report variant and the
// fallback returned by ListGroups on an empty registry.
const DefaultGroup = "A"

// reportDateLayout renders report dates as dd/mm/yyyy.
const reportDateLayout = "02/01/2006"

// WeekReportService reconstructs the Monday-Sunday calendar grid of deposits
// and withdrawals for one customer group.
type WeekReportService struct {
	store storage.Store
}

// NewWeekReportService creates a WeekReportService with the given storage backend.
func NewWeekReportService(store storage.Store) *WeekReportService {
	return &WeekReportService{store: store}
}

// DayCell is one day's transaction slot for one customer: the date, the
// amount (zero when the day is empty) and the transaction ID when present.
type DayCell struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	TxnID  *string         `json:"id"`
}

// CustomerWeek is one customer's row in the weekly grid, with the cumulative
// balance over the customer's full history.
type CustomerWeek struct {
	ID             string          `json:"id"`
	Group          string          `json:"group"`
	GroupIndex     int             `json:"group_index"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	RegDate        string          `json:"regDate"`
	Phone          string          `json:"phone"`
	DepositTxns    []DayCell       `json:"deposit_txn"`
	WithdrawalTxns []DayCell       `json:"withdrawal_txn"`
	Balance        decimal.Decimal `json:"balance"`
}

// DayTotals accumulates one day's sums across all customers of the group.
type DayTotals struct {
	Date            string          `json:"date"`
	TotalDeposit    decimal.Decimal `json:"total_deposit"`
	TotalWithdrawal decimal.Decimal `json:"total_withdrawal"`
}

// WeekReport is the weekly grid for a group.
type WeekReport struct {
	Customers    []*CustomerWeek `json:"customers"`
	WeekTotals   []DayTotals     `json:"weekTotals"`
	CurrentMonth string          `json:"currentMonth"`
}

// ForGroup builds the weekly report for one group. weekIndex counts
// Monday-Sunday weeks from the first Monday on or after January 1 of year
// (0 meaning the current year). An unknown or empty group is "not found".
func (s *WeekReportService) ForGroup(ctx context.Context, group string, weekIndex, year int) (*WeekReport, error) {
	if group == "" {
		return nil, validationf("Missing required query parameters: regGroup and weekIndex are required")
	}
	if weekIndex < 0 {
		return nil, validationf("weekIndex must be a non-negative integer")
	}

	customers, err := s.store.ListCustomersByGroup(ctx, strings.ToUpper(group))
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, notFoundf("No users found in this group")
	}

	return s.build(ctx, customers, weekIndex, year)
}

// ForDefaultGroup builds the weekly report for the fixed default group.
// Unlike ForGroup, an empty group yields an empty report, not "not found".
func (s *WeekReportService) ForDefaultGroup(ctx context.Context, weekIndex, year int) (*WeekReport, error) {
	if weekIndex < 0 {
		return nil, validationf("weekIndex must be a non-negative integer")
	}

	customers, err := s.store.ListCustomersByGroup(ctx, DefaultGroup)
	if err != nil {
		return nil, err
	}

	return s.build(ctx, customers, weekIndex, year)
}

func (s *WeekReportService) build(ctx context.Context, customers []*models.Customer, weekIndex, year int) (*WeekReport, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	weekStart, weekEnd := calculator.YearWeek(year, weekIndex, time.Local)

	ownerIDs := make([]string, len(customers))
	for i, c := range customers {
		ownerIDs[i] = c.ID
	}

	// The cumulative balance uses every transaction the customer owns, not
	// just the week's.
	allTxns, err := s.store.ListTransactionsByOwners(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	byOwner := make(map[string][]*models.Transaction)
	for _, txn := range allTxns {
		byOwner[txn.OwnerID] = append(byOwner[txn.OwnerID], txn)
	}

	weekTxns, err := s.store.ListTransactionsByOwnersInRange(ctx, ownerIDs, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	rows := make([]*CustomerWeek, len(customers))
	for i, c := range customers {
		rows[i] = &CustomerWeek{
			ID:         c.ID,
			Group:      c.Group,
			GroupIndex: c.GroupIndex,
			Name:       c.Name,
			Address:    c.Address,
			RegDate:    c.RegDate.Format("2006-01-02"),
			Phone:      c.Phone,
			Balance:    calculator.Balance(byOwner[c.ID]),
		}
	}

	var weekTotals []DayTotals
	for day := 0; day < 7; day++ {
		currentDay := weekStart.AddDate(0, 0, day)
		dateStr := currentDay.Format(reportDateLayout)

		dailyDeposits := decimal.Zero
		dailyWithdrawals := decimal.Zero

		for i, c := range customers {
			deposit := findDayDeposit(weekTxns, c.ID, currentDay)
			withdrawal := findDayWithdrawal(weekTxns, c.ID, currentDay)

			rows[i].DepositTxns = append(rows[i].DepositTxns, makeCell(dateStr, deposit))
			rows[i].WithdrawalTxns = append(rows[i].WithdrawalTxns, makeCell(dateStr, withdrawal))

			// The withdrawal list keeps only the two largest cells seen so
			// far, re-sorted after every day. Display behavior, not a
			// ledger rule.
			sort.SliceStable(rows[i].WithdrawalTxns, func(a, b int) bool {
				return rows[i].WithdrawalTxns[a].Amount.GreaterThan(rows[i].WithdrawalTxns[b].Amount)
			})
			if len(rows[i].WithdrawalTxns) > 2 {
				rows[i].WithdrawalTxns = rows[i].WithdrawalTxns[:2]
			}

			if deposit != nil {
				dailyDeposits = dailyDeposits.Add(deposit.Amount)
			}
			if withdrawal != nil {
				dailyWithdrawals = dailyWithdrawals.Add(withdrawal.Amount)
			}
		}

		weekTotals = append(weekTotals, DayTotals{
			Date:            dateStr,
			TotalDeposit:    dailyDeposits,
			TotalWithdrawal: dailyWithdrawals,
		})
	}

	// The month label comes from the day after the last processed day.
	currentMonth := weekStart.AddDate(0, 0, 7).Month().String()

	slog.Info("Weekly report built",
		"week_index", weekIndex,
		"year", year,
		"customers", len(customers),
		"week_transactions", len(weekTxns),
	)

	return &WeekReport{
		Customers:    rows,
		WeekTotals:   weekTotals,
		CurrentMonth: currentMonth,
	}, nil
}

// findDayDeposit returns the owner's deposit on the given calendar day, or nil.
func findDayDeposit(txns []*models.Transaction, ownerID string, day time.Time) *models.Transaction {
	for _, txn := range txns {
		if txn.OwnerID == ownerID && txn.Type == models.TypeDeposit && calculator.SameDay(txn.Date, day) {
			return txn
		}
	}
	return nil
}

// findDayWithdrawal returns the owner's highest-amount positive withdrawal on
// the given calendar day, or nil.
func findDayWithdrawal(txns []*models.Transaction, ownerID string, day time.Time) *models.Transaction {
	var best *models.Transaction
	for _, txn := range txns {
		if txn.OwnerID != ownerID || txn.Type != models.TypeWithdrawal || !calculator.SameDay(txn.Date, day) {
			continue
		}
		if txn.Amount.Sign() <= 0 {
			continue
		}
		if best == nil || txn.Amount.GreaterThan(best.Amount) {
			best = txn
		}
	}
	return best
}

func makeCell(dateStr string, txn *models.Transaction) DayCell {
	if txn == nil {
		return DayCell{Date: dateStr, Amount: decimal.Zero}
	}
	id := txn.ID
	return DayCell{Date: dateStr, Amount: txn.Amount, TxnID: &id}
}
