// Package calculator provides the pure functions behind the ledger: balance
// derivation and calendar-week arithmetic. Nothing here touches storage.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/fynance/ledger/internal/models"
)

// Balance computes the available balance over a customer's transactions:
// the sum of deposit amounts minus the sum of withdrawal amounts. Order of
// the input does not matter. This is the single balance function shared by
// the detail view, admission checks and weekly reports; keep it that way so
// the three contexts cannot drift.
func Balance(txns []*models.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, txn := range txns {
		switch txn.Type {
		case models.TypeDeposit:
			balance = balance.Add(txn.Amount)
		case models.TypeWithdrawal:
			balance = balance.Sub(txn.Amount)
		}
	}
	return balance
}

// TypeTotal sums the amounts of all transactions of the given type.
func TypeTotal(txns []*models.Transaction, txnType string) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		if txn.Type == txnType {
			total = total.Add(txn.Amount)
		}
	}
	return total
}

// TypeCount counts the transactions of the given type.
func TypeCount(txns []*models.Transaction, txnType string) int {
	n := 0
	for _, txn := range txns {
		if txn.Type == txnType {
			n++
		}
	}
	return n
}
