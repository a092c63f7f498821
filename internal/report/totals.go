package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/domain/transaction"
)

// Totals is an income/expense rollup over a set of entries
type Totals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// DashboardStats covers the whole provided list
type DashboardStats struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
}

// QuickStats holds the rollups for the current day and week
type QuickStats struct {
	Today    Totals `json:"today"`
	ThisWeek Totals `json:"this_week"`
}

func sum(txs []*transaction.Transaction, keep func(*transaction.Transaction) bool) Totals {
	income, expenses := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if tx == nil || (keep != nil && !keep(tx)) {
			continue
		}
		switch tx.Kind {
		case shared.TransactionKindIncome:
			income = income.Add(tx.Amount)
		case shared.TransactionKindExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}
	return Totals{Income: income, Expenses: expenses, Balance: income.Sub(expenses)}
}

// Dashboard sums every entry regardless of date.
func Dashboard(txs []*transaction.Transaction) DashboardStats {
	t := sum(txs, nil)
	return DashboardStats{
		TotalIncome:      t.Income,
		TotalExpenses:    t.Expenses,
		Balance:          t.Balance,
		TransactionCount: len(txs),
	}
}

// WeekStart returns the Sunday on or before the calendar day of now.
func WeekStart(now time.Time) shared.Date {
	today := shared.DateOf(now)
	return today.AddDays(-int(now.Weekday()))
}

func inRange(d, from, to shared.Date) bool {
	return !d.Before(from) && !d.After(to)
}

// Quick computes the rollups for today and for the week running from the
// most recent Sunday up to and including today. now is read in its own
// location.
func Quick(txs []*transaction.Transaction, now time.Time) QuickStats {
	today := shared.DateOf(now)
	weekStart := WeekStart(now)

	return QuickStats{
		Today: sum(txs, func(tx *transaction.Transaction) bool {
			return tx.Date.Equal(today)
		}),
		ThisWeek: sum(txs, func(tx *transaction.Transaction) bool {
			return inRange(tx.Date, weekStart, today)
		}),
	}
}
