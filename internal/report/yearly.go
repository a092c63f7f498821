package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendwise-tracker/internal/domain/transaction"
)

// MonthlyData is one calendar month of a yearly report
type MonthlyData struct {
	Month    string          `json:"month"`
	Index    int             `json:"index"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// YearlyReport always carries twelve months, January first
type YearlyReport struct {
	Year          int             `json:"year"`
	Months        []MonthlyData   `json:"monthly_data"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalBalance  decimal.Decimal `json:"total_balance"`
}

// Yearly builds the report for year. It returns nil when txs is empty,
// which callers treat as "no data" rather than an error. Year totals are
// the sums of the twelve months.
func Yearly(txs []*transaction.Transaction, year int) *YearlyReport {
	if len(txs) == 0 {
		return nil
	}

	report := &YearlyReport{
		Year:          year,
		Months:        make([]MonthlyData, 12),
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for i := range report.Months {
		month := time.Month(i + 1)
		t := sum(txs, func(tx *transaction.Transaction) bool {
			return tx.Date.Year() == year && tx.Date.Month() == month
		})
		report.Months[i] = MonthlyData{
			Month:    month.String()[:3],
			Index:    i,
			Income:   t.Income,
			Expenses: t.Expenses,
			Balance:  t.Balance,
		}
		report.TotalIncome = report.TotalIncome.Add(t.Income)
		report.TotalExpenses = report.TotalExpenses.Add(t.Expenses)
	}
	report.TotalBalance = report.TotalIncome.Sub(report.TotalExpenses)

	return report
}

// AvailableYears lists the distinct years present, most recent first.
func AvailableYears(txs []*transaction.Transaction) []int {
	seen := make(map[int]struct{})
	years := []int{}
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		y := tx.Date.Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
