package report

import (
	"sort"
	"strings"
	"time"

	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/domain/transaction"
)

// DateRange narrows a listing to a period ending today
type DateRange string

const (
	DateRangeAll   DateRange = "all"
	DateRangeToday DateRange = "today"
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
)

// All matches every value of a kind or category criterion.
const All = "all"

// Criteria selects entries for a listing; zero values match everything
type Criteria struct {
	Kind      string
	Category  string
	DateRange DateRange
	Search    string
}

// ParseDateRange accepts an empty value as DateRangeAll.
func ParseDateRange(s string) (DateRange, bool) {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "", DateRangeAll:
		return DateRangeAll, true
	case DateRangeToday, DateRangeWeek, DateRangeMonth:
		return r, true
	}
	return "", false
}

// Filter keeps the entries matching every criterion, in their input order.
// Search is a case-insensitive substring match on description or category.
func Filter(txs []*transaction.Transaction, c Criteria, now time.Time) []*transaction.Transaction {
	today := shared.DateOf(now)
	weekStart := WeekStart(now)
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := []*transaction.Transaction{}
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		if c.Kind != "" && c.Kind != All && string(tx.Kind) != c.Kind {
			continue
		}
		if c.Category != "" && c.Category != All && tx.Category != c.Category {
			continue
		}
		if !matchesRange(tx.Date, c.DateRange, today, weekStart) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Description), search) &&
			!strings.Contains(strings.ToLower(tx.Category), search) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func matchesRange(d shared.Date, r DateRange, today, weekStart shared.Date) bool {
	switch r {
	case DateRangeToday:
		return d.Equal(today)
	case DateRangeWeek:
		return inRange(d, weekStart, today)
	case DateRangeMonth:
		return d.Year() == today.Year() && d.Month() == today.Month()
	case DateRangeAll, "":
		return true
	}
	return true
}

// Categories lists the distinct categories in use, sorted.
func Categories(txs []*transaction.Transaction) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		if _, ok := seen[tx.Category]; ok {
			continue
		}
		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}
	sort.Strings(out)
	return out
}
