package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
)

// RecentLimit is how many savings records a summary carries.
const RecentLimit = 5

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// SavingsStats summarizes settled savings movements and goal counts
type SavingsStats struct {
	TotalSavings     decimal.Decimal `json:"total_savings"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	MonthlySavings   decimal.Decimal `json:"monthly_savings"`
	SavingsRate      decimal.Decimal `json:"savings_rate"`
	ActiveGoals      int             `json:"active_goals"`
	CompletedGoals   int             `json:"completed_goals"`
}

// SavingsSummary bundles the statistics with recent activity
type SavingsSummary struct {
	Stats              SavingsStats           `json:"stats"`
	RecentTransactions []*savings.Transaction `json:"recent_transactions"`
	ActiveGoals        []*savings.Goal        `json:"active_goals"`
}

func settled(stxs []*savings.Transaction, keep func(*savings.Transaction) bool) (deposits, withdrawals decimal.Decimal) {
	deposits, withdrawals = decimal.Zero, decimal.Zero
	for _, tx := range stxs {
		if tx == nil || tx.Status != shared.SavingsStatusSuccess {
			continue
		}
		if keep != nil && !keep(tx) {
			continue
		}
		switch tx.Kind {
		case shared.SavingsKindDeposit:
			deposits = deposits.Add(tx.Amount)
		case shared.SavingsKindWithdrawal:
			withdrawals = withdrawals.Add(tx.Amount)
		}
	}
	return deposits, withdrawals
}

// RoundHalfUp rounds d to two decimal places with ties going up.
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Add(half).Floor().Div(hundred)
}

// Savings computes statistics over successful records only. Monthly
// savings are restricted to records created in the calendar month and
// year of now, read in now's location.
func Savings(stxs []*savings.Transaction, goals []*savings.Goal, now time.Time) SavingsStats {
	deposits, withdrawals := settled(stxs, nil)
	total := deposits.Sub(withdrawals)

	loc := now.Location()
	monthDeposits, monthWithdrawals := settled(stxs, func(tx *savings.Transaction) bool {
		created := tx.CreatedAt.In(loc)
		return created.Year() == now.Year() && created.Month() == now.Month()
	})

	rate := decimal.Zero
	if deposits.IsPositive() {
		rate = RoundHalfUp(total.Mul(hundred).Div(deposits))
	}

	stats := SavingsStats{
		TotalSavings:     total,
		TotalDeposits:    deposits,
		TotalWithdrawals: withdrawals,
		MonthlySavings:   monthDeposits.Sub(monthWithdrawals),
		SavingsRate:      rate,
	}
	for _, g := range goals {
		if g == nil {
			continue
		}
		if g.Active {
			stats.ActiveGoals++
		} else {
			stats.CompletedGoals++
		}
	}
	return stats
}

// Summary takes the first RecentLimit records in the order given; the
// store is responsible for ordering them newest first.
func Summary(stxs []*savings.Transaction, goals []*savings.Goal, now time.Time) SavingsSummary {
	recent := stxs
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return SavingsSummary{
		Stats:              Savings(stxs, goals, now),
		RecentTransactions: append([]*savings.Transaction{}, recent...),
		ActiveGoals:        ActiveGoals(goals),
	}
}

// ActiveGoals keeps goals still in progress, preserving order.
func ActiveGoals(goals []*savings.Goal) []*savings.Goal {
	active := []*savings.Goal{}
	for _, g := range goals {
		if g != nil && g.Active {
			active = append(active, g)
		}
	}
	return active
}

// GoalProgress is the saved share of the target as a percentage capped at 100.
func GoalProgress(g *savings.Goal) decimal.Decimal {
	if g == nil || !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := RoundHalfUp(g.CurrentAmount.Mul(hundred).Div(g.TargetAmount))
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
