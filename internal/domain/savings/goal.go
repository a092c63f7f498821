package savings

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendwise-tracker/internal/domain/shared"
)

// GoalCategory classifies what a goal is saving towards
type GoalCategory string

const (
	GoalCategoryEmergencyFund GoalCategory = "Emergency Fund"
	GoalCategoryTravel        GoalCategory = "Travel"
	GoalCategoryElectronics   GoalCategory = "Electronics"
	GoalCategoryHome          GoalCategory = "Home"
	GoalCategoryCar           GoalCategory = "Car"
	GoalCategoryEducation     GoalCategory = "Education"
	GoalCategoryWedding       GoalCategory = "Wedding"
	GoalCategoryBusiness      GoalCategory = "Business"
	GoalCategoryOther         GoalCategory = "Other"
)

// GoalCategories lists every category in display order.
var GoalCategories = []GoalCategory{
	GoalCategoryEmergencyFund,
	GoalCategoryTravel,
	GoalCategoryElectronics,
	GoalCategoryHome,
	GoalCategoryCar,
	GoalCategoryEducation,
	GoalCategoryWedding,
	GoalCategoryBusiness,
	GoalCategoryOther,
}

func (c GoalCategory) Valid() bool {
	for _, known := range GoalCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Goal is a savings target tracked by its owner
type Goal struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       string          `json:"owner_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      shared.Date     `json:"deadline"`
	Category      GoalCategory    `json:"category"`
	Description   string          `json:"description,omitempty"`
	Active        bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewGoal creates an active goal with nothing saved yet.
func NewGoal(ownerID, name string, target decimal.Decimal, deadline shared.Date, category GoalCategory, description string) (*Goal, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrEmptyOwner
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyGoalName
	}
	if !target.IsPositive() {
		return nil, ErrInvalidTarget
	}
	if deadline.IsZero() {
		return nil, ErrMissingDeadline
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	now := time.Now().UTC()
	return &Goal{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Name:          strings.TrimSpace(name),
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Deadline:      deadline,
		Category:      category,
		Description:   strings.TrimSpace(description),
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Remaining is the amount still missing to reach the target, never negative.
func (g *Goal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// CanContribute reports whether amount fits under the target.
func (g *Goal) CanContribute(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidContributed
	}
	if !g.Active {
		return ErrInactiveGoal
	}
	if g.CurrentAmount.Add(amount).GreaterThan(g.TargetAmount) {
		return ErrExceedsTarget
	}
	return nil
}

// GoalPatch carries a partial goal update; nil fields are left untouched
type GoalPatch struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *shared.Date
	Category      *GoalCategory
	Description   *string
	Active        *bool
}

func (p GoalPatch) Validate() error {
	if p.Name == nil && p.TargetAmount == nil && p.CurrentAmount == nil && p.Deadline == nil &&
		p.Category == nil && p.Description == nil && p.Active == nil {
		return ErrNothingToUpdate
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrEmptyGoalName
	}
	if p.TargetAmount != nil && !p.TargetAmount.IsPositive() {
		return ErrInvalidTarget
	}
	if p.CurrentAmount != nil && p.CurrentAmount.IsNegative() {
		return ErrNegativeCurrent
	}
	if p.Deadline != nil && p.Deadline.IsZero() {
		return ErrMissingDeadline
	}
	if p.Category != nil && !p.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// Apply writes the present fields onto g and rejects a result whose
// current amount exceeds its target.
func (p GoalPatch) Apply(g *Goal) error {
	updated := *g
	if p.Name != nil {
		updated.Name = strings.TrimSpace(*p.Name)
	}
	if p.TargetAmount != nil {
		updated.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		updated.CurrentAmount = *p.CurrentAmount
	}
	if p.Deadline != nil {
		updated.Deadline = *p.Deadline
	}
	if p.Category != nil {
		updated.Category = *p.Category
	}
	if p.Description != nil {
		updated.Description = strings.TrimSpace(*p.Description)
	}
	if p.Active != nil {
		updated.Active = *p.Active
	}
	if updated.CurrentAmount.GreaterThan(updated.TargetAmount) {
		return ErrExceedsTarget
	}
	updated.UpdatedAt = time.Now().UTC()
	*g = updated
	return nil
}
