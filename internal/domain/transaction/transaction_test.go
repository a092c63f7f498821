package transaction

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	date := shared.NewDate(2024, time.January, 15)

	t.Run("SuccessfulCreation", func(t *testing.T) {
		tx, err := NewTransaction("user-1", shared.TransactionKindIncome, decimal.NewFromInt(5000), shared.CurrencyXAF, " Salary ", "january pay", date)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, tx.ID)
		assert.Equal(t, "user-1", tx.OwnerID)
		assert.Equal(t, "Salary", tx.Category)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(5000)))
		assert.Equal(t, tx.CreatedAt, tx.UpdatedAt)
	})

	t.Run("DefaultsCurrency", func(t *testing.T) {
		tx, err := NewTransaction("user-1", shared.TransactionKindExpense, decimal.NewFromInt(20), "", "Food", "", date)
		require.NoError(t, err)
		assert.Equal(t, shared.DefaultCurrency, tx.Currency)
	})

	testCases := []struct {
		name     string
		owner    string
		kind     shared.TransactionKind
		amount   decimal.Decimal
		currency shared.Currency
		category string
		date     shared.Date
		wantErr  error
	}{
		{"EmptyOwner", "", shared.TransactionKindIncome, decimal.NewFromInt(1), shared.CurrencyUSD, "Food", date, ErrEmptyOwner},
		{"InvalidKind", "u", "transfer", decimal.NewFromInt(1), shared.CurrencyUSD, "Food", date, shared.ErrInvalidTransactionKind},
		{"ZeroAmount", "u", shared.TransactionKindIncome, decimal.Zero, shared.CurrencyUSD, "Food", date, ErrInvalidAmount},
		{"NegativeAmount", "u", shared.TransactionKindIncome, decimal.NewFromInt(-3), shared.CurrencyUSD, "Food", date, ErrInvalidAmount},
		{"UnsupportedCurrency", "u", shared.TransactionKindIncome, decimal.NewFromInt(1), "GBP", "Food", date, shared.ErrInvalidCurrency},
		{"EmptyCategory", "u", shared.TransactionKindIncome, decimal.NewFromInt(1), shared.CurrencyUSD, "  ", date, ErrEmptyCategory},
		{"MissingDate", "u", shared.TransactionKindIncome, decimal.NewFromInt(1), shared.CurrencyUSD, "Food", shared.Date{}, ErrMissingDate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tx, err := NewTransaction(tc.owner, tc.kind, tc.amount, tc.currency, tc.category, "", tc.date)
			assert.Nil(t, tx)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestPatch_Validate(t *testing.T) {
	zero := decimal.Zero
	empty := ""
	kind := shared.TransactionKindExpense

	assert.ErrorIs(t, Patch{}.Validate(), ErrNothingToUpdate)
	assert.ErrorIs(t, Patch{Amount: &zero}.Validate(), ErrInvalidAmount)
	assert.ErrorIs(t, Patch{Category: &empty}.Validate(), ErrEmptyCategory)
	assert.NoError(t, Patch{Kind: &kind}.Validate())
}

func TestErrTransactionNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := error(ErrTransactionNotFound{ID: id})

	assert.True(t, errors.Is(err, ErrTransactionNotFound{}))
	assert.True(t, errors.Is(err, ErrTransactionNotFound{ID: id}))
	assert.False(t, errors.Is(err, ErrTransactionNotFound{ID: uuid.New()}))
}
