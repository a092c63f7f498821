package shared

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	t.Run("TransactionKind", func(t *testing.T) {
		k, err := ParseTransactionKind(" Income ")
		require.NoError(t, err)
		assert.Equal(t, TransactionKindIncome, k)

		_, err = ParseTransactionKind("transfer")
		assert.ErrorIs(t, err, ErrInvalidTransactionKind)
	})

	t.Run("SavingsKind", func(t *testing.T) {
		k, err := ParseSavingsKind("withdrawal")
		require.NoError(t, err)
		assert.Equal(t, SavingsKindWithdrawal, k)

		_, err = ParseSavingsKind("")
		assert.ErrorIs(t, err, ErrInvalidSavingsKind)
	})

	t.Run("SavingsStatus", func(t *testing.T) {
		s, err := ParseSavingsStatus("SUCCESS")
		require.NoError(t, err)
		assert.Equal(t, SavingsStatusSuccess, s)
		assert.True(t, s.Terminal())
		assert.False(t, SavingsStatusPending.Terminal())

		_, err = ParseSavingsStatus("refunded")
		assert.ErrorIs(t, err, ErrInvalidSavingsStatus)
	})

	t.Run("CarrierService", func(t *testing.T) {
		c, err := ParseCarrierService("orange")
		require.NoError(t, err)
		assert.Equal(t, CarrierServiceOrange, c)

		_, err = ParseCarrierService("AIRTEL")
		assert.ErrorIs(t, err, ErrInvalidService)
	})

	t.Run("Currency", func(t *testing.T) {
		c, err := ParseCurrency("xaf")
		require.NoError(t, err)
		assert.Equal(t, CurrencyXAF, c)

		_, err = ParseCurrency("GBP")
		assert.ErrorIs(t, err, ErrInvalidCurrency)
	})
}

func TestDate(t *testing.T) {
	t.Run("JSONUsesCalendarLayout", func(t *testing.T) {
		d := NewDate(2024, time.January, 15)
		b, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2024-01-15"`, string(b))

		var decoded Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-03-01"`), &decoded))
		assert.True(t, decoded.Equal(NewDate(2024, time.March, 1)))
	})

	t.Run("RejectsTimestamps", func(t *testing.T) {
		var decoded Date
		err := json.Unmarshal([]byte(`"2024-03-01T10:00:00Z"`), &decoded)
		assert.Error(t, err)
	})

	t.Run("DateOfDropsTimeOfDay", func(t *testing.T) {
		loc := time.FixedZone("WAT", 3600)
		d := DateOf(time.Date(2024, time.May, 4, 23, 30, 0, 0, loc))
		assert.Equal(t, "2024-05-04", d.String())
		assert.Equal(t, "2024-05-05", d.AddDays(1).String())
	})
}
