package payment

import (
	"errors"
	"testing"

	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttempt(t *testing.T) {
	t.Run("StartsPending", func(t *testing.T) {
		a, err := NewAttempt("savings_1", 1000, shared.CarrierServiceMTN, "677550203", "Savings deposit")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, a.Status)
		assert.Empty(t, a.GatewayReference)
	})

	t.Run("RejectsZeroAmount", func(t *testing.T) {
		_, err := NewAttempt("savings_1", 0, shared.CarrierServiceMTN, "677550203", "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("RejectsShortPayer", func(t *testing.T) {
		_, err := NewAttempt("savings_1", 10, shared.CarrierServiceMTN, "67755", "")
		assert.ErrorIs(t, err, ErrInvalidPayer)
	})
}

func TestAttempt_Settle(t *testing.T) {
	a := &Attempt{Status: StatusPending}
	a.Settle("success", "pk_42", "ok")
	assert.Equal(t, StatusSuccess, a.Status)
	assert.Equal(t, "pk_42", a.GatewayReference)

	a.Settle("weird", "", "")
	assert.Equal(t, StatusFailed, a.Status)
	assert.Equal(t, "pk_42", a.GatewayReference)
}

func TestErrAttemptNotFound_Is(t *testing.T) {
	err := error(ErrAttemptNotFound{Ref: "pk_1"})
	assert.True(t, errors.Is(err, ErrAttemptNotFound{}))
	assert.False(t, errors.Is(err, ErrAttemptNotFound{Ref: "pk_2"}))
}
