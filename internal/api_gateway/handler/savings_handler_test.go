package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-tracker/internal/api_gateway/middleware"
	"github.com/spendwise-tracker/internal/api_gateway/service"
	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/gateway"
	"github.com/spendwise-tracker/internal/report"
)

func newTestGoal(t *testing.T) *savings.Goal {
	t.Helper()
	goal, err := savings.NewGoal(testOwner, "Laptop", decimal.NewFromInt(300), shared.NewDate(2030, time.January, 1), savings.GoalCategoryElectronics, "")
	require.NoError(t, err)
	return goal
}

func TestSavingsHandler_Deposit(t *testing.T) {
	t.Run("RecordsFailedCollection", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.POST("/savings/deposits", handler.Deposit)

		stx, err := savings.NewTransaction(testOwner, shared.SavingsKindDeposit, decimal.NewFromInt(500), shared.CarrierServiceMTN, "677123456", shared.SavingsStatusFailed, "", "Savings deposit")
		require.NoError(t, err)

		mockService.On("Deposit", mock.Anything, testOwner, mock.MatchedBy(func(in service.DepositInput) bool {
			return in.Amount.Equal(decimal.NewFromInt(500)) &&
				in.Service == shared.CarrierServiceMTN &&
				in.PhoneNumber == "677123456"
		})).Return(&service.DepositResult{
			Payment:     gateway.Result{Success: false, Status: gateway.StatusFailed, Message: "Payment failed"},
			Transaction: stx,
		}, nil).Once()

		rr := doRequest(router, http.MethodPost, "/savings/deposits",
			`{"amount":"500","service":"mtn","phone_number":"677123456"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		data := decodeEnvelope(t, rr)["data"].(map[string]interface{})
		assert.Equal(t, false, data["payment"].(map[string]interface{})["success"])
		assert.Equal(t, "failed", data["transaction"].(map[string]interface{})["status"])
		mockService.AssertExpectations(t)
	})

	t.Run("MissingPhoneNumber", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.POST("/savings/deposits", handler.Deposit)

		rr := doRequest(router, http.MethodPost, "/savings/deposits", `{"amount":"500","service":"MTN"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidPhoneNumber", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.POST("/savings/deposits", handler.Deposit)

		mockService.On("Deposit", mock.Anything, testOwner, mock.Anything).
			Return(nil, service.ValidationError{Err: errors.New("invalid phone number for MTN")}).Once()

		rr := doRequest(router, http.MethodPost, "/savings/deposits",
			`{"amount":"500","service":"MTN","phone_number":"12"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid phone number for MTN")
	})
}

func TestSavingsHandler_ListAndSummary(t *testing.T) {
	t.Run("ListTransactions", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.GET("/savings/transactions", handler.ListTransactions)

		mockService.On("ListTransactions", mock.Anything, testOwner).Return([]*savings.Transaction{{}, {}}, nil).Once()

		rr := doRequest(router, http.MethodGet, "/savings/transactions", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		meta := decodeEnvelope(t, rr)["meta"].(map[string]interface{})
		assert.Equal(t, float64(2), meta["total_items"])
	})

	t.Run("Summary", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.GET("/savings/summary", handler.Summary)

		mockService.On("Summary", mock.Anything, testOwner).Return(&report.SavingsSummary{
			RecentTransactions: []*savings.Transaction{},
			ActiveGoals:        []*savings.Goal{},
		}, nil).Once()

		rr := doRequest(router, http.MethodGet, "/savings/summary", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		data := decodeEnvelope(t, rr)["data"].(map[string]interface{})
		assert.Contains(t, data, "stats")
		assert.Contains(t, data, "active_goals")
	})

	t.Run("SummaryStoreFailure", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.GET("/savings/summary", handler.Summary)

		mockService.On("Summary", mock.Anything, testOwner).Return(nil, errors.New("timeout")).Once()

		rr := doRequest(router, http.MethodGet, "/savings/summary", "")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestSavingsHandler_Goals(t *testing.T) {
	t.Run("CreateGoal", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.POST("/savings/goals", handler.CreateGoal)

		goal := newTestGoal(t)
		mockService.On("CreateGoal", mock.Anything, testOwner, mock.MatchedBy(func(in service.GoalInput) bool {
			return in.Name == "Laptop" && in.TargetAmount.Equal(decimal.NewFromInt(300)) &&
				in.Deadline.String() == "2030-01-01" && in.Category == savings.GoalCategoryElectronics
		})).Return(goal, nil).Once()

		rr := doRequest(router, http.MethodPost, "/savings/goals",
			`{"name":"Laptop","target_amount":300,"deadline":"2030-01-01","category":"Electronics"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ListGoalsWithProgress", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.GET("/savings/goals", handler.ListGoals)

		goal := newTestGoal(t)
		mockService.On("ListGoals", mock.Anything, testOwner).Return([]service.GoalView{
			{Goal: goal, Progress: decimal.RequireFromString("33.33"), Remaining: decimal.NewFromInt(200)},
		}, nil).Once()

		rr := doRequest(router, http.MethodGet, "/savings/goals", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		items := decodeEnvelope(t, rr)["data"].([]interface{})
		require.Len(t, items, 1)
		item := items[0].(map[string]interface{})
		assert.Equal(t, "Laptop", item["name"])
		assert.Equal(t, "33.33", item["progress"])
		assert.Equal(t, "200", item["remaining"])
	})

	t.Run("UpdateGoalBuildsPatch", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.PATCH("/savings/goals/:id", handler.UpdateGoal)

		goal := newTestGoal(t)
		mockService.On("UpdateGoal", mock.Anything, testOwner, goal.ID, mock.MatchedBy(func(p savings.GoalPatch) bool {
			return p.Active != nil && !*p.Active && p.Category != nil && *p.Category == savings.GoalCategoryTravel && p.Name == nil
		})).Return(goal, nil).Once()

		rr := doRequest(router, http.MethodPatch, "/savings/goals/"+goal.ID.String(), `{"is_active":false,"category":"Travel"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("DeleteGoalNotFound", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.DELETE("/savings/goals/:id", handler.DeleteGoal)

		id := uuid.New()
		mockService.On("DeleteGoal", mock.Anything, testOwner, id).Return(savings.ErrGoalNotFound{ID: id}).Once()

		rr := doRequest(router, http.MethodDelete, "/savings/goals/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Goal not found", decodeEnvelope(t, rr)["error"].(map[string]interface{})["message"])
	})
}

func TestSavingsHandler_Contribute(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "Accepted", wantStatus: http.StatusOK},
		{name: "ExceedsTarget", serviceErr: savings.ErrExceedsTarget, wantStatus: http.StatusConflict},
		{name: "InactiveGoal", serviceErr: savings.ErrInactiveGoal, wantStatus: http.StatusConflict},
		{name: "NotPositive", serviceErr: service.ValidationError{Err: savings.ErrInvalidContributed}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockSavingsService)
			handler := NewSavingsHandler(testLogger(), mockService)
			router := newOwnerRouter()
			router.POST("/savings/goals/:id/contributions", handler.Contribute)

			fifty := mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(50)) })
			if tt.serviceErr != nil {
				mockService.On("Contribute", mock.Anything, testOwner, id, fifty).Return(nil, tt.serviceErr).Once()
			} else {
				mockService.On("Contribute", mock.Anything, testOwner, id, fifty).Return(newTestGoal(t), nil).Once()
			}

			rr := doRequest(router, http.MethodPost, "/savings/goals/"+id.String()+"/contributions", `{"amount":50}`)

			assert.Equal(t, tt.wantStatus, rr.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestSavingsHandler_Stream(t *testing.T) {
	t.Run("WritesEventsUntilUpdatesClose", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.GET("/savings/stream", handler.Stream)

		goal := newTestGoal(t)
		updates := make(chan service.LiveSavings, 2)
		updates <- service.LiveSavings{Loading: true}
		updates <- service.LiveSavings{
			Goals: []service.GoalView{{Goal: goal, Progress: decimal.Zero, Remaining: goal.TargetAmount}},
			Summary: &report.SavingsSummary{
				Stats: report.SavingsStats{TotalSavings: decimal.NewFromInt(1200)},
			},
		}
		close(updates)

		mockService.On("Watch", mock.Anything, testOwner).Return((<-chan service.LiveSavings)(updates), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/savings/stream", nil)
		req.Header.Set(middleware.OwnerIDHeader, testOwner)
		rr := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
		assert.Equal(t, 2, strings.Count(rr.Body.String(), "event:savings"))
		assert.Contains(t, rr.Body.String(), `"total_savings":"1200"`)
	})

	t.Run("WatchFailure", func(t *testing.T) {
		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(testLogger(), mockService)
		router := newOwnerRouter()
		router.GET("/savings/stream", handler.Stream)

		mockService.On("Watch", mock.Anything, testOwner).Return(nil, errors.New("change streams unavailable")).Once()

		rr := doRequest(router, http.MethodGet, "/savings/stream", "")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
