package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spendwise-tracker/internal/api_gateway/middleware"
	"github.com/spendwise-tracker/internal/api_gateway/service"
	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
)

// SavingsHandler handles savings deposits and goals
type SavingsHandler struct {
	savingsService service.SavingsService
	heartbeat      time.Duration
	logger         *slog.Logger
}

func NewSavingsHandler(logger *slog.Logger, savingsService service.SavingsService) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
		heartbeat:      streamHeartbeat,
		logger:         logger,
	}
}

// Deposit collects through the payment gateway and returns the stored
// record with the gateway outcome, failed collections included
func (h *SavingsHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.savingsService.Deposit(c.Request.Context(), middleware.GetOwnerID(c), service.DepositInput{
		Amount:      req.Amount,
		Service:     shared.CarrierService(strings.ToUpper(strings.TrimSpace(req.Service))),
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	RespondCreated(c, result)
}

func (h *SavingsHandler) ListTransactions(c *gin.Context) {
	txs, err := h.savingsService.ListTransactions(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	RespondWithMeta(c, http.StatusOK, txs, &MetaInfo{TotalItems: len(txs)})
}

func (h *SavingsHandler) Summary(c *gin.Context) {
	summary, err := h.savingsService.Summary(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, summary)
}

// Stream pushes a "savings" event after every change to the owner's
// savings or goals.
func (h *SavingsHandler) Stream(c *gin.Context) {
	updates, err := h.savingsService.Watch(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	streamEvents(c, "savings", updates, h.heartbeat)
}

func (h *SavingsHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	goal, err := h.savingsService.CreateGoal(c.Request.Context(), middleware.GetOwnerID(c), service.GoalInput{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		Category:     savings.GoalCategory(req.Category),
		Description:  req.Description,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	RespondCreated(c, goal)
}

// ListGoals returns every goal with its progress percentage
func (h *SavingsHandler) ListGoals(c *gin.Context) {
	goals, err := h.savingsService.ListGoals(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	RespondWithMeta(c, http.StatusOK, goals, &MetaInfo{TotalItems: len(goals)})
}

func (h *SavingsHandler) UpdateGoal(c *gin.Context) {
	id, ok := parseID(c, "Invalid goal ID")
	if !ok {
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	patch := savings.GoalPatch{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
		Description:   req.Description,
		Active:        req.IsActive,
	}
	if req.Category != nil {
		category := savings.GoalCategory(*req.Category)
		patch.Category = &category
	}

	goal, err := h.savingsService.UpdateGoal(c.Request.Context(), middleware.GetOwnerID(c), id, patch)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, goal)
}

func (h *SavingsHandler) DeleteGoal(c *gin.Context) {
	id, ok := parseID(c, "Invalid goal ID")
	if !ok {
		return
	}
	if err := h.savingsService.DeleteGoal(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	RespondNoContent(c)
}

// Contribute answers 409 when the goal is inactive or the target would be exceeded
func (h *SavingsHandler) Contribute(c *gin.Context) {
	id, ok := parseID(c, "Invalid goal ID")
	if !ok {
		return
	}

	var req ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	goal, err := h.savingsService.Contribute(c.Request.Context(), middleware.GetOwnerID(c), id, req.Amount)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, goal)
}
