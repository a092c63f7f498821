package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spendwise-tracker/internal/api_gateway/middleware"
	"github.com/spendwise-tracker/internal/api_gateway/service"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/domain/transaction"
	"github.com/spendwise-tracker/internal/report"
)

// TransactionHandler handles HTTP requests for income and expense entries
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Create records a new entry for the authenticated owner
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tx, err := h.transactionService.Create(c.Request.Context(), middleware.GetOwnerID(c), service.CreateTransactionInput{
		Kind:        shared.TransactionKind(strings.ToLower(strings.TrimSpace(req.Type))),
		Amount:      req.Amount,
		Currency:    shared.Currency(strings.ToUpper(strings.TrimSpace(req.Currency))),
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	RespondCreated(c, tx)
}

// List returns the filtered entries with every category in use
func (h *TransactionHandler) List(c *gin.Context) {
	var params TransactionFilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid filter parameters")
		return
	}

	dateRange, ok := report.ParseDateRange(params.Range)
	if !ok {
		RespondBadRequest(c, "Invalid range. Must be one of: all, today, week, month")
		return
	}

	list, err := h.transactionService.List(c.Request.Context(), middleware.GetOwnerID(c), report.Criteria{
		Kind:      strings.ToLower(params.Type),
		Category:  params.Category,
		DateRange: dateRange,
		Search:    params.Search,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	RespondWithMeta(c, http.StatusOK, list.Transactions, &MetaInfo{
		TotalItems: list.Total,
		Categories: list.Categories,
	})
}

// Update applies a partial update; 404 when the entry is not the owner's
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "Invalid transaction ID")
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	patch := transaction.Patch{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}
	if req.Type != nil {
		kind := shared.TransactionKind(strings.ToLower(strings.TrimSpace(*req.Type)))
		patch.Kind = &kind
	}
	if req.Currency != nil {
		currency := shared.Currency(strings.ToUpper(strings.TrimSpace(*req.Currency)))
		patch.Currency = &currency
	}

	tx, err := h.transactionService.Update(c.Request.Context(), middleware.GetOwnerID(c), id, patch)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	RespondOK(c, tx)
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "Invalid transaction ID")
	if !ok {
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	RespondNoContent(c)
}

// parseID reads the :id path parameter and answers 400 when it is malformed
func parseID(c *gin.Context, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}
