package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paywave/paywave_backend/internal/apperrors"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/internal/dto"
	"github.com/paywave/paywave_backend/internal/middleware"
)

// LedgerHandler handles transaction history requests.
type LedgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger portssvc.LedgerSvcFacade) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledger}
}

// registerLedgerRoutes sets up the transaction history routes.
func registerLedgerRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewLedgerHandler(services.Ledger)
	rg.GET("/transactions", h.ListTransactions)
	rg.GET("/transactions/:transferID", h.GetTransaction)
}

// ListTransactions godoc
// @Summary List own transactions
// @Description Retrieves the authenticated account's ledger entries, newest first, token-paginated.
// @Tags transactions
// @Produce json
// @Param limit query int false "Page size (default 25, max 100)"
// @Param nextToken query string false "Opaque pagination token from a previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transactions [get]
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	params := dto.ListEntriesParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), accountID, params)
	if err != nil {
		// A malformed nextToken is a client error carried as an
		// AppError; surface its code instead of a blanket 500.
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500 {
			c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
			return
		}
		logger := middleware.GetLoggerFromContext(c)
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTransaction godoc
// @Summary Get one transfer's ledger entries
// @Description Retrieves both sides of a transfer the authenticated account took part in.
// @Tags transactions
// @Produce json
// @Param transferID path string true "Transfer ID"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transactions/{transferID} [get]
func (h *LedgerHandler) GetTransaction(c *gin.Context) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.ledgerService.GetTransfer(c.Request.Context(), accountID, c.Param("transferID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transfer not found"})
			return
		}
		logger := middleware.GetLoggerFromContext(c)
		logger.Error("Failed to load transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load transfer"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
