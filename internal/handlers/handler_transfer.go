package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/domain"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/internal/dto"
	"github.com/paywave/paywave_backend/internal/middleware"
)

// TransferHandler handles transfer initiation and receiver resolution.
type TransferHandler struct {
	transferService portssvc.TransferSvcFacade
	resolverService portssvc.ResolverSvcFacade
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transfers portssvc.TransferSvcFacade, resolver portssvc.ResolverSvcFacade) *TransferHandler {
	return &TransferHandler{transferService: transfers, resolverService: resolver}
}

// registerTransferRoutes sets up the transfer and resolution routes.
func registerTransferRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewTransferHandler(services.Transfer, services.Resolver)

	rg.POST("/transfers", h.CreateTransfer)
	rg.GET("/resolve", h.Resolve)
}

// CreateTransfer godoc
// @Summary Send money
// @Description Atomically moves funds from the authenticated account to the receiver identified by UPI ID.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.CreateTransferRequest true "Transfer"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or receiver"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Sender banned, card frozen or verification pending"
// @Failure 404 {object} ErrorResponse "Receiver not found"
// @Failure 409 {object} ErrorResponse "Contention retries exhausted"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Failure 503 {object} ErrorResponse "Account store unavailable"
// @Router /transfers [post]
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.transferService.Transfer(c.Request.Context(), domain.TransferRequest{
		SenderAccountID: accountID,
		ReceiverUPI:     req.ReceiverUPI,
		Amount:          req.Amount,
		Note:            req.Note,
	})
	if err != nil {
		h.respondTransferError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransferResponse(result))
}

// respondTransferError maps the transfer error taxonomy onto HTTP codes.
func (h *TransferHandler) respondTransferError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidReceiver):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrReceiverNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrSenderBanned),
		errors.Is(err, apperrors.ErrCardFrozen),
		errors.Is(err, apperrors.ErrComplianceRequired):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Transfer could not complete due to contention, please retry"})
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Account store unavailable, please retry"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		logger := middleware.GetLoggerFromContext(c)
		logger.Error("Transfer failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Transfer failed"})
	}
}

// Resolve godoc
// @Summary Resolve a receiver
// @Description Looks up the display name behind a UPI ID so the sender can confirm before paying.
// @Tags transfers
// @Produce json
// @Param upi query string true "UPI ID to resolve"
// @Success 200 {object} dto.ResolveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /resolve [get]
func (h *TransferHandler) Resolve(c *gin.Context) {
	upiID := c.Query("upi")

	account, err := h.resolverService.Resolve(c.Request.Context(), upiID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidReceiver) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		if errors.Is(err, apperrors.ErrReceiverNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		logger := middleware.GetLoggerFromContext(c)
		logger.Error("Failed to resolve receiver", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve receiver"})
		return
	}

	c.JSON(http.StatusOK, dto.ResolveResponse{
		UPIID:       account.UPIID,
		DisplayName: account.DisplayName,
	})
}
