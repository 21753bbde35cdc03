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

// AdminHandler handles privileged account administration requests.
type AdminHandler struct {
	adminService portssvc.AdminSvcFacade
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin portssvc.AdminSvcFacade) *AdminHandler {
	return &AdminHandler{adminService: admin}
}

// registerAdminRoutes sets up the admin console routes. Role enforcement
// happens in the service, keyed on the acting account.
func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewAdminHandler(services.Admin)

	admin := rg.Group("/admin")
	{
		admin.GET("/accounts", h.ListAccounts)
		admin.POST("/accounts/:accountID/inject", h.InjectFunds)
		admin.POST("/accounts/:accountID/ban", h.SetBanned)
		admin.POST("/accounts/:accountID/freeze", h.SetCardFrozen)
		admin.POST("/accounts/:accountID/verify", h.VerifyKYC)
	}
}

// actor extracts the acting account ID or writes a 401.
func (h *AdminHandler) actor(c *gin.Context) (string, bool) {
	actorID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
	}
	return actorID, ok
}

// respondAdminError maps admin service errors onto HTTP codes.
func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin role required"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
	case errors.Is(err, apperrors.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger := middleware.GetLoggerFromContext(c)
		logger.Error("Admin action failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Admin action failed"})
	}
}

// ListAccounts godoc
// @Summary List accounts
// @Description Retrieves all accounts for the admin console, oldest first.
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset into the account list"
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/accounts [get]
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	accounts, err := h.adminService.ListAccounts(c.Request.Context(), actorID, limit, offset)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// InjectFunds godoc
// @Summary Inject funds
// @Description Credits an account from the treasury and records a ledger entry.
// @Tags admin
// @Accept json
// @Produce json
// @Param accountID path string true "Target account ID"
// @Param inject body dto.InjectFundsRequest true "Amount and note"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/accounts/{accountID}/inject [post]
func (h *AdminHandler) InjectFunds(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.InjectFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	account, err := h.adminService.InjectFunds(c.Request.Context(), actorID, c.Param("accountID"), req)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// SetBanned godoc
// @Summary Ban or unban an account
// @Description Sets the banned flag; banned accounts cannot send transfers but can still receive.
// @Tags admin
// @Accept json
// @Produce json
// @Param accountID path string true "Target account ID"
// @Param ban body dto.SetBannedRequest true "Ban toggle"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/accounts/{accountID}/ban [post]
func (h *AdminHandler) SetBanned(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.SetBannedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.adminService.SetBanned(c.Request.Context(), actorID, c.Param("accountID"), *req.Banned); err != nil {
		respondAdminError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetCardFrozen godoc
// @Summary Freeze or unfreeze any card
// @Description Toggles the target account's card freeze state.
// @Tags admin
// @Accept json
// @Produce json
// @Param accountID path string true "Target account ID"
// @Param freeze body dto.SetFrozenRequest true "Freeze toggle"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/accounts/{accountID}/freeze [post]
func (h *AdminHandler) SetCardFrozen(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.SetFrozenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.adminService.SetCardFrozen(c.Request.Context(), actorID, c.Param("accountID"), *req.Frozen); err != nil {
		respondAdminError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// VerifyKYC godoc
// @Summary Verify an account's identity
// @Description Marks KYC as verified, unlocking outgoing transfers.
// @Tags admin
// @Produce json
// @Param accountID path string true "Target account ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/accounts/{accountID}/verify [post]
func (h *AdminHandler) VerifyKYC(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.adminService.VerifyKYC(c.Request.Context(), actorID, c.Param("accountID")); err != nil {
		respondAdminError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
