package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/changefeed"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/internal/dto"
	"github.com/paywave/paywave_backend/internal/middleware"
)

// AccountHandler handles owner self-service requests.
type AccountHandler struct {
	accountService portssvc.AccountSvcFacade
	feed           changefeed.Feed
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts portssvc.AccountSvcFacade, feed changefeed.Feed) *AccountHandler {
	return &AccountHandler{accountService: accounts, feed: feed}
}

// registerAccountRoutes sets up the routes for the authenticated owner's
// own account.
func registerAccountRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, feed changefeed.Feed) {
	h := NewAccountHandler(services.Account, feed)

	accounts := rg.Group("/accounts/me")
	{
		accounts.GET("", h.GetMyAccount)
		accounts.POST("/card/freeze", h.FreezeCard)
		accounts.GET("/feed", h.StreamFeed)
	}
}

// GetMyAccount godoc
// @Summary Get own account
// @Description Retrieves the authenticated account, including card and balance.
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/me [get]
func (h *AccountHandler) GetMyAccount(c *gin.Context) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger := middleware.GetLoggerFromContext(c)
		logger.Error("Failed to load account", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// FreezeCard godoc
// @Summary Freeze or unfreeze own card
// @Description Toggles the authenticated account's card freeze state.
// @Tags accounts
// @Accept json
// @Produce json
// @Param freeze body dto.FreezeCardRequest true "Freeze toggle"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /accounts/me/card/freeze [post]
func (h *AccountHandler) FreezeCard(c *gin.Context) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.FreezeCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	account, err := h.accountService.SetCardFrozen(c.Request.Context(), accountID, *req.Frozen)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger := middleware.GetLoggerFromContext(c)
		logger.Error("Failed to update card status", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update card status"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// StreamFeed godoc
// @Summary Stream account snapshots
// @Description Server-sent event stream of authoritative account snapshots, one event per feed-visible write. Clients deduplicate by revision.
// @Tags accounts
// @Produce text/event-stream
// @Success 200 {object} domain.AccountSnapshot
// @Failure 401 {object} ErrorResponse
// @Router /accounts/me/feed [get]
func (h *AccountHandler) StreamFeed(c *gin.Context) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}
	logger := middleware.GetLoggerFromContext(c)

	sub, err := h.feed.Subscribe(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to subscribe to account feed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to open feed"})
		return
	}
	defer sub.Close()

	// Emit the current state first so a reconnecting client resyncs
	// without waiting for the next write.
	var lastRevision int64
	if account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID); err == nil {
		snapshot := account.Snapshot()
		lastRevision = snapshot.Revision
		c.SSEvent("snapshot", snapshot)
		c.Writer.Flush()
	}

	// Two near-simultaneous commits can arrive out of revision order on
	// the feed; only forward snapshots newer than the last one sent.
	c.Stream(func(w io.Writer) bool {
		for {
			select {
			case snapshot, open := <-sub.Snapshots():
				if !open {
					return false
				}
				if snapshot.Revision <= lastRevision {
					continue
				}
				lastRevision = snapshot.Revision
				c.SSEvent("snapshot", snapshot)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		}
	})
}
