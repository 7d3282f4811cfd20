// Package http serves the staff-side redemption flow.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	authHTTP "github.com/nailbliss/stampcard/internal/auth/http"
	"github.com/nailbliss/stampcard/internal/httputil"
	"github.com/nailbliss/stampcard/internal/redemption/http/dto"
	redemptionUseCase "github.com/nailbliss/stampcard/internal/redemption/usecase"
	customValidation "github.com/nailbliss/stampcard/internal/validation"
)

// RedemptionHandler handles scan, confirm and cancel requests from staff.
type RedemptionHandler struct {
	redemptionUseCase redemptionUseCase.RedemptionUseCase
	logger            *slog.Logger
}

// NewRedemptionHandler creates a new RedemptionHandler.
func NewRedemptionHandler(
	redemptionUseCase redemptionUseCase.RedemptionUseCase,
	logger *slog.Logger,
) *RedemptionHandler {
	return &RedemptionHandler{
		redemptionUseCase: redemptionUseCase,
		logger:            logger,
	}
}

// ScanHandler starts an attempt from a scanned code.
// POST /v1/redemptions/scan - Requires the scan capability.
// Returns 201 Created with the attempt awaiting confirmation.
func (h *RedemptionHandler) ScanHandler(c *gin.Context) {
	staff, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrNotSignedIn, h.logger)
		return
	}

	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	attempt, err := h.redemptionUseCase.Scan(c.Request.Context(), staff, req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAttemptToResponse(attempt))
}

// CurrentHandler returns the caller's pending attempt.
// GET /v1/redemptions/current - Requires the scan capability.
func (h *RedemptionHandler) CurrentHandler(c *gin.Context) {
	staff, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrNotSignedIn, h.logger)
		return
	}

	attempt, err := h.redemptionUseCase.Current(c.Request.Context(), staff)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAttemptToResponse(attempt))
}

// ConfirmHandler credits the pending attempt's customer.
// POST /v1/redemptions/current/confirm - Requires the credit capability.
func (h *RedemptionHandler) ConfirmHandler(c *gin.Context) {
	staff, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrNotSignedIn, h.logger)
		return
	}

	result, err := h.redemptionUseCase.Confirm(c.Request.Context(), staff)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResultToResponse(result))
}

// CancelHandler drops the pending attempt without crediting.
// POST /v1/redemptions/current/cancel - Requires the scan capability.
func (h *RedemptionHandler) CancelHandler(c *gin.Context) {
	staff, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrNotSignedIn, h.logger)
		return
	}

	attempt, err := h.redemptionUseCase.Cancel(c.Request.Context(), staff)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAttemptToResponse(attempt))
}
