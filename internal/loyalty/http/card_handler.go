// Package http serves the signed-in customer's stamp card.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	authHTTP "github.com/nailbliss/stampcard/internal/auth/http"
	"github.com/nailbliss/stampcard/internal/httputil"
	"github.com/nailbliss/stampcard/internal/loyalty/http/dto"
	loyaltyUseCase "github.com/nailbliss/stampcard/internal/loyalty/usecase"
)

// CardHandler handles stamp card requests.
type CardHandler struct {
	cardUseCase loyaltyUseCase.CardUseCase
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardUseCase loyaltyUseCase.CardUseCase, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		cardUseCase: cardUseCase,
		logger:      logger,
	}
}

// GetHandler returns the caller's own profile and card.
// GET /v1/card - Requires the view_card capability.
func (h *CardHandler) GetHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrNotSignedIn, h.logger)
		return
	}

	snapshot, err := h.cardUseCase.Snapshot(c.Request.Context(), identity.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSnapshotToResponse(snapshot))
}
