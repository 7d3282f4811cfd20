// Package http exposes QR token issuance over REST and a websocket that keeps the shown token
// fresh.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	ws "github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	authHTTP "github.com/nailbliss/stampcard/internal/auth/http"
	"github.com/nailbliss/stampcard/internal/auth/session"
	"github.com/nailbliss/stampcard/internal/httputil"
	"github.com/nailbliss/stampcard/internal/qrtoken/http/dto"
	qrtokenUseCase "github.com/nailbliss/stampcard/internal/qrtoken/usecase"
)

const streamWriteTimeout = 5 * time.Second

// PresenterHandler serves the customer's QR token.
type PresenterHandler struct {
	presenter      qrtokenUseCase.PresenterUseCase
	originPatterns []string
	logger         *slog.Logger
}

// NewPresenterHandler creates a PresenterHandler. originPatterns lists the hosts allowed to
// open the stream from a browser; same-origin requests are always allowed.
func NewPresenterHandler(
	presenter qrtokenUseCase.PresenterUseCase,
	originPatterns []string,
	logger *slog.Logger,
) *PresenterHandler {
	return &PresenterHandler{
		presenter:      presenter,
		originPatterns: originPatterns,
		logger:         logger,
	}
}

// IssueHandler returns a freshly issued token.
// GET /v1/card/qr - Requires the present capability.
func (h *PresenterHandler) IssueHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrNotSignedIn, h.logger)
		return
	}

	frame, err := h.presenter.Issue(c.Request.Context(), identity)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.MapFrameToResponse(frame))
}

// StreamHandler upgrades to a websocket and pushes a token message on every refresh and a
// countdown message every second until the client disconnects.
// GET /v1/card/qr/stream - Requires the present capability.
func (h *PresenterHandler) StreamHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrNotSignedIn, h.logger)
		return
	}

	conn, err := ws.Accept(c.Writer, c.Request, &ws.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Warn("qr stream: accept failed", slog.Any("error", err))
		return
	}

	ctx := conn.CloseRead(c.Request.Context())

	identityContext := session.New()
	identityContext.SignIn(identity)

	err = h.presenter.Run(ctx, identityContext, &streamDisplay{conn: conn})
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		_ = conn.Close(ws.StatusNormalClosure, "")
	case ws.CloseStatus(err) != -1:
		// Client already closed the connection.
	default:
		h.logger.Warn("qr stream stopped",
			slog.String("user_id", identity.ID.String()),
			slog.Any("error", err))
		_ = conn.Close(ws.StatusInternalError, "presenter stopped")
	}
}

type streamDisplay struct {
	conn *ws.Conn
}

func (d *streamDisplay) ShowToken(ctx context.Context, frame *qrtokenUseCase.Frame) error {
	return d.write(ctx, dto.NewTokenMessage(frame))
}

func (d *streamDisplay) ShowCountdown(ctx context.Context, remaining time.Duration) error {
	return d.write(ctx, dto.NewCountdownMessage(remaining))
}

func (d *streamDisplay) write(ctx context.Context, msg dto.StreamMessage) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, d.conn, msg)
}
