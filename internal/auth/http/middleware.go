package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	authUseCase "github.com/nailbliss/stampcard/internal/auth/usecase"
	"github.com/nailbliss/stampcard/internal/httputil"
)

const bearerPrefix = "bearer "

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// AuthenticationMiddleware resolves the bearer session token into an identity and stores it
// in the request context. Browsers cannot set headers on websocket upgrades, so those
// requests may pass the token in the access_token query parameter instead.
func AuthenticationMiddleware(identityUseCase authUseCase.IdentityUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok && c.IsWebsocket() {
			rawToken = c.Query("access_token")
			ok = rawToken != ""
		}
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, authDomain.ErrInvalidSession, logger)
			c.Abort()
			return
		}

		identity, err := identityUseCase.Resolve(c.Request.Context(), rawToken)
		if err != nil {
			logger.Debug("authentication failed", slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// AuthorizationMiddleware rejects identities whose role lacks capability. It must run after
// AuthenticationMiddleware.
func AuthorizationMiddleware(capability authDomain.Capability, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, authDomain.ErrNotSignedIn, logger)
			c.Abort()
			return
		}

		if !identity.Can(capability) {
			logger.Debug("authorization failed",
				slog.String("user_id", identity.ID.String()),
				slog.String("role", string(identity.Role)),
				slog.String("capability", string(capability)))
			httputil.HandleErrorGin(c, authDomain.ErrCapabilityDenied, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
