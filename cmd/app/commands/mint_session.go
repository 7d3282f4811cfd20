package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authUseCase "github.com/nailbliss/stampcard/internal/auth/usecase"
)

// RunMintSession issues a session token for an existing account. It stands in for the
// authentication provider during development.
func RunMintSession(
	ctx context.Context,
	identityUseCase authUseCase.IdentityUseCase,
	logger *slog.Logger,
	writer io.Writer,
	userID string,
	ttl time.Duration,
	format string,
) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive, got: %s", ttl)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	token, err := identityUseCase.MintSession(ctx, id, ttl)
	if err != nil {
		return fmt.Errorf("failed to mint session: %w", err)
	}

	logger.Info("session minted", slog.String("user_id", id.String()), slog.Duration("ttl", ttl))

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"user_id":            id.String(),
			"token":              token,
			"expires_in_seconds": int64(ttl.Seconds()),
		})
	}

	_, err = fmt.Fprintf(writer, "Session token for %s (expires in %s):\n%s\n", id, ttl, token)
	return err
}
