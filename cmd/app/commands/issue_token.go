package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nailbliss/stampcard/internal/qrtoken/render"
	qrtokenService "github.com/nailbliss/stampcard/internal/qrtoken/service"
)

// RunIssueToken encodes a token for customerID. When renderer is set the code is drawn
// below the text output.
func RunIssueToken(
	tokens qrtokenService.TokenService,
	renderer render.Renderer,
	logger *slog.Logger,
	writer io.Writer,
	customerID string,
	format string,
) error {
	id, err := uuid.Parse(customerID)
	if err != nil {
		return fmt.Errorf("invalid customer id: %w", err)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	raw, token, err := tokens.Issue(id.String())
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	expiresAt := tokens.Policy().ExpiresAt(token)

	logger.Debug("token issued", slog.String("customer_id", token.CustomerID))

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"customer_id": token.CustomerID,
			"token":       raw,
			"issued_at":   token.IssuedAt,
			"expires_at":  expiresAt,
		})
	}

	if _, err := fmt.Fprintf(writer, "Token: %s\nExpires at: %s\n", raw, expiresAt.Format("15:04:05.000")); err != nil {
		return err
	}
	if renderer == nil {
		return nil
	}
	image, err := renderer.Render(raw)
	if err != nil {
		return fmt.Errorf("failed to render token: %w", err)
	}
	_, err = fmt.Fprint(writer, image.Source)
	return err
}
