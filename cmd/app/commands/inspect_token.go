package commands

import (
	"fmt"
	"io"
	"time"

	apperrors "github.com/nailbliss/stampcard/internal/errors"
	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
	qrtokenService "github.com/nailbliss/stampcard/internal/qrtoken/service"
)

// Token states reported by inspect-token.
const (
	tokenStatusFresh   = "fresh"
	tokenStatusExpired = "expired"
)

// RunInspectToken decodes raw and reports whether a scan at now would accept it. A token
// that does not decode is an error; an expired one is not.
func RunInspectToken(
	tokens qrtokenService.TokenService,
	writer io.Writer,
	raw string,
	format string,
	now time.Time,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	token, err := tokens.Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to decode token: %w", err)
	}

	status := tokenStatusFresh
	if err := tokens.Policy().Check(token, now); err != nil {
		if !apperrors.Is(err, qrtokenDomain.ErrExpiredToken) {
			return err
		}
		status = tokenStatusExpired
	}
	age := token.Age(now)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"customer_id": token.CustomerID,
			"issued_at":   token.IssuedAt,
			"age_ms":      age.Milliseconds(),
			"status":      status,
		})
	}

	_, err = fmt.Fprintf(
		writer,
		"Customer: %s\nIssued at: %s\nAge: %s\nStatus: %s\n",
		token.CustomerID,
		token.IssuedAt.Format(time.RFC3339Nano),
		age,
		status,
	)
	return err
}
