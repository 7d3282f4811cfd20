package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/auth/session"
	authUseCase "github.com/nailbliss/stampcard/internal/auth/usecase"
	qrtokenUseCase "github.com/nailbliss/stampcard/internal/qrtoken/usecase"
)

const clearScreen = "\033[H\033[2J"

// RunPresent signs the session token in and shows a refreshing QR code until ctx ends.
func RunPresent(
	ctx context.Context,
	identityUseCase authUseCase.IdentityUseCase,
	presenter qrtokenUseCase.PresenterUseCase,
	logger *slog.Logger,
	writer io.Writer,
	sessionToken string,
) error {
	identity, err := identityUseCase.Resolve(ctx, sessionToken)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}
	if !identity.Can(authDomain.PresentCapability) {
		return authDomain.ErrCapabilityDenied
	}

	sess := session.New()
	sess.SignIn(identity)

	logger.Debug("presenting tokens", slog.String("customer_id", identity.ID.String()))

	if err := presenter.Run(ctx, sess, &terminalDisplay{writer: writer}); err != nil {
		return fmt.Errorf("presenter stopped: %w", err)
	}
	_, err = fmt.Fprintln(writer)
	return err
}

// terminalDisplay redraws the whole screen on each token and rewrites the countdown line
// in place.
type terminalDisplay struct {
	writer io.Writer
}

func (d *terminalDisplay) ShowToken(ctx context.Context, frame *qrtokenUseCase.Frame) error {
	_, err := fmt.Fprintf(
		d.writer,
		"%s%s\nShow this code at the counter. Press Ctrl-C to stop.\n",
		clearScreen,
		frame.Image.Source,
	)
	return err
}

func (d *terminalDisplay) ShowCountdown(ctx context.Context, remaining time.Duration) error {
	_, err := fmt.Fprintf(d.writer, "\rNew code in %2ds ", int(remaining.Round(time.Second)/time.Second))
	return err
}
