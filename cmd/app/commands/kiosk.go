package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	authUseCase "github.com/nailbliss/stampcard/internal/auth/usecase"
	apperrors "github.com/nailbliss/stampcard/internal/errors"
	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
	redemptionDomain "github.com/nailbliss/stampcard/internal/redemption/domain"
	redemptionUseCase "github.com/nailbliss/stampcard/internal/redemption/usecase"
	"github.com/nailbliss/stampcard/internal/scanner"
)

// KioskIO is the operator's side of the kiosk. Answers may be the same reader a keyboard
// scanner types into; the device only reads while waiting for a scan.
type KioskIO struct {
	Answers *bufio.Reader
	Writer  io.Writer
}

// RunKiosk scans customer codes as the staff member behind sessionToken. Every accepted
// scan shows the customer and asks the operator whether to add a stamp. Rejected scans are
// reported and scanning continues. Returns when ctx ends or the scanner has no more input.
func RunKiosk(
	ctx context.Context,
	identityUseCase authUseCase.IdentityUseCase,
	redemptions redemptionUseCase.RedemptionUseCase,
	manager *scanner.Manager,
	logger *slog.Logger,
	kio KioskIO,
	sessionToken string,
) error {
	staff, err := identityUseCase.Resolve(ctx, sessionToken)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}
	if !staff.Can(authDomain.ScanCapability) {
		return redemptionDomain.ErrStaffOnly
	}

	scanSession, err := manager.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to open scanner: %w", err)
	}
	defer func() {
		if err := scanSession.Close(); err != nil {
			logger.Error("failed to close scanner", slog.Any("error", err))
		}
	}()

	// Answers are read one line per prompt, so the scanner sharing the reader never loses a
	// scan to them. A read still blocked when the kiosk stops finishes in the background.
	answers, err := scanner.NewReaderDevice(scanner.DeviceInfo{ID: "operator", Label: "operator"}, kio.Answers).
		Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open operator input: %w", err)
	}
	defer func() { _ = answers.Close() }()

	k := &kiosk{staff: staff, redemptions: redemptions, logger: logger, writer: kio.Writer, answers: answers}
	k.printf("Scanning as %s on %s. Press Ctrl-C to stop.\n", staff.Email, scanSession.Device().Label)

	return scanSession.Run(ctx, k.handle)
}

type kiosk struct {
	staff       *authDomain.Identity
	redemptions redemptionUseCase.RedemptionUseCase
	logger      *slog.Logger
	writer      io.Writer
	answers     scanner.Stream
}

func (k *kiosk) handle(ctx context.Context, raw string) error {
	attempt, err := k.redemptions.Scan(ctx, k.staff, raw)
	if err != nil {
		k.logger.Debug("scan rejected", slog.Any("error", err))
		k.printf("%s\n", operatorMessage(err))
		return nil
	}

	k.printf("%s\n", describeSnapshot(attempt.Snapshot))

	for {
		confirmed, err := k.ask(ctx, "Add a stamp? [y/N]: ")
		if err != nil {
			// Interrupted at the prompt; the attempt must not outlive the kiosk.
			_, _ = k.redemptions.Cancel(context.WithoutCancel(ctx), k.staff)
			return err
		}
		if !confirmed {
			if _, err := k.redemptions.Cancel(ctx, k.staff); err != nil {
				k.printf("%s\n", operatorMessage(err))
			}
			k.printf("Cancelled.\n")
			return nil
		}

		result, err := k.redemptions.Confirm(ctx, k.staff)
		if err == nil {
			k.printf("%s\n", describeCredit(result))
			return nil
		}
		k.printf("%s\n", operatorMessage(err))
		if _, err := k.redemptions.Current(ctx, k.staff); err != nil {
			return nil
		}
	}
}

// ask reads one answer line. A closed input counts as no. An answer typed after ask was
// interrupted is returned by the next ask.
func (k *kiosk) ask(ctx context.Context, prompt string) (bool, error) {
	k.printf("%s", prompt)

	line, err := k.answers.Next(ctx)
	if err != nil && ctx.Err() != nil {
		return false, ctx.Err()
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (k *kiosk) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(k.writer, format, args...)
}

func describeSnapshot(snapshot *loyaltyDomain.CustomerSnapshot) string {
	if snapshot == nil {
		return "Customer"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", snapshot.Profile.Initials(), snapshot.Profile.DisplayName())
	if snapshot.Card != nil {
		fmt.Fprintf(&b, "\nStamps: %d/%d", snapshot.Card.Points, loyaltyDomain.RewardThreshold)
		if snapshot.Card.RewardReady() {
			b.WriteString(" (reward ready)")
		}
	}
	return b.String()
}

func describeCredit(result *redemptionDomain.Result) string {
	if result.Snapshot == nil || result.Snapshot.Card == nil {
		return "Stamp added."
	}
	card := result.Snapshot.Card
	if card.RewardReady() {
		return fmt.Sprintf("Stamp added. %d/%d, reward ready!", card.Points, loyaltyDomain.RewardThreshold)
	}
	return fmt.Sprintf("Stamp added. %d/%d", card.Points, loyaltyDomain.RewardThreshold)
}

// operatorMessage is the user-facing text of err.
func operatorMessage(err error) string {
	var coded *apperrors.Coded
	if apperrors.As(err, &coded) {
		return coded.Message
	}
	return err.Error()
}
