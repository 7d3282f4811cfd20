package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/nailbliss/stampcard/cmd/app/commands"
	"github.com/nailbliss/stampcard/internal/app"
	"github.com/nailbliss/stampcard/internal/config"
	"github.com/nailbliss/stampcard/internal/qrtoken/render"
	qrtokenUseCase "github.com/nailbliss/stampcard/internal/qrtoken/usecase"
	"github.com/nailbliss/stampcard/internal/scanner"
)

func sessionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "session",
		Aliases:  []string{"s"},
		Required: true,
		Sources:  cli.EnvVars("STAMPCARD_SESSION"),
		Usage:    "Session token of the signed-in user",
	}
}

func getCounterCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "present",
			Usage: "Show the customer's QR code in the terminal, refreshed until Ctrl-C",
			Flags: []cli.Flag{
				sessionFlag(),
				&cli.BoolFlag{
					Name:  "inverse",
					Usage: "Invert colours for light-on-dark terminals",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer cancel()

				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(context.Background()) }()

				identityUseCase, err := container.IdentityUseCase()
				if err != nil {
					return err
				}
				tokens, err := container.TokenService()
				if err != nil {
					return err
				}
				presenter := qrtokenUseCase.NewPresenterUseCase(tokens, render.NewTerminalRenderer(cmd.Bool("inverse")))

				return commands.RunPresent(
					ctx,
					identityUseCase,
					presenter,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("session"),
				)
			},
		},
		{
			Name:  "kiosk",
			Usage: "Scan customer codes and credit stamps after operator confirmation",
			Flags: []cli.Flag{
				sessionFlag(),
				&cli.StringFlag{
					Name:    "input",
					Aliases: []string{"i"},
					Usage:   "File or named pipe fed by a barcode scanner (defaults to stdin)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer cancel()

				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(context.Background()) }()

				logger := container.Logger()
				identityUseCase, err := container.IdentityUseCase()
				if err != nil {
					return err
				}
				redemptions, err := container.RedemptionUseCase(ctx)
				if err != nil {
					return err
				}

				stdio := commands.DefaultIO()
				answers := bufio.NewReader(stdio.Reader)
				var device scanner.Device
				if path := cmd.String("input"); path != "" {
					device = scanner.NewFileDevice(scanner.DeviceInfo{ID: path, Label: "scanner"}, path)
				} else {
					device = scanner.NewReaderDevice(scanner.DeviceInfo{ID: "stdin", Label: "keyboard"}, answers)
				}
				manager := scanner.NewManager(scanner.StaticProvider{device}, logger)

				return commands.RunKiosk(
					ctx,
					identityUseCase,
					redemptions,
					manager,
					logger,
					commands.KioskIO{Answers: answers, Writer: stdio.Writer},
					cmd.String("session"),
				)
			},
		},
	}
}
