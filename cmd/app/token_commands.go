package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/nailbliss/stampcard/cmd/app/commands"
	"github.com/nailbliss/stampcard/internal/app"
	"github.com/nailbliss/stampcard/internal/config"
	"github.com/nailbliss/stampcard/internal/qrtoken/render"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "mint-session",
			Usage: "Mint a session token for an existing account (development only)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user-id",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Account ID (UUID)",
				},
				&cli.DurationFlag{
					Name:  "ttl",
					Usage: "Session lifetime, defaults to AUTH_SESSION_TTL_SECONDS",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				identityUseCase, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				ttl := cmd.Duration("ttl")
				if ttl == 0 {
					ttl = cfg.AuthSessionTTL
				}

				return commands.RunMintSession(
					ctx,
					identityUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("user-id"),
					ttl,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "issue-token",
			Usage: "Issue a QR token for a customer and print it",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "customer-id",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Customer ID (UUID)",
				},
				&cli.BoolFlag{
					Name:  "qr",
					Usage: "Also draw the code in the terminal",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokens, err := container.TokenService()
				if err != nil {
					return err
				}

				var renderer render.Renderer
				if cmd.Bool("qr") {
					renderer = render.NewTerminalRenderer(false)
				}

				return commands.RunIssueToken(
					tokens,
					renderer,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("customer-id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "inspect-token",
			Usage: "Decode a QR token and report its age",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Raw token as scanned",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokens, err := container.TokenService()
				if err != nil {
					return err
				}

				return commands.RunInspectToken(
					tokens,
					commands.DefaultIO().Writer,
					cmd.String("token"),
					cmd.String("format"),
					time.Now(),
				)
			},
		},
	}
}
