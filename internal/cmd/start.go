package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valet-org/valet/internal/bot"
	"github.com/valet-org/valet/internal/build"
	"github.com/valet-org/valet/internal/logger"
)

// CmdStart creates the command that serves the Telegram polling loop.
func CmdStart() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start the assistant",
			Long: `Connect to Telegram and relay incoming messages to the inference service.

The loop runs until SIGINT or SIGTERM. A missing Telegram token is the only
fatal misconfiguration; an unreachable inference service is reported to the
user per message instead.`,
		}, nil, runStart,
	)
}

func runStart(ctx *Context, _ []string) error {
	if ctx.Config.Telegram.Token == "" {
		return fmt.Errorf(
			"telegram token is not set (set %s_TELEGRAM_TOKEN or telegram.token in %s)",
			strings.ToUpper(build.Slug), "config.yaml",
		)
	}

	gw, err := ctx.Gateway()
	if err != nil {
		return err
	}

	if gw.CheckAvailability(ctx) {
		if err := gw.RefreshModels(ctx); err != nil {
			logger.Warn(ctx, "Could not refresh models", "err", err)
		}
	}

	b, err := bot.New(ctx.Config.Telegram.Token, gw)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	listenSignals(ctx, b)

	logger.Info(ctx, "Starting assistant",
		"version", build.Version,
		"ready", gw.Ready(),
		"activeModel", gw.ActiveModel(),
		"memories", gw.MemoryCount())

	return b.Run(ctx)
}
