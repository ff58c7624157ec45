package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/valet-org/valet/internal/logger"
)

// Status symbols shared by the offline commands.
const (
	symbolUp   = "✓"
	symbolDown = "✗"
)

// CmdStatus creates the command that prints the assistant's operational state.
func CmdStatus() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Display the assistant state",
			Long:  `Probe the inference runtime and print model and memory counts without connecting to Telegram.`,
		}, nil, runStatus,
	)
}

func runStatus(ctx *Context, _ []string) error {
	gw, err := ctx.Gateway()
	if err != nil {
		return err
	}

	ready := gw.CheckAvailability(ctx)
	if ready {
		if err := gw.RefreshModels(ctx); err != nil {
			logger.Warn(ctx, "Could not refresh models", "err", err)
		}
	}

	mark := color.GreenString(symbolUp)
	if !ready {
		mark = color.RedString(symbolDown)
	}
	active := gw.ActiveModel()
	if active == "" {
		active = "None"
	}

	out := ctx.Command.OutOrStdout()
	fmt.Fprintf(out, "Ollama:   %s\n", mark)
	fmt.Fprintf(out, "Models:   %d\n", len(gw.Models()))
	fmt.Fprintf(out, "Active:   %s\n", active)
	fmt.Fprintf(out, "Memories: %d\n", gw.MemoryCount())
	return nil
}
