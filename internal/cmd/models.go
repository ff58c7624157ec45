package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var modelsHeader = table.Row{"#", "Model", "In Use"}

// CmdModels creates the command that lists the models advertised by the
// inference service.
func CmdModels() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "models",
			Short: "List available inference models",
			Long:  `Refresh the model registry from the inference service and render it as a table.`,
		}, nil, runModels,
	)
}

func runModels(ctx *Context, _ []string) error {
	gw, err := ctx.Gateway()
	if err != nil {
		return err
	}
	if err := gw.RefreshModels(ctx); err != nil {
		return err
	}

	inUse := gw.ModelInUse()

	t := table.NewWriter()
	t.SetOutputMirror(ctx.Command.OutOrStdout())
	t.AppendHeader(modelsHeader)
	for i, name := range gw.Models() {
		mark := ""
		if name == inUse {
			mark = symbolUp
		}
		t.AppendRow(table.Row{i + 1, name, mark})
	}
	t.Render()
	return nil
}
