package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/valet-org/valet/internal/build"
	"github.com/valet-org/valet/internal/cmd"
)

var rootCmd = &cobra.Command{
	Use:   build.Slug,
	Short: "Valet is a personal assistant gateway for Telegram and Ollama",
	Long: `Valet is a personal assistant gateway.

It relays messages from a Telegram chat to a locally hosted Ollama
inference server, injecting a persisted memory log into every prompt.
Say "remember this: ..." in the chat to store a fact.
`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress console output")

	rootCmd.AddCommand(cmd.CmdStart())
	rootCmd.AddCommand(cmd.CmdStatus())
	rootCmd.AddCommand(cmd.CmdModels())
	rootCmd.AddCommand(cmd.CmdVersion())

	build.Version = version
}

var version = "0.0.0"
