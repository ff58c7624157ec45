package cmd

import (
	"github.com/spf13/cobra"

	"github.com/valet-org/valet/internal/build"
)

// CmdVersion creates the command that prints the binary version.
func CmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the binary version",
		Long:  `Print the current version of the Valet executable.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(build.Version)
		},
	}
}
