package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropkit/dropkit/pkg/version"
)

// NewVersionCommand creates the 'version' command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the dropkit version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dropkit v%s\n", version.Full())
		},
	}
}
