package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dropkit/dropkit/pkg/environment"
	"github.com/dropkit/dropkit/pkg/logging"
)

// NewRootCommand returns the root command with all subcommands attached.
func NewRootCommand(fs afero.Fs, ctx context.Context, env *environment.Environment, logger *logging.Logger) *cobra.Command {
	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "dropkit",
		Short: "Zero-config file drop server.",
		Long: `Dropkit serves a directory tree over HTTP or HTTPS for browsing, download,
and upload, optionally protected by a single username/password pair. It is
meant for quickly moving files between machines without any setup.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(NewServeCommand(fs, ctx, env, logger))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
