package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dropkit/dropkit/pkg/cfg"
	"github.com/dropkit/dropkit/pkg/environment"
	"github.com/dropkit/dropkit/pkg/logging"
	"github.com/dropkit/dropkit/pkg/server"
)

// NewServeCommand creates the 'serve' command. Flag defaults come from the
// environment so the server can be fully configured without flags.
func NewServeCommand(fs afero.Fs, ctx context.Context, env *environment.Environment, logger *logging.Logger) *cobra.Command {
	var (
		host       string
		port       int
		authString string
		tlsEnabled bool
	)

	serveCmd := &cobra.Command{
		Use:     "serve [dir]",
		Aliases: []string{"s"},
		Short:   "Serve a directory over HTTP(S)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := env.Root
			if len(args) == 1 {
				root = args[0]
			}

			config, err := cfg.New(fs, root, authString, host, port, tlsEnabled)
			if err != nil {
				return err
			}

			if config.Credential != nil {
				logger.Info("authentication enabled", "user", config.Credential.Username)
			} else {
				logger.Info("authentication disabled, public access")
			}

			return server.New(fs, config, logger).Start(ctx)
		},
	}

	serveCmd.Flags().StringVarP(&host, "host", "H", env.Host, "Host interface to bind to")
	serveCmd.Flags().IntVarP(&port, "port", "p", env.Port, "Port to bind to")
	serveCmd.Flags().StringVarP(&authString, "auth", "a", env.Auth, "Enable authentication (format: username:password)")
	serveCmd.Flags().BoolVar(&tlsEnabled, "tls", env.TLS, "Enable HTTPS with an ephemeral self-signed certificate")

	return serveCmd
}
