package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/dropkit/dropkit/cmd"
	"github.com/dropkit/dropkit/pkg/environment"
	"github.com/dropkit/dropkit/pkg/logging"
)

func main() {
	fs := afero.NewOsFs()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logging.GetLogger()

	// Local overrides, ignored when absent.
	_ = godotenv.Load()

	env, err := environment.NewEnvironment(nil)
	if err != nil {
		logger.Error("failed to set up environment", "error", err)
		os.Exit(1)
	}

	setupSignalHandler(cancel, logger)

	rootCmd := cmd.NewRootCommand(fs, ctx, env, logger)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupSignalHandler cancels the context on SIGINT/SIGTERM so the server
// shuts down gracefully and ephemeral TLS artifacts are removed.
func setupSignalHandler(cancelFunc context.CancelFunc, logger *logging.Logger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigs
		logger.Debug("received signal, shutting down", "signal", sig)
		cancelFunc()
	}()
}
