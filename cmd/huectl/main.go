package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"

	"github.com/jmylchreest/hued/cmd/huectl/commands"
	"github.com/jmylchreest/hued/internal/utils"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Replaced once the configuration is loaded
	logger := utils.SetupErrorLogger()

	rootCmd := commands.NewRootCommand(logger, version, commit, buildDate)
	ctx = commands.WithConnector(commands.WithLogger(ctx, logger), commands.Connect)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		stop()
		os.Exit(1)
	}
}
