package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"funding/internal/cli"
	applog "funding/internal/log"
)

var Cmd = &cobra.Command{
	Use:           "funding-cli",
	Short:         "Import funding datasets and print dashboard reports",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, argv []string) {
		cli.LoadEnvFile()
		level := os.Getenv("LOG_LEVEL")
		if args.debug {
			level = "debug"
		}
		logger = cli.SetupLogger(level, applog.ComponentCLI)
	},
}

var args struct {
	debug bool
	width int
}

var logger *applog.Logger

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := Cmd.PersistentFlags()

	flags.BoolVar(
		&args.debug,
		"debug",
		false,
		"Enable debug logging",
	)

	Cmd.AddCommand(importCmd, reportCmd)
}
