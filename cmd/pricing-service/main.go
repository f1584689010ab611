package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/retra-de/retra-go-sdk/pkg/cmdutil"
)

func main() {
	defer cmdutil.HandleExit()
	if err := NewRootCommand().Execute(); err != nil {
		cmdutil.Must(err)
	}
}

func NewRootCommand() *cobra.Command {
	return cmdutil.New(
		"pricing-service", "Serves price data with fully traced requests",
		cmdutil.WithLoggingOptions(),
		cmdutil.WithVersionCommand(),
		cmdutil.WithVersionLog(slog.LevelDebug),

		cmdutil.WithSubCommand(cmdutil.New(
			"daemon", "Run the server",
			cmdutil.WithRunner(new(DaemonRunner)),
		)),

		cmdutil.WithSubCommand(cmdutil.New(
			"dev", "Run the server in dev mode with an in-process Redis",
			cmdutil.WithRunner(new(DevRunner)),
		)),
	)
}
