package cmdutil

import (
	"context"

	"github.com/spf13/cobra"
)

type Option func(*cobra.Command) error

// New creates a Cobra command and applies the given options to it. PreRun and
// PersistentPreRun functions installed by options are accumulated, so every
// option gets its turn.
func New(use, desc string, options ...Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: desc,
	}

	var (
		preRuns           = make([]func(*cobra.Command, []string), 0)
		persistentPreRuns = make([]func(*cobra.Command, []string), 0)
	)

	for _, o := range options {
		err := o(cmd)
		Must(err)

		if cmd.PreRun != nil {
			preRuns = append(preRuns, cmd.PreRun)
		}
		cmd.PreRun = nil

		if cmd.PersistentPreRun != nil {
			persistentPreRuns = append(persistentPreRuns, cmd.PersistentPreRun)
		}

		cmd.PersistentPreRun = nil
	}

	if len(persistentPreRuns) > 0 {
		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			for _, run := range persistentPreRuns {
				run(cmd, args)
			}
		}
	}

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		for _, run := range preRuns {
			run(cmd, args)
		}
	}

	return cmd
}

func WithSubCommand(sub *cobra.Command) Option {
	return func(parent *cobra.Command) error {
		parent.AddCommand(sub)
		return nil
	}
}

func WithRun(run RunFuncWithContext) Option {
	return func(cmd *cobra.Command) error {
		cmd.Run = wrapRootContext(run)
		return nil
	}
}

type Runner interface {
	Bind(*cobra.Command) error
	Run(context.Context) error
}

func WithRunner(runner Runner) Option {
	return func(cmd *cobra.Command) error {
		err := runner.Bind(cmd)
		if err != nil {
			return err
		}

		cmd.Run = func(cmd *cobra.Command, args []string) {
			ctx := SignalRootContext()
			err := runner.Run(ctx)
			Must(err)
		}
		return nil
	}
}
