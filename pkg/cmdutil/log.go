package cmdutil

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retra-de/retra-go-sdk/pkg/logutil"
)

// WithLoggingOptions binds the logging related flags and initializes the
// process wide logger via logutil.Setup before any command runs.
func WithLoggingOptions() Option {
	var (
		levelName   string
		consoleLogs bool
		gelfAddress string
	)

	return func(cmd *cobra.Command) error {
		cmd.PersistentFlags().StringVar(
			&levelName, "log-level", "debug",
			`Minimum level for log records ("debug", "info", "warning" or "error").`)

		cmd.PersistentFlags().BoolVar(
			&consoleLogs, "console-logs", false,
			"Print human readable logs to the console instead of JSON records.")

		cmd.PersistentFlags().StringVar(
			&gelfAddress, "gelf-address", "",
			`Address to Graylog for logging (format: "ip:port").`)

		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			options := []logutil.SetupOption{
				logutil.WithLevel(ParseLevel(levelName)),
			}

			if consoleLogs {
				options = append(options, logutil.WithConsole())
			}

			if gelfAddress != "" {
				options = append(options, logutil.WithGraylog(gelfAddress))
			}

			Must(logutil.Setup(options...))
		}

		return nil
	}
}

// ParseLevel maps a level name from the command line to a slog level.
// Unknown names fall back to debug, so a typo never silences logs.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "info":
		return slog.LevelInfo
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return logutil.LevelCritical
	default:
		return slog.LevelDebug
	}
}
