package logutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	sloggraylog "github.com/samber/slog-graylog/v2"
	slogmulti "github.com/samber/slog-multi"
	"github.com/Graylog2/go-gelf/gelf"
)

type setupConfig struct {
	output   io.Writer
	level    slog.Level
	metadata *Metadata
	console  bool
	graylog  string
}

// SetupOption customizes Setup.
type SetupOption func(*setupConfig)

// WithOutput overrides the log destination. Defaults to stdout.
func WithOutput(w io.Writer) SetupOption {
	return func(c *setupConfig) {
		c.output = w
	}
}

// WithLevel sets the minimum record level. Defaults to debug, filtering is
// expected to happen in the log aggregation.
func WithLevel(level slog.Level) SetupOption {
	return func(c *setupConfig) {
		c.level = level
	}
}

// WithMetadata overrides the service identity. Defaults to the environment
// derived metadata, see MetadataFromEnv.
func WithMetadata(meta Metadata) SetupOption {
	return func(c *setupConfig) {
		c.metadata = &meta
	}
}

// WithConsole switches the output to a human readable colored format. Meant
// for watching a service during local development, the output is neither
// machine readable nor stable.
func WithConsole() SetupOption {
	return func(c *setupConfig) {
		c.console = true
	}
}

// WithGraylog duplicates all records to the given Graylog address via GELF
// over UDP.
func WithGraylog(address string) SetupOption {
	return func(c *setupConfig) {
		c.graylog = address
	}
}

var setupOnce sync.Once

// Setup installs the process wide default logger. The first call wins and
// later calls are no-ops, so libraries and command wiring can both call Setup
// without stepping on each other.
func Setup(options ...SetupOption) error {
	var err error

	setupOnce.Do(func() {
		err = setup(options...)
	})

	return err
}

func setup(options ...SetupOption) error {
	config := setupConfig{
		output: os.Stdout,
		level:  slog.LevelDebug,
	}

	for _, option := range options {
		option(&config)
	}

	meta := MetadataFromEnv()
	if config.metadata != nil {
		meta = *config.metadata
	}

	var handler slog.Handler
	if config.console {
		handler = contextHandler{tint.NewHandler(config.output, &tint.Options{
			Level: config.level,
		})}
	} else {
		handler = NewFormatter(config.output, &FormatterOptions{
			Level:    config.level,
			Metadata: meta,
		})
	}

	if config.graylog != "" {
		writer, err := gelf.NewWriter(config.graylog)
		if err != nil {
			return errors.Wrap(err, "failed to set up graylog connection")
		}

		graylog := contextHandler{sloggraylog.Option{
			Level:  config.level,
			Writer: writer,
		}.NewGraylogHandler()}

		handler = slogmulti.Fanout(handler, graylog)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

// contextHandler copies the correlation ID and request attributes from the
// context into the record before passing it on. The Formatter reads the
// context itself, this wrapper brings third party handlers to parity.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	scope, ok := RequestScopeFromContext(ctx)
	if ok {
		r = r.Clone()

		if scope.Correlation != nil {
			r.AddAttrs(slog.String("correlation_id", scope.Correlation.ID()))
		}

		attrs := []slog.Attr{
			slog.String("method", scope.Method),
			slog.String("path", SanitizePath(scope.FullPath())),
		}
		if scope.Route != nil {
			if route := scope.Route(); route != "" {
				attrs = append(attrs, slog.String("endpoint", route))
			}
		}
		r.AddAttrs(slog.Attr{Key: "request", Value: slog.GroupValue(attrs...)})
	}

	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
