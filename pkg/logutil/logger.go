package logutil

import "log/slog"

// Logger derives a named logger from the default logger. The name shows up in
// the logger field of each record, so events can be attributed to the
// component that emitted them. Call it after Setup, otherwise the logger
// binds to the default slog handler.
func Logger(name string) *slog.Logger {
	return slog.Default().With(slog.String("logger", name))
}

// Exception attaches an error to a log record as the exception payload. The
// formatter renders it as a top level string including the stack trace for
// errors created with github.com/pkg/errors.
//
//	slog.ErrorContext(ctx, "price import failed", logutil.Exception(err))
func Exception(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	return slog.Any(exceptionField, err)
}
