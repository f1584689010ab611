// Package logutil provides structured JSON logging with request correlation.
//
// Every log record is a single JSON line with a fixed leading key order:
//
//	timestamp, level, service, version, environment, logger, message,
//	module, function, line
//
// Records emitted while serving an HTTP request additionally carry a
// correlation_id and a request object with the method, the sanitized path and
// the matched route. Arbitrary attributes of the log call follow at the end.
//
// # Setup
//
// Services install the logger once during startup:
//
//	err := logutil.Setup(
//	    logutil.WithLevel(slog.LevelDebug),
//	    logutil.WithGraylog("graylog.example.com:12201"),
//	)
//
// Afterwards the standard slog calls produce JSON records. Use the context
// variants, so records pick up the request correlation:
//
//	slog.InfoContext(ctx, "price updated", slog.Int("item_id", id))
//
// Named loggers attribute records to a component:
//
//	log := logutil.Logger("importer")
//	log.InfoContext(ctx, "import finished")
//
// # Correlation
//
// The webutil request logger stores a RequestScope in the request context.
// The scope resolves the correlation ID from the X-Correlation-ID or
// X-Request-ID header, or generates a UUID when neither is usable. The
// resolved ID is cached, so all records of one request carry the same value.
// Application code can read it with:
//
//	id, ok := logutil.CorrelationID(ctx)
//
// Outside of a request there is no correlation ID and records simply omit the
// field.
//
// # Path sanitizing
//
// Request paths are logged through SanitizePath, which replaces the values of
// sensitive query parameters like token or password with a redaction marker.
// The set of sensitive names is exported as SensitiveParams.
//
// # Failures
//
// Handled errors attach to records through Exception, which renders stack
// traces for errors created with github.com/pkg/errors:
//
//	slog.ErrorContext(ctx, "import failed", logutil.Exception(err))
package logutil
