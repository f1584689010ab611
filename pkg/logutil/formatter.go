package logutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/retra-de/retra-go-sdk/pkg/typeutil"
)

// LevelCritical extends the slog levels by a severity above error. The
// formatter labels it CRITICAL.
const LevelCritical = slog.LevelError + 4

// timestampLayout renders timestamps as UTC with second precision and a
// literal Z suffix.
const timestampLayout = "2006-01-02T15:04:05Z"

// defaultLoggerName labels records that were not emitted through a named
// logger, see Logger.
const defaultLoggerName = "root"

// exceptionField is the attribute key that carries failure details. The
// formatter renders it as a top level string, see Exception.
const exceptionField = "exception"

// reservedFields are attribute keys the formatter computes itself. Matching
// attributes are dropped instead of fighting the computed values.
var reservedFields = typeutil.NewSet("correlation_id", "endpoint")

// LevelName translates slog levels into the conventional level labels used in
// the JSON output. Levels between the predefined ones map to the next lower
// label.
func LevelName(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARNING"
	case level < LevelCritical:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}

// FormatterOptions configures a Formatter.
type FormatterOptions struct {
	// Level is the minimum record level that gets written. Defaults to
	// slog.LevelDebug, since the expectation is that filtering happens in
	// the log aggregation, not in the service.
	Level slog.Leveler

	// Metadata identifies the emitting service. Defaults to
	// MetadataFromEnv.
	Metadata Metadata
}

// Formatter is a slog.Handler that writes one JSON object per record. The key
// order is fixed, so lines stay comparable and greppable across services.
// Records emitted while serving an HTTP request additionally carry the
// correlation ID and a request object with a sanitized path, both taken from
// the context.
type Formatter struct {
	opts  FormatterOptions
	out   io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
	group []string
}

// NewFormatter creates a Formatter writing to w. Writes of single records are
// serialized, so handlers sharing the Formatter never interleave lines.
func NewFormatter(w io.Writer, opts *FormatterOptions) *Formatter {
	f := &Formatter{
		out: w,
		mu:  new(sync.Mutex),
	}

	if opts != nil {
		f.opts = *opts
	}
	if f.opts.Level == nil {
		f.opts.Level = slog.LevelDebug
	}
	if f.opts.Metadata == (Metadata{}) {
		f.opts.Metadata = MetadataFromEnv()
	}

	return f
}

func (f *Formatter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= f.opts.Level.Level()
}

func (f *Formatter) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return f
	}

	clone := *f
	clone.attrs = make([]slog.Attr, len(f.attrs), len(f.attrs)+len(attrs))
	copy(clone.attrs, f.attrs)
	clone.attrs = qualifyAttrs(clone.attrs, strings.Join(f.group, "."), attrs)

	return &clone
}

func (f *Formatter) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}

	clone := *f
	clone.group = make([]string, len(f.group), len(f.group)+1)
	copy(clone.group, f.group)
	clone.group = append(clone.group, name)

	return &clone
}

// Handle writes the record as a single JSON line. The leading keys are always
// present in the same order, followed by the correlation ID and request
// object when inside a request, followed by the record attributes.
func (f *Formatter) Handle(ctx context.Context, r slog.Record) error {
	rec := newRecord()

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	rec.Set("timestamp", ts.UTC().Format(timestampLayout))
	rec.Set("level", LevelName(r.Level))
	rec.Set("service", f.opts.Metadata.Service)
	rec.Set("version", f.opts.Metadata.Version)
	rec.Set("environment", f.opts.Metadata.Environment)
	rec.Set("logger", defaultLoggerName)
	rec.Set("message", r.Message)

	module, function, line := sourceLocation(r.PC)
	rec.Set("module", module)
	rec.Set("function", function)
	rec.Set("line", line)

	if id, ok := CorrelationID(ctx); ok {
		rec.Set("correlation_id", id)
	}

	attrs := f.collectAttrs(r)

	if exception, ok := exceptionAttr(attrs); ok {
		rec.Set(exceptionField, renderException(exception))
	}

	if scope, ok := RequestScopeFromContext(ctx); ok {
		rec.Set("request", requestRecord(scope))
	}

	for _, attr := range attrs {
		fold(rec, attr, true)
	}

	data, err := rec.MarshalJSON()
	if err != nil {
		return errors.WithStack(err)
	}
	data = append(data, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	_, err = f.out.Write(data)
	return errors.WithStack(err)
}

// collectAttrs merges the preformatted attributes with the attributes of the
// record itself, qualifying the latter with the open group prefix.
func (f *Formatter) collectAttrs(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(f.attrs)+r.NumAttrs())
	attrs = append(attrs, f.attrs...)

	prefix := strings.Join(f.group, ".")
	r.Attrs(func(attr slog.Attr) bool {
		attrs = qualifyAttrs(attrs, prefix, []slog.Attr{attr})
		return true
	})

	return attrs
}

// qualifyAttrs resolves the given attributes, expands inline groups and
// prefixes keys with the dotted group path.
func qualifyAttrs(dst []slog.Attr, prefix string, attrs []slog.Attr) []slog.Attr {
	for _, attr := range attrs {
		attr.Value = attr.Value.Resolve()

		if attr.Equal(slog.Attr{}) {
			continue
		}

		if attr.Key == "" && attr.Value.Kind() == slog.KindGroup {
			dst = qualifyAttrs(dst, prefix, attr.Value.Group())
			continue
		}

		if prefix != "" {
			attr.Key = prefix + "." + attr.Key
		}

		dst = append(dst, attr)
	}

	return dst
}

// exceptionAttr returns the value of the last attribute addressing the
// exception field, matching the override behavior of regular attributes.
func exceptionAttr(attrs []slog.Attr) (slog.Value, bool) {
	var value slog.Value
	found := false

	for _, attr := range attrs {
		if attr.Key == exceptionField && attr.Value.Kind() != slog.KindGroup {
			value = attr.Value
			found = true
		}
	}

	return value, found
}

// renderException formats the exception payload. Errors render with %+v, so
// errors created with github.com/pkg/errors keep their stack trace.
func renderException(value slog.Value) string {
	if value.Kind() == slog.KindString {
		return value.String()
	}

	if err, ok := value.Any().(error); ok {
		return fmt.Sprintf("%+v", err)
	}

	return fmt.Sprint(value.Any())
}

// requestRecord embeds the attributes of the surrounding request. The
// endpoint is null until routing resolved a pattern, which is the faithful
// answer for records emitted before routing ran.
func requestRecord(scope *RequestScope) *record {
	req := newRecord()
	req.Set("method", scope.Method)
	req.Set("path", SanitizePath(scope.FullPath()))

	var endpoint any
	if scope.Route != nil {
		if route := scope.Route(); route != "" {
			endpoint = route
		}
	}
	req.Set("endpoint", endpoint)

	return req
}

// fold copies one attribute into the output object. Group values become
// nested objects. At the top level reserved keys, the exception channel and
// nil values are dropped. Duplicate keys overwrite in place, the last value
// wins.
func fold(rec *record, attr slog.Attr, top bool) {
	attr.Value = attr.Value.Resolve()

	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		grouped := attr.Value.Group()
		if len(grouped) == 0 {
			return
		}

		if attr.Key == "" {
			for _, a := range grouped {
				fold(rec, a, top)
			}
			return
		}

		if top && reservedFields.Contains(attr.Key) {
			return
		}

		child := newRecord()
		for _, a := range grouped {
			fold(child, a, false)
		}
		rec.Set(attr.Key, child)
		return
	}

	if top {
		if attr.Key == exceptionField {
			return
		}
		if reservedFields.Contains(attr.Key) {
			return
		}
		if attr.Value.Kind() == slog.KindAny && attr.Value.Any() == nil {
			return
		}
	}

	rec.Set(attr.Key, attrValue(attr.Value))
}

// attrValue converts a resolved slog value into its JSON form. Times render
// in the same layout as the record timestamp, durations as their string
// notation and errors as their message.
func attrValue(value slog.Value) any {
	switch value.Kind() {
	case slog.KindString:
		return value.String()
	case slog.KindInt64:
		return value.Int64()
	case slog.KindUint64:
		return value.Uint64()
	case slog.KindFloat64:
		return value.Float64()
	case slog.KindBool:
		return value.Bool()
	case slog.KindDuration:
		return value.Duration().String()
	case slog.KindTime:
		return value.Time().UTC().Format(timestampLayout)
	default:
		raw := value.Any()
		if err, ok := raw.(error); ok {
			return err.Error()
		}
		return raw
	}
}

// sourceLocation resolves the program counter of a record into the file base
// name, the function name and the line number. A zero program counter yields
// empty values, which the output keeps to make the missing location explicit.
func sourceLocation(pc uintptr) (module string, function string, line int) {
	if pc == 0 {
		return "", "", 0
	}

	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.PC == 0 {
		return "", "", 0
	}

	if frame.File != "" {
		module = strings.TrimSuffix(filepath.Base(frame.File), ".go")
	}

	function = frame.Function
	if i := strings.LastIndex(function, "/"); i >= 0 {
		function = function[i+1:]
	}
	if i := strings.Index(function, "."); i >= 0 {
		function = function[i+1:]
	}

	return module, function, frame.Line
}
