package logutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retra-de/retra-go-sdk/pkg/testutil"
)

var formatterTestTime = time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)

func newTestFormatter(buf *bytes.Buffer) *Formatter {
	return NewFormatter(buf, &FormatterOptions{
		Metadata: Metadata{
			Service:     "pricing-service",
			Version:     "1.0.0",
			Environment: "test",
		},
	})
}

// staticRecord builds a record with a fixed timestamp and without a program
// counter, so the output does not depend on runtime details.
func staticRecord(level slog.Level, message string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(formatterTestTime, level, message, 0)
	r.AddAttrs(attrs...)
	return r
}

func formatRecord(t *testing.T, ctx context.Context, r slog.Record) (string, map[string]any) {
	t.Helper()

	buf := new(bytes.Buffer)
	require.NoError(t, newTestFormatter(buf).Handle(ctx, r))

	parsed := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	return buf.String(), parsed
}

// topLevelKeys returns the keys of a JSON object in document order.
func topLevelKeys(t *testing.T, line string) []string {
	t.Helper()

	dec := json.NewDecoder(strings.NewReader(line))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)

		key, ok := tok.(string)
		require.True(t, ok)
		keys = append(keys, key)

		var value json.RawMessage
		require.NoError(t, dec.Decode(&value))
	}

	return keys
}

func TestFormatterGolden(t *testing.T) {
	buf := new(bytes.Buffer)
	f := newTestFormatter(buf)

	require.NoError(t, f.Handle(context.Background(),
		staticRecord(slog.LevelInfo, "Cache warmed", slog.Int("entries", 250))))

	header := http.Header{}
	header.Set(HeaderCorrelationID, "abc-123")

	routed := ContextWithRequestScope(context.Background(), &RequestScope{
		Method:      http.MethodGet,
		Path:        "/api/data",
		RawQuery:    "token=tkn-1&page=2",
		Route:       func() string { return "/api/data" },
		Correlation: NewCorrelation(header, nil),
	})
	require.NoError(t, f.Handle(routed, staticRecord(slog.LevelInfo,
		"Request completed with status 200",
		slog.Int("status_code", 200),
		slog.String("endpoint", "/api/data"),
		slog.Any("ignored", nil),
	)))

	unrouted := ContextWithRequestScope(context.Background(), &RequestScope{
		Method:      http.MethodGet,
		Path:        "/health",
		Route:       func() string { return "" },
		Correlation: NewCorrelation(header, nil),
	})
	require.NoError(t, f.Handle(unrouted,
		staticRecord(slog.LevelInfo, "Request received")))

	require.NoError(t, f.Handle(context.Background(), staticRecord(
		slog.LevelError, "Unhandled exception: boom",
		slog.String("exception", "boom goes the handler"))))

	testutil.AssertGolden(t, "test-fixtures/formatter.golden", buf.Bytes())
}

func TestFormatterKeyOrder(t *testing.T) {
	header := http.Header{}
	header.Set(HeaderCorrelationID, "abc-123")

	ctx := ContextWithRequestScope(context.Background(), &RequestScope{
		Method:      http.MethodGet,
		Path:        "/api/data",
		Route:       func() string { return "/api/data" },
		Correlation: NewCorrelation(header, nil),
	})

	line, _ := formatRecord(t, ctx, staticRecord(slog.LevelWarn, "checking order",
		slog.String("exception", "details"),
		slog.String("second", "2"),
		slog.String("first", "1"),
	))

	assert.Equal(t, []string{
		"timestamp", "level", "service", "version", "environment",
		"logger", "message", "module", "function", "line",
		"correlation_id", "exception", "request",
		"second", "first",
	}, topLevelKeys(t, line))
}

func TestFormatterExtrasOverrideDefaults(t *testing.T) {
	line, parsed := formatRecord(t, context.Background(),
		staticRecord(slog.LevelInfo, "named", slog.String("logger", "checkout")))

	assert.Equal(t, "checkout", parsed["logger"])

	// The override keeps the original key position instead of appending a
	// duplicate at the end.
	keys := topLevelKeys(t, line)
	assert.Equal(t, "logger", keys[5])
	assert.Equal(t, 1, strings.Count(line, `"logger"`))
}

func TestFormatterReservedExtrasDropped(t *testing.T) {
	_, parsed := formatRecord(t, context.Background(),
		staticRecord(slog.LevelInfo, "reserved",
			slog.String("endpoint", "/spoofed"),
			slog.String("correlation_id", "spoofed"),
			slog.String("kept", "yes"),
		))

	assert.NotContains(t, parsed, "endpoint")
	assert.NotContains(t, parsed, "correlation_id")
	assert.Equal(t, "yes", parsed["kept"])
}

func TestFormatterSkipsNilValues(t *testing.T) {
	_, parsed := formatRecord(t, context.Background(),
		staticRecord(slog.LevelInfo, "nils",
			slog.Any("missing", nil),
			slog.String("present", "x"),
		))

	assert.NotContains(t, parsed, "missing")
	assert.Equal(t, "x", parsed["present"])
}

func TestFormatterDegradesUnserializableValues(t *testing.T) {
	_, parsed := formatRecord(t, context.Background(),
		staticRecord(slog.LevelInfo, "degrade", slog.Float64("rate", math.NaN())))

	assert.Equal(t, "NaN", parsed["rate"])
}

func TestFormatterGroups(t *testing.T) {
	_, parsed := formatRecord(t, context.Background(),
		staticRecord(slog.LevelInfo, "grouped",
			slog.Group("price",
				slog.Int("amount", 1999),
				slog.String("currency", "EUR"),
			)))

	assert.Equal(t, map[string]any{
		"amount":   float64(1999),
		"currency": "EUR",
	}, parsed["price"])
}

func TestFormatterWithAttrsAndGroups(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := slog.New(newTestFormatter(buf)).
		With(slog.String("shard", "eu-1")).
		WithGroup("redis").
		With(slog.Int("attempt", 2))

	logger.Info("connected", slog.Duration("elapsed", 1500*time.Millisecond))

	parsed := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	assert.Equal(t, "eu-1", parsed["shard"])
	assert.Equal(t, float64(2), parsed["redis.attempt"])
	assert.Equal(t, "1.5s", parsed["redis.elapsed"])
}

func TestFormatterSourceLocation(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := slog.New(newTestFormatter(buf))

	logger.Info("locating")

	parsed := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	assert.Equal(t, "formatter_test", parsed["module"])
	assert.Equal(t, "TestFormatterSourceLocation", parsed["function"])
	assert.Greater(t, parsed["line"], float64(0))
}

func TestFormatterErrorAttribute(t *testing.T) {
	_, parsed := formatRecord(t, context.Background(),
		staticRecord(slog.LevelWarn, "failed", slog.Any("cause", io.EOF)))

	assert.Equal(t, "EOF", parsed["cause"])
}

func TestFormatterTimeValue(t *testing.T) {
	_, parsed := formatRecord(t, context.Background(),
		staticRecord(slog.LevelInfo, "timed",
			slog.Time("imported_at", formatterTestTime)))

	assert.Equal(t, "2024-03-07T15:04:05Z", parsed["imported_at"])
}

func TestFormatterTimestampFallsBackToNow(t *testing.T) {
	buf := new(bytes.Buffer)
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "no time", 0)
	require.NoError(t, newTestFormatter(buf).Handle(context.Background(), r))

	parsed := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	_, err := time.Parse(timestampLayout, parsed["timestamp"].(string))
	assert.NoError(t, err)
}

func TestExceptionRendersStackTrace(t *testing.T) {
	err := errors.New("price import exploded")

	_, parsed := formatRecord(t, context.Background(),
		staticRecord(slog.LevelError, "import failed", Exception(err)))

	exception, ok := parsed["exception"].(string)
	require.True(t, ok)
	assert.Contains(t, exception, "price import exploded")
	assert.Contains(t, exception, "TestExceptionRendersStackTrace")
}

func TestExceptionWithNilError(t *testing.T) {
	assert.Equal(t, slog.Attr{}, Exception(nil))

	_, parsed := formatRecord(t, context.Background(),
		staticRecord(slog.LevelError, "no details", Exception(nil)))

	assert.NotContains(t, parsed, "exception")
}

func TestFormatterMinimumLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	f := NewFormatter(buf, &FormatterOptions{
		Level:    slog.LevelWarn,
		Metadata: Metadata{Service: "s", Version: "v", Environment: "e"},
	})

	assert.False(t, f.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, f.Enabled(context.Background(), slog.LevelWarn))
}

func TestLevelName(t *testing.T) {
	cases := []struct {
		level slog.Level
		want  string
	}{
		{level: slog.LevelDebug - 4, want: "DEBUG"},
		{level: slog.LevelDebug, want: "DEBUG"},
		{level: slog.LevelDebug + 3, want: "DEBUG"},
		{level: slog.LevelInfo, want: "INFO"},
		{level: slog.LevelInfo + 3, want: "INFO"},
		{level: slog.LevelWarn, want: "WARNING"},
		{level: slog.LevelWarn + 3, want: "WARNING"},
		{level: slog.LevelError, want: "ERROR"},
		{level: slog.LevelError + 3, want: "ERROR"},
		{level: LevelCritical, want: "CRITICAL"},
		{level: LevelCritical + 4, want: "CRITICAL"},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.level), func(t *testing.T) {
			assert.Equal(t, tc.want, LevelName(tc.level))
		})
	}
}

func TestFormatterConcurrentWrites(t *testing.T) {
	buf := new(bytes.Buffer)
	f := newTestFormatter(buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				r := staticRecord(slog.LevelInfo, fmt.Sprintf("record %d-%d", i, j))
				assert.NoError(t, f.Handle(context.Background(), r))
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 200)

	for _, line := range lines {
		parsed := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &parsed), "line %q", line)
	}
}
