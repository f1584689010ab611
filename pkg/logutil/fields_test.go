package logutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStruct(t *testing.T) {
	type item struct {
		ItemID  int    `logfield:"item-id"`
		Segment string `logfield:"segment"`
	}

	attrs := FromStruct(item{ItemID: 42, Segment: "electronics"})

	require.Len(t, attrs, 2)
	assert.Equal(t, "item-id", attrs[0].Key)
	assert.Equal(t, int64(42), attrs[0].Value.Int64())
	assert.Equal(t, "segment", attrs[1].Key)
	assert.Equal(t, "electronics", attrs[1].Value.String())
}

func TestFromStructUntaggedFieldsUseTheirName(t *testing.T) {
	type payload struct {
		Count int
	}

	attrs := FromStruct(payload{Count: 3})

	require.Len(t, attrs, 1)
	assert.Equal(t, "Count", attrs[0].Key)
}

func TestFromStructWithUndecodableValue(t *testing.T) {
	attrs := FromStruct("not a struct")

	require.Len(t, attrs, 1)
	assert.Equal(t, "logfield-error", attrs[0].Key)
	assert.NotEmpty(t, attrs[0].Value.String())
}

func TestPrettyPrint(t *testing.T) {
	out := PrettyPrint(map[string]int{"a": 1})
	assert.Equal(t, "{\n    \"a\": 1\n}", out)
}

func TestPrettyPrintFallsBack(t *testing.T) {
	out := PrettyPrint(func() {})
	assert.NotEmpty(t, out)
}

func TestLoggerAttachesName(t *testing.T) {
	buf := new(bytes.Buffer)
	previous := slog.Default()
	defer slog.SetDefault(previous)
	slog.SetDefault(slog.New(newTestFormatter(buf)))

	Logger("importer").Info("named record")

	parsed := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "importer", parsed["logger"])
}
