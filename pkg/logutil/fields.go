package logutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// FromStruct converts any struct into log attributes. Keys follow the
// logfield tag, untagged fields use their name:
//
//	type Instance struct {
//	    InstanceID   string `logfield:"instance-id"`
//	    InstanceName string `logfield:"instance-name"`
//	}
//
// Decode problems do not fail the log call, they surface as a logfield-error
// attribute instead. The attributes are sorted by key, so the output order is
// stable.
//
// See mapstructure docs for more information:
// https://pkg.go.dev/github.com/mitchellh/mapstructure?tab=doc
func FromStruct(s any) []slog.Attr {
	fields := map[string]any{}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "logfield",
		Result:  &fields,
	})
	if err == nil {
		err = dec.Decode(s)
	}
	if err != nil {
		fields = map[string]any{"logfield-error": err.Error()}
	}

	attrs := make([]slog.Attr, 0, len(fields))
	for key, value := range fields {
		attrs = append(attrs, slog.Any(key, value))
	}

	slices.SortFunc(attrs, func(a, b slog.Attr) int {
		return strings.Compare(a.Key, b.Key)
	})

	return attrs
}

// PrettyPrint prints the given struct in a readable form. It tries JSON
// first, and if it fails it falls back to fmt.Sprintf.
func PrettyPrint(v any) string {
	raw, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}

	return string(raw)
}
