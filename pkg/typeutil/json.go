package typeutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// JSONBytes wraps a byte count so it stays a plain number on the wire, but
// renders human readable in logs and CLI output.
type JSONBytes struct {
	Size int64
}

func (b JSONBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Size)
}

func (b *JSONBytes) UnmarshalJSON(data []byte) error {
	err := json.Unmarshal(data, &b.Size)
	if err != nil {
		return fmt.Errorf("unmarshal byte size: %w", err)
	}

	return nil
}

// String formats the byte count with a binary unit prefix. It always keeps
// four significant digits, so values align nicely in tabular output.
func (b JSONBytes) String() string {
	if b.Size < 1024 {
		return fmt.Sprintf("%dB", b.Size)
	}

	size := float64(b.Size)
	units := []string{"KiB", "MiB", "GiB", "TiB"}

	for i, unit := range units {
		size = size / 1024

		if size >= 1024 && i < len(units)-1 {
			continue
		}

		switch {
		case size < 10:
			return fmt.Sprintf("%.3f%s", size, unit)
		case size < 100:
			return fmt.Sprintf("%.2f%s", size, unit)
		default:
			return fmt.Sprintf("%.1f%s", size, unit)
		}
	}

	// Unreachable, the loop always returns on the last unit.
	return fmt.Sprintf("%dB", b.Size)
}

func (b JSONBytes) LogValue() slog.Value {
	return slog.StringValue(b.String())
}
