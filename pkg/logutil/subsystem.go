package logutil

import (
	"context"
	"log/slog"

	"github.com/retra-de/retra-go-sdk/pkg/typeutil"
)

type subsystem string

// Start marks the context as belonging to a named subsystem, typically a
// background worker. The name keys the health metrics of the subsystem and
// becomes the logger field of records emitted through Get.
func Start(ctx context.Context, name string) context.Context {
	s := subsystem(name)
	return typeutil.ContextWithValueSingleton(ctx, &s)
}

// GetSubsystem returns the subsystem name of the context. It returns an
// empty string if Start was never called.
func GetSubsystem(ctx context.Context) string {
	s := typeutil.FromContextSingleton[subsystem](ctx)
	if s == nil {
		return ""
	}

	return string(*s)
}

// Get returns a logger that is named after the context's subsystem. It falls
// back to the default logger when the context does not belong to one.
func Get(ctx context.Context) *slog.Logger {
	name := GetSubsystem(ctx)
	if name == "" {
		return slog.Default()
	}

	return Logger(name)
}
