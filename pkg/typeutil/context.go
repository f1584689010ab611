package typeutil

import (
	"context"
	"fmt"
)

// FromContext reads a typed value from the context. It returns nil when the
// key is absent or holds a different type.
func FromContext[T any](ctx context.Context, key any) *T {
	raw := ctx.Value(key)
	if raw == nil {
		return nil
	}

	typed, ok := raw.(*T)
	if !ok {
		return nil
	}

	return typed
}

type singletonKey string

func getSingletonKey[T any]() singletonKey {
	var dummy *T
	var name = fmt.Sprintf("%T", dummy)
	return singletonKey(name)
}

// FromContextSingleton reads the single value of type T from the context. The
// type itself serves as the key, so each type can only appear once per
// context.
func FromContextSingleton[T any](ctx context.Context) *T {
	return FromContext[T](ctx, getSingletonKey[T]())
}

// ContextWithValueSingleton stores the value in the context, keyed by its
// type. See FromContextSingleton.
func ContextWithValueSingleton[T any](ctx context.Context, value *T) context.Context {
	return context.WithValue(ctx, getSingletonKey[T](), value)
}
