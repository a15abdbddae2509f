package logging

import (
	"context"
	"maps"

	"github.com/aldo555/glossary-magic/pkg/interfaces"
)

type fieldsKey struct{}

// WithFields attaches fields to loggers implementing FieldsLogger. Nil values
// are dropped; other loggers are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil {
		return nil
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	cleaned := compact(fields)
	if len(cleaned) == 0 {
		return logger
	}
	return fieldsLogger.WithFields(cleaned)
}

// ContextWithFields stores fields on ctx, merged over any already present.
// The console logger reads them back when bound with WithContext.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil {
		return nil
	}
	cleaned := compact(fields)
	if len(cleaned) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = cleaned
	} else {
		maps.Copy(merged, cleaned)
	}
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

func compact(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		if value != nil {
			out[key] = value
		}
	}
	return out
}
