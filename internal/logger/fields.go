package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldSource is the structured log field key for the file or URL a document came from.
	FieldSource = "source"
	// FieldFormat is the structured log field key for the document format.
	FieldFormat = "format"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key, value := strings.TrimSpace(f.Key), strings.TrimSpace(f.Value)
		if key != "" && value != "" {
			result = append(result, zap.String(key, value))
		}
	}
	return result
}

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	switch {
	case logger == nil:
		return zap.NewNop().With(fields...)
	case len(fields) == 0:
		return logger
	default:
		return logger.With(fields...)
	}
}

// DocumentFields describes where a document came from. Empty values are ignored.
func DocumentFields(source, format string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSource, Value: source},
		StringField{Key: FieldFormat, Value: format},
	)
}

// WithDocument attaches the document fields to the provided logger.
func WithDocument(logger *zap.Logger, source, format string) *zap.Logger {
	return WithFields(logger, DocumentFields(source, format)...)
}
