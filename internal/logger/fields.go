package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the log field key for the feedback provider name.
	FieldProvider = "llm_provider"
	// FieldModel is the log field key for the model identifier.
	FieldModel = "llm_model"
	// FieldResume is the log field key for the resume being evaluated.
	FieldResume = "resume"
)

// WithFields attaches fields to logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// WithProvider attaches provider and model fields. Empty values are skipped.
func WithProvider(logger *zap.Logger, provider, model string) *zap.Logger {
	var fields []zap.Field
	if v := strings.TrimSpace(provider); v != "" {
		fields = append(fields, zap.String(FieldProvider, v))
	}
	if v := strings.TrimSpace(model); v != "" {
		fields = append(fields, zap.String(FieldModel, v))
	}
	return WithFields(logger, fields...)
}
