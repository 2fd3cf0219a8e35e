package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured log field keys shared across packages
const (
	FieldRunID       = "run_id"
	FieldJobID       = "job_id"
	FieldCandidateID = "candidate_id"
	FieldStage       = "stage"
)

// StringField is a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace and
// skipping entries whose key or value is empty.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// WithRun scopes a logger to one ranking run
func WithRun(logger *zap.Logger, runID string, jobID int64) *zap.Logger {
	fields := StringFields(StringField{Key: FieldRunID, Value: runID})
	fields = append(fields, zap.Int64(FieldJobID, jobID))
	return WithFields(logger, fields...)
}
