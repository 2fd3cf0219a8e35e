package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/schemas"
)

// writeJSON writes data as indented JSON to path, or to w when path is empty.
// When schemaFile can be found, the written document is checked against it; a mismatch
// is logged and does not fail the command.
func writeJSON(w io.Writer, path string, data any, schemaFile string, log *zap.Logger) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}

	if path == "" {
		if _, err := fmt.Fprintln(w, string(out)); err != nil {
			return err
		}
		checkOutput(schemaFile, log, func(schemaPath string) error {
			return schemas.ValidateBytes(schemaPath, out)
		})
		return nil
	}

	// Ensure output directory exists
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}

	checkOutput(schemaFile, log, func(schemaPath string) error {
		return schemas.ValidateJSON(schemaPath, path)
	})
	return nil
}

// checkOutput runs validate against the resolved schemaFile and logs a mismatch
func checkOutput(schemaFile string, log *zap.Logger, validate func(schemaPath string) error) {
	if schemaFile == "" {
		return
	}
	schemaPath := schemas.ResolveSchemaPath(schemaFile)
	if schemaPath == "" {
		log.Debug("schema not found, output not validated", zap.String("schema", schemaFile))
		return
	}
	if err := validate(schemaPath); err != nil {
		log.Warn("output does not match schema", zap.String("schema", schemaFile), zap.Error(err))
	}
}

// progressPrinter reports stage progress on w
func progressPrinter(w io.Writer) pipeline.ProgressCallback {
	return func(event pipeline.ProgressEvent) {
		fmt.Fprintf(w, "[%s] %s\n", event.Step, event.Message) //nolint:errcheck
	}
}
