package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"romfind/internal/logging"
)

func TestNewJSONEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "search")
	logger.Info("lookup complete", logging.Int("rows", 3), logging.String(logging.FieldDataset, "mame2003"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if record[logging.FieldComponent] != "search" {
		t.Fatalf("expected component field, got %#v", record)
	}
	if record[logging.FieldDataset] != "mame2003" {
		t.Fatalf("expected dataset field, got %#v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := logging.WithRequestID(context.Background(), "req-42")
	logging.WithContext(ctx, logger).Info("dispatch")

	if !strings.Contains(buf.String(), `"correlation_id":"req-42"`) {
		t.Fatalf("expected correlation id in output, got %s", buf.String())
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic", logging.Error(nil))
}
