package log

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Invicton-Labs/go-stackerr"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to decode log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger := New(NewInput{
		Name:          "test",
		Level:         zapcore.InfoLevel,
		InitialFields: map[string]any{"service": "hashtable"},
		OutputPaths:   []string{path},
	})
	logger.Debugw("hidden")
	logger.Infow("Resized", "capacity", 32)
	logger.With("extra", true).Warnf("%d entries", 5)

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if diff := cmp.Diff("Resized", entries[0]["msg"]); diff != "" {
		t.Errorf("Unexpected message (-want +got):\n%s", diff)
	}
	if entries[0]["logger"] != "test" || entries[0]["service"] != "hashtable" || entries[0]["capacity"] != float64(32) {
		t.Errorf("Missing fields in %v", entries[0])
	}
	if entries[1]["level"] != "warn" || entries[1]["msg"] != "5 entries" || entries[1]["extra"] != true {
		t.Errorf("Unexpected entry %v", entries[1])
	}

	if logger.Enabled(zapcore.DebugLevel) || !logger.Enabled(zapcore.InfoLevel) {
		t.Errorf("Unexpected enabled levels")
	}
}

func TestErrorFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger := New(NewInput{
		OutputPaths: []string{path},
	})
	err := stackerr.Errorf("key not found").With(map[string]any{"hashtable_code": "key_not_found"})
	logger.Error(err)
	logger.WithError(err).Infow("Lookup failed")
	if logger.WithError(nil) == nil {
		t.Errorf("Expected WithError(nil) to return the logger")
	}

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry["hashtable_code"] != "key_not_found" {
			t.Errorf("Expected the error fields to be logged, got %v", entry)
		}
	}
	if entries[0]["msg"] != err.Error() || entries[0]["level"] != "error" {
		t.Errorf("Unexpected error entry %v", entries[0])
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvDevelopment, "true")
	input := ConfigFromEnv()
	if input.Level != zapcore.DebugLevel || !input.IsDevelopment {
		t.Errorf("Unexpected config %+v", input)
	}

	t.Setenv(EnvLevel, "loud")
	t.Setenv(EnvDevelopment, "maybe")
	input = ConfigFromEnv()
	if input.Level != zapcore.InfoLevel || input.IsDevelopment {
		t.Errorf("Expected invalid values to fall back to defaults, got %+v", input)
	}
}

func TestDynamicDefaultLogger(t *testing.T) {
	original := Default().Config()
	t.Cleanup(func() {
		InitDefault(original)
	})

	ddl := NewDynamicDefaultLogger(func(input NewInput) NewInput {
		input.Name = "child"
		return input
	})
	defer ddl.Close()
	if ddl.Logger().Config().Name != "child" {
		t.Errorf("Expected the derived logger to be named")
	}

	if err := InitDefault(NewInput{Level: zapcore.WarnLevel, IsDevelopment: true}); err != nil {
		t.Fatalf("Failed to replace the default logger: %v", err)
	}
	if !ddl.IsDevelopment() || ddl.Logger().Enabled(zapcore.InfoLevel) {
		t.Errorf("Expected the derived logger to follow the new default")
	}

	if err := SweetenDefaultLogger(map[string]any{"region": "test"}); err != nil {
		t.Fatalf("Failed to sweeten: %v", err)
	}
	if ddl.Logger().Config().InitialFields["region"] != "test" {
		t.Errorf("Expected the derived logger to carry the new field")
	}
	if err := UnsweetenDefaultLogger([]string{"region"}); err != nil {
		t.Fatalf("Failed to unsweeten: %v", err)
	}
	if _, ok := Default().Config().InitialFields["region"]; ok {
		t.Errorf("Expected the field to be removed")
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Errorf("Expected the default logger without a context logger")
	}
	logger := New(NewInput{Name: "ctx"})
	ctx := LogContext(context.Background(), logger)
	if FromContext(ctx).Config().Name != "ctx" {
		t.Errorf("Expected the context logger")
	}
}
