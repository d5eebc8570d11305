package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestSetupWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf)

	l.Info("sample submitted", slog.String("journey_id", "j-1"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log output: %v (raw: %s)", err, buf.String())
	}
	if entry["msg"] != "sample submitted" {
		t.Fatalf("msg = %q", entry["msg"])
	}
	if entry["journey_id"] != "j-1" {
		t.Fatalf("journey_id = %q", entry["journey_id"])
	}
}

func TestSetupNilWriterDefaultsToStdout(t *testing.T) {
	if l := Setup(nil); l == nil {
		t.Fatal("expected non-nil logger")
	}
}
