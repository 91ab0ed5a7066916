package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNew_WritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("ignored")
	if buf.Len() != 0 {
		t.Fatalf("info record written below warn level: %s", buf.String())
	}

	logger.Warn("cache unavailable", FieldComponent, ComponentCache, FieldPeriod, "2024-06")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("record is not JSON: %v (%s)", err, buf.String())
	}
	if record["msg"] != "cache unavailable" || record[FieldComponent] != ComponentCache || record[FieldPeriod] != "2024-06" {
		t.Errorf("unexpected record %v", record)
	}
}
