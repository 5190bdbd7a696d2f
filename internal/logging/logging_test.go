package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level    string
		debugOut bool
		warnOut  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"warn", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, tt.level, "text")
			log.Debug("dbg")
			if got := strings.Contains(buf.String(), "dbg"); got != tt.debugOut {
				t.Errorf("debug logged = %v, want %v", got, tt.debugOut)
			}
			log.Warn("wrn")
			if got := strings.Contains(buf.String(), "wrn"); got != tt.warnOut {
				t.Errorf("warn logged = %v, want %v", got, tt.warnOut)
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json").Info("converged", "iterations", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output %q is not JSON: %v", buf.String(), err)
	}
	if rec["msg"] != "converged" || rec["iterations"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "text").Info("hello", "zone", 32)
	if out := buf.String(); !strings.Contains(out, "msg=hello") || !strings.Contains(out, "zone=32") {
		t.Errorf("text output = %q", out)
	}
}
