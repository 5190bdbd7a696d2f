package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// writeSettings puts a quiet settings file into a temp dir.
func writeSettings(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapproj.yaml")
	if err := os.WriteFile(path, []byte("log_level: error\nlog_format: text\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunForward(t *testing.T) {
	// Caister water tower, the Ordnance Survey worked example.
	lat := 52 + 39.0/60 + 27.2531/3600
	lon := 1 + 43.0/60 + 4.5177/3600

	tests := []struct {
		digits string
		want   string
	}{
		{"10", "TG 51409 13177"},
		{"6", "TG 514 131"},
		{"0", "TG"},
	}
	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			var out bytes.Buffer
			err := run([]string{
				"-config", writeSettings(t),
				"-lat", strconv.FormatFloat(lat, 'f', -1, 64),
				"-lon", strconv.FormatFloat(lon, 'f', -1, 64),
				"-digits", tt.digits,
			}, &out)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), "Reference:     "+tt.want+"\n") {
				t.Errorf("output %q does not contain reference %q", out.String(), tt.want)
			}
			if !strings.Contains(out.String(), "Easting:       6514") {
				t.Errorf("output %q has the wrong easting", out.String())
			}
		})
	}
}

func TestRunParse(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-config", writeSettings(t), "-parse", "TG 51409 13177"}, &out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Easting:       651409\n", "Northing:      313177\n", "Latitude:      52.6575", "Longitude:     1.7179"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q does not contain %q", out.String(), want)
		}
	}
}

func TestRunErrors(t *testing.T) {
	cfg := writeSettings(t)
	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{"no point", []string{"-config", cfg}, true},
		{"unknown flag", []string{"-zone", "4"}, true},
		{"bad reference", []string{"-config", cfg, "-parse", "XX 1"}, false},
		{"odd digits", []string{"-config", cfg, "-lat", "52", "-lon", "0", "-digits", "5"}, false},
		{"outside grid", []string{"-config", cfg, "-lat", "40", "-lon", "-30"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, &out)
			if err == nil {
				t.Fatalf("expected error, output %q", out.String())
			}
			if got := errors.Is(err, errUsage); got != tt.usage {
				t.Errorf("usage error = %v, want %v (%v)", got, tt.usage, err)
			}
		})
	}
}
