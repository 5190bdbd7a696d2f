package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestNode_FloatRoundTrip(t *testing.T) {
	values := []float64{0, -2, 0.9996012717, 49.0000000001, 1e-17, 6378137}
	n := NewNode("Transverse Mercator")
	for _, v := range values {
		n.SetFloat("x", v)
		got, err := n.Float("x")
		if err != nil {
			t.Fatalf("Float(%v): %v", v, err)
		}
		if got != v {
			t.Errorf("Float round trip: got %v, want %v", got, v)
		}
	}
}

func TestNode_Errors(t *testing.T) {
	n := NewNode("Lambert Conformal Conic")
	n.Set("standard_parallel_1", "abc")

	_, err := n.Float("standard_parallel_2")
	if err == nil {
		t.Fatal("expected error for missing attribute")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error %v is not a *ConfigError", err)
	}
	if cfgErr.Attribute != "standard_parallel_2" || cfgErr.Projection != "Lambert Conformal Conic" {
		t.Errorf("ConfigError = %+v", cfgErr)
	}
	if !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("missing attribute error should wrap ErrMissingAttribute: %v", err)
	}

	_, err = n.Float("standard_parallel_1")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrMissingAttribute) {
		t.Error("parse error should not be reported as missing")
	}
	if !strings.Contains(err.Error(), "standard_parallel_1") || !strings.Contains(err.Error(), "Lambert Conformal Conic") {
		t.Errorf("error %q should name attribute and projection", err)
	}
}

func TestNode_Bool(t *testing.T) {
	n := NewNode("UTM")
	if v, err := n.Bool("follow_map", true); err != nil || !v {
		t.Errorf("Bool default = %v, %v", v, err)
	}
	n.SetBool("follow_map", false)
	if v, err := n.Bool("follow_map", true); err != nil || v {
		t.Errorf("Bool = %v, %v", v, err)
	}
	n.Set("follow_map", "maybe")
	if _, err := n.Bool("follow_map", true); err == nil {
		t.Error("expected error for malformed bool")
	}
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapproj.yaml")

	n := NewNode("UTM")
	n.SetInt("zone", 32)
	n.Set("hemisphere", "north")
	n.Set("ellipsoid", "WGS 84")

	in := &Settings{
		LogLevel:  "debug",
		LogFormat: "json",
		Projections: []ProjectionSpec{
			SpecFromNode("utm32n", n),
			{Name: "No Projection", Attributes: map[string]string{"ellipsoid": "WGS 84"}},
		},
	}
	if err := Write(path, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.LogLevel != "debug" || out.LogFormat != "json" {
		t.Errorf("log settings = %q/%q", out.LogLevel, out.LogFormat)
	}
	if len(out.Projections) != 2 {
		t.Fatalf("got %d projections, want 2", len(out.Projections))
	}

	node, err := out.Lookup("utm32n")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if node.Name != "UTM" {
		t.Errorf("node name = %q, want UTM", node.Name)
	}
	if zone, err := node.Int("zone"); err != nil || zone != 32 {
		t.Errorf("zone = %d, %v", zone, err)
	}

	if _, err := out.Lookup("no projection"); err != nil {
		t.Errorf("Lookup by name: %v", err)
	}
	if _, err := out.Lookup("missing"); err == nil {
		t.Error("expected error for unknown projection")
	}
}

func TestLoad_NumericAttributes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proj.yaml")
	data := `
projections:
  - id: lcc
    name: Lambert Conformal Conic
    attributes:
      standard_parallel_1: 33
      standard_parallel_2: 45.5
      ellipsoid: Clarke 1866
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	node, err := s.Lookup("lcc")
	if err != nil {
		t.Fatal(err)
	}
	if v, err := node.Float("standard_parallel_2"); err != nil || v != 45.5 {
		t.Errorf("standard_parallel_2 = %v, %v", v, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"ok", Settings{LogLevel: "info", LogFormat: "text"}, false},
		{"bad level", Settings{LogLevel: "loud", LogFormat: "text"}, true},
		{"bad format", Settings{LogLevel: "info", LogFormat: "xml"}, true},
		{"unnamed projection", Settings{LogLevel: "info", LogFormat: "text", Projections: []ProjectionSpec{{}}}, true},
		{"duplicate id", Settings{LogLevel: "info", LogFormat: "text", Projections: []ProjectionSpec{
			{Name: "UTM"}, {Name: "UTM"},
		}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for explicit missing file")
	}
}
