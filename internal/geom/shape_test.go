package geom

import (
	"image"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		geom orb.Geometry
		want Kind
	}{
		{orb.Point{1, 2}, KindPoint},
		{orb.MultiPoint{{1, 2}}, KindMultiPoint},
		{orb.LineString{{0, 0}, {1, 1}}, KindLineString},
		{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, KindLinearRing},
		{orb.MultiLineString{{{0, 0}, {1, 1}}}, KindMultiLineString},
		{orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, KindPolygon},
		{orb.MultiPolygon{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, KindMultiPolygon},
	}
	for _, tt := range tests {
		got, err := KindOf(tt.geom)
		if err != nil {
			t.Errorf("KindOf(%T): %v", tt.geom, err)
			continue
		}
		if got != tt.want {
			t.Errorf("KindOf(%T) = %v, want %v", tt.geom, got, tt.want)
		}
	}

	for _, g := range []orb.Geometry{nil, orb.Collection{orb.Point{1, 2}}, orb.Bound{}} {
		if _, err := New(g); !errors.Is(err, ErrUnsupportedGeometry) {
			t.Errorf("New(%T) error = %v, want ErrUnsupportedGeometry", g, err)
		}
	}
}

func TestEnvelope(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
		want orb.Bound
	}{
		{"point", orb.Point{3, -4}, orb.Bound{Min: orb.Point{3, -4}, Max: orb.Point{3, -4}}},
		{"line", orb.LineString{{0, 5}, {-2, 1}, {4, 3}}, orb.Bound{Min: orb.Point{-2, 1}, Max: orb.Point{4, 5}}},
		{
			"multipolygon",
			orb.MultiPolygon{
				{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
				{{{10, 10}, {12, 10}, {12, 13}, {10, 10}}},
			},
			orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{12, 13}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.geom)
			if err != nil {
				t.Fatal(err)
			}
			if got := s.Envelope(); !got.Equal(tt.want) {
				t.Errorf("Envelope() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvelopeCache(t *testing.T) {
	ls := orb.LineString{{0, 0}, {1, 1}}
	s, _ := New(ls)
	before := s.Envelope()

	// In-place edits are not seen until the cache is dropped.
	ls[1] = orb.Point{5, 5}
	if got := s.Envelope(); !got.Equal(before) {
		t.Errorf("cached envelope changed to %v", got)
	}
	s.Invalidate()
	want := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{5, 5}}
	if got := s.Envelope(); !got.Equal(want) {
		t.Errorf("after Invalidate: %v, want %v", got, want)
	}

	ls[0] = orb.Point{-1, -1}
	want.Min = orb.Point{-1, -1}
	if got := s.RecomputeEnvelope(); !got.Equal(want) {
		t.Errorf("RecomputeEnvelope() = %v, want %v", got, want)
	}

	if err := s.SetGeometry(orb.Point{7, 8}); err != nil {
		t.Fatal(err)
	}
	if s.Kind() != KindPoint || !s.Envelope().Equal(orb.Point{7, 8}.Bound()) {
		t.Errorf("after SetGeometry: kind %v envelope %v", s.Kind(), s.Envelope())
	}
}

func TestRasterShape(t *testing.T) {
	r := &Raster{
		Image: image.NewRGBA(image.Rect(0, 0, 4, 2)),
		Bound: orb.Bound{Min: orb.Point{10, 20}, Max: orb.Point{14, 22}},
	}
	s := NewRaster(r)
	if s.Kind() != KindRaster || s.Raster() != r || s.Geometry() != nil {
		t.Fatalf("NewRaster: kind %v", s.Kind())
	}
	if !s.Envelope().Equal(r.Bound) {
		t.Errorf("Envelope() = %v, want %v", s.Envelope(), r.Bound)
	}

	s.SetRaster(&Raster{Image: r.Image, Bound: orb.Bound{Max: orb.Point{1, 1}}})
	if got := s.Envelope(); got.Max.X() != 1 {
		t.Errorf("SetRaster did not refresh the envelope: %v", got)
	}
}

func TestEmptyShape(t *testing.T) {
	s, err := New(orb.LineString{})
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsEmpty() {
		t.Error("empty line string not reported empty")
	}
	if got := s.Envelope(); !got.Equal(orb.Bound{}) {
		t.Errorf("Envelope() = %v, want zero bound", got)
	}
	s, _ = New(orb.Polygon{{}})
	if !s.IsEmpty() {
		t.Error("polygon with an empty ring not reported empty")
	}
}

func TestKindString(t *testing.T) {
	if KindMultiPolygon.String() != "multipolygon" || KindRaster.String() != "raster" || Kind(99).String() != "unknown" {
		t.Error("unexpected Kind names")
	}
}

func TestNewBound(t *testing.T) {
	b := NewBound(5, -1, 2, 3)
	want := orb.Bound{Min: orb.Point{2, -1}, Max: orb.Point{5, 3}}
	if !b.Equal(want) {
		t.Errorf("NewBound = %v, want %v", b, want)
	}
}
