// Package geom holds the shapes a projection can be applied to: vector
// geometries from orb and georeferenced raster images, each with a cached
// envelope.
package geom

import (
	"image"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
)

// ErrUnsupportedGeometry is returned for orb geometries outside the shape set,
// such as collections and bounds.
var ErrUnsupportedGeometry = errors.New("unsupported geometry")

// Kind identifies the variant held by a Shape.
type Kind int

const (
	KindPoint Kind = iota
	KindMultiPoint
	KindLineString
	KindLinearRing
	KindMultiLineString
	KindPolygon
	KindMultiPolygon
	KindRaster
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindMultiPoint:
		return "multipoint"
	case KindLineString:
		return "linestring"
	case KindLinearRing:
		return "linearring"
	case KindMultiLineString:
		return "multilinestring"
	case KindPolygon:
		return "polygon"
	case KindMultiPolygon:
		return "multipolygon"
	case KindRaster:
		return "raster"
	default:
		return "unknown"
	}
}

// Raster is an image covering Bound in map or geographic coordinates.
// Pixel (0, 0) is the top-left corner, at (Bound.Min.X, Bound.Max.Y).
type Raster struct {
	Image image.Image
	Bound orb.Bound
}

// Shape is one geometry or raster plus its envelope. The envelope is computed
// on first use and kept until Invalidate or a setter clears it; code that
// edits the geometry in place must call Invalidate.
type Shape struct {
	kind     Kind
	geometry orb.Geometry
	raster   *Raster

	envelope orb.Bound
	valid    bool
}

// New wraps an orb geometry.
func New(g orb.Geometry) (*Shape, error) {
	s := &Shape{}
	if err := s.SetGeometry(g); err != nil {
		return nil, err
	}
	return s, nil
}

// NewRaster wraps a raster. Its envelope is the raster bound.
func NewRaster(r *Raster) *Shape {
	return &Shape{kind: KindRaster, raster: r}
}

// KindOf reports the Kind for an orb geometry.
func KindOf(g orb.Geometry) (Kind, error) {
	switch g.(type) {
	case orb.Point:
		return KindPoint, nil
	case orb.MultiPoint:
		return KindMultiPoint, nil
	case orb.LineString:
		return KindLineString, nil
	case orb.Ring:
		return KindLinearRing, nil
	case orb.MultiLineString:
		return KindMultiLineString, nil
	case orb.Polygon:
		return KindPolygon, nil
	case orb.MultiPolygon:
		return KindMultiPolygon, nil
	case nil:
		return 0, errors.Wrap(ErrUnsupportedGeometry, "nil geometry")
	default:
		return 0, errors.Wrapf(ErrUnsupportedGeometry, "%s", g.GeoJSONType())
	}
}

func (s *Shape) Kind() Kind { return s.kind }

// Geometry returns the vector geometry, or nil for a raster.
func (s *Shape) Geometry() orb.Geometry { return s.geometry }

// Raster returns the raster, or nil for a vector shape.
func (s *Shape) Raster() *Raster { return s.raster }

// SetGeometry replaces the shape's content with g.
func (s *Shape) SetGeometry(g orb.Geometry) error {
	kind, err := KindOf(g)
	if err != nil {
		return err
	}
	s.kind = kind
	s.geometry = g
	s.raster = nil
	s.valid = false
	return nil
}

// SetRaster replaces the shape's content with r.
func (s *Shape) SetRaster(r *Raster) {
	s.kind = KindRaster
	s.geometry = nil
	s.raster = r
	s.valid = false
}

// Invalidate drops the cached envelope.
func (s *Shape) Invalidate() { s.valid = false }

// Envelope returns the bounding box of the shape. Empty shapes report the
// zero bound; use IsEmpty to tell them apart.
func (s *Shape) Envelope() orb.Bound {
	if !s.valid {
		s.envelope = s.computeEnvelope()
		s.valid = true
	}
	return s.envelope
}

// RecomputeEnvelope recomputes and caches the envelope.
func (s *Shape) RecomputeEnvelope() orb.Bound {
	s.valid = false
	return s.Envelope()
}

// IsEmpty reports whether the shape has no coordinates.
func (s *Shape) IsEmpty() bool {
	if s.kind == KindRaster {
		return s.raster == nil
	}
	return s.geometry == nil || pointCount(s.geometry) == 0
}

func (s *Shape) computeEnvelope() orb.Bound {
	if s.kind == KindRaster {
		if s.raster == nil {
			return orb.Bound{}
		}
		return s.raster.Bound
	}
	if s.IsEmpty() {
		return orb.Bound{}
	}
	return s.geometry.Bound()
}

func pointCount(g orb.Geometry) int {
	switch g := g.(type) {
	case orb.Point:
		return 1
	case orb.MultiPoint:
		return len(g)
	case orb.LineString:
		return len(g)
	case orb.Ring:
		return len(g)
	case orb.MultiLineString:
		n := 0
		for _, ls := range g {
			n += len(ls)
		}
		return n
	case orb.Polygon:
		n := 0
		for _, r := range g {
			n += len(r)
		}
		return n
	case orb.MultiPolygon:
		n := 0
		for _, p := range g {
			n += pointCount(p)
		}
		return n
	}
	return 0
}

// NewBound returns the bound spanned by two corner points in any order.
func NewBound(x1, y1, x2, y2 float64) orb.Bound {
	b := orb.Bound{Min: orb.Point{x1, y1}, Max: orb.Point{x1, y1}}
	return b.Extend(orb.Point{x2, y2})
}
