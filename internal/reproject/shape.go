// Package reproject applies projections to shapes: vector geometries are
// transformed point by point, rasters are resampled.
package reproject

import (
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/pspoerri/mapproj/internal/coord"
	"github.com/pspoerri/mapproj/internal/geom"
)

// transformFunc converts one coordinate pair.
type transformFunc func(a, b float64) (float64, float64, error)

// Forward projects s from longitude/latitude to p's map coordinates in place
// and recomputes its envelope. Raster shapes are resampled with ForwardImage.
func Forward(p coord.Projection, s *geom.Shape) error {
	if s.Kind() == geom.KindRaster {
		r, err := ForwardImage(p, s.Raster())
		if err != nil {
			return errors.Wrapf(err, "project %s forward", s.Kind())
		}
		s.SetRaster(r)
		return nil
	}
	return walk(s, p.Forward, "forward")
}

// Backward projects s from p's map coordinates to longitude/latitude in
// place and recomputes its envelope. Raster shapes are resampled with
// BackwardImage.
func Backward(p coord.Projection, s *geom.Shape) error {
	if s.Kind() == geom.KindRaster {
		r, err := BackwardImage(p, s.Raster())
		if err != nil {
			return errors.Wrapf(err, "project %s backward", s.Kind())
		}
		s.SetRaster(r)
		return nil
	}
	return walk(s, p.Backward, "backward")
}

// Reproject converts s from the map coordinates of from to those of to.
func Reproject(from, to coord.Projection, s *geom.Shape) error {
	if s.Kind() == geom.KindRaster {
		r, err := ReprojectImage(from, to, s.Raster())
		if err != nil {
			return errors.Wrapf(err, "reproject %s", s.Kind())
		}
		s.SetRaster(r)
		return nil
	}
	return walk(s, func(x, y float64) (float64, float64, error) {
		lon, lat, err := from.Backward(x, y)
		if err != nil {
			return 0, 0, err
		}
		return to.Forward(lon, lat)
	}, "reproject")
}

// walk applies fn to every coordinate of a vector shape. Slices are edited in
// place; the first failing coordinate aborts the walk and leaves the shape
// partially transformed.
func walk(s *geom.Shape, fn transformFunc, direction string) error {
	g, err := transformGeometry(s.Geometry(), fn)
	if err != nil {
		return errors.Wrapf(err, "project %s %s", s.Kind(), direction)
	}
	if err := s.SetGeometry(g); err != nil {
		return err
	}
	s.RecomputeEnvelope()
	return nil
}

func transformGeometry(g orb.Geometry, fn transformFunc) (orb.Geometry, error) {
	switch g := g.(type) {
	case orb.Point:
		return transformPoint(g, fn)
	case orb.MultiPoint:
		return g, transformPoints(g, fn)
	case orb.LineString:
		return g, transformPoints(g, fn)
	case orb.Ring:
		return g, transformPoints(g, fn)
	case orb.MultiLineString:
		for _, ls := range g {
			if err := transformPoints(ls, fn); err != nil {
				return nil, err
			}
		}
		return g, nil
	case orb.Polygon:
		return g, transformPolygon(g, fn)
	case orb.MultiPolygon:
		for _, poly := range g {
			if err := transformPolygon(poly, fn); err != nil {
				return nil, err
			}
		}
		return g, nil
	default:
		return nil, geom.ErrUnsupportedGeometry
	}
}

func transformPoint(pt orb.Point, fn transformFunc) (orb.Point, error) {
	x, y, err := fn(pt[0], pt[1])
	if err != nil {
		return pt, errors.Wrapf(err, "at (%v, %v)", pt[0], pt[1])
	}
	return orb.Point{x, y}, nil
}

func transformPoints(pts []orb.Point, fn transformFunc) error {
	for i, pt := range pts {
		q, err := transformPoint(pt, fn)
		if err != nil {
			return errors.Wrapf(err, "point %d", i)
		}
		pts[i] = q
	}
	return nil
}

func transformPolygon(poly orb.Polygon, fn transformFunc) error {
	for i, ring := range poly {
		if err := transformPoints(ring, fn); err != nil {
			return errors.Wrapf(err, "ring %d", i)
		}
	}
	return nil
}
