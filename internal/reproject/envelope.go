package reproject

import (
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/pspoerri/mapproj/internal/coord"
)

// envelopeSamples returns the four corners and four edge midpoints of b.
func envelopeSamples(b orb.Bound) [8]orb.Point {
	minX, minY := b.Min.X(), b.Min.Y()
	maxX, maxY := b.Max.X(), b.Max.Y()
	midX := (minX + maxX) / 2
	midY := (minY + maxY) / 2
	return [8]orb.Point{
		{minX, minY}, {midX, minY}, {maxX, minY},
		{maxX, midY},
		{maxX, maxY}, {midX, maxY}, {minX, maxY},
		{minX, midY},
	}
}

// projectEnvelope transforms the eight samples of b and returns their
// bounding box. The result approximates the transformed region: an edge that
// bulges outward between samples is not covered.
func projectEnvelope(b orb.Bound, fn transformFunc) (orb.Bound, error) {
	var out orb.Bound
	for i, pt := range envelopeSamples(b) {
		x, y, err := fn(pt[0], pt[1])
		if err != nil {
			return orb.Bound{}, errors.Wrapf(err, "envelope sample (%v, %v)", pt[0], pt[1])
		}
		q := orb.Point{x, y}
		if i == 0 {
			out = orb.Bound{Min: q, Max: q}
			continue
		}
		out = out.Extend(q)
	}
	return out, nil
}

// ForwardEnvelope projects a longitude/latitude envelope to map coordinates.
func ForwardEnvelope(p coord.Projection, b orb.Bound) (orb.Bound, error) {
	return projectEnvelope(b, p.Forward)
}

// BackwardEnvelope projects a map envelope to longitude/latitude.
func BackwardEnvelope(p coord.Projection, b orb.Bound) (orb.Bound, error) {
	return projectEnvelope(b, p.Backward)
}

// ReprojectEnvelope converts an envelope in from's map coordinates to to's.
func ReprojectEnvelope(from, to coord.Projection, b orb.Bound) (orb.Bound, error) {
	geo, err := BackwardEnvelope(from, b)
	if err != nil {
		return orb.Bound{}, err
	}
	return ForwardEnvelope(to, geo)
}
