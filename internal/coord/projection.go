package coord

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pspoerri/mapproj/internal/config"
)

// Display names. They double as configuration node names.
const (
	NameNoProjection          = "No Projection"
	NameTransverseMercator    = "Transverse Mercator"
	NameUTM                   = "UTM"
	NameNationalGrid          = "British National Grid"
	NameLambertConformalConic = "Lambert Conformal Conic"
	NameAlbersEqualArea       = "Albers Equal Area"
)

// ErrNonFinite is returned when a coordinate passed to a transform is NaN or infinite.
var ErrNonFinite = errors.New("non-finite coordinate")

// Projection converts between geographic longitude/latitude (degrees) and
// planar map coordinates.
//
// Parameter setters invalidate cached constants which are rebuilt on the
// next Forward or Backward call. An instance must not be mutated while
// other goroutines use it; once warmed by one call, concurrent read-only
// use is safe. Use Clone to get an independent copy.
type Projection interface {
	// Name returns the display name, which is also the config node name.
	Name() string

	// UnitOfMeasure returns the linear unit of projected coordinates.
	UnitOfMeasure() string

	// Forward converts longitude/latitude (degrees) to map coordinates.
	Forward(lon, lat float64) (x, y float64, err error)

	// Backward converts map coordinates to longitude/latitude (degrees).
	Backward(x, y float64) (lon, lat float64, err error)

	// Node exports the parameters to a configuration node.
	Node() *config.Node

	// Clone returns a deep copy.
	Clone() Projection
}

// FromNode builds the projection described by n. The node name selects the
// variant.
func FromNode(n *config.Node) (Projection, error) {
	switch squash(n.Name) {
	case squash(NameNoProjection):
		return NoProjectionFromNode(n)
	case squash(NameTransverseMercator):
		return TransverseMercatorFromNode(n)
	case squash(NameUTM):
		return UTMFromNode(n)
	case squash(NameNationalGrid):
		return NationalGridFromNode(n)
	case squash(NameLambertConformalConic):
		return LambertConformalConicFromNode(n)
	case squash(NameAlbersEqualArea):
		return AlbersEqualAreaFromNode(n)
	default:
		return nil, &config.ConfigError{Projection: n.Name, Err: errors.New("unknown projection")}
	}
}

// Names lists the display names of all projection variants.
func Names() []string {
	return []string{
		NameNoProjection,
		NameTransverseMercator,
		NameUTM,
		NameNationalGrid,
		NameLambertConformalConic,
		NameAlbersEqualArea,
	}
}

// ForName returns a projection with default parameters for the given
// display name, or nil if the name is unknown.
func ForName(name string) Projection {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case strings.ToLower(NameNoProjection):
		return NewNoProjection(WGS84)
	case strings.ToLower(NameTransverseMercator):
		return NewTransverseMercator(WGS84)
	case strings.ToLower(NameUTM):
		u, _ := NewUTM(31, false)
		return u
	case strings.ToLower(NameNationalGrid):
		return NewNationalGrid()
	case strings.ToLower(NameLambertConformalConic):
		return NewLambertConformalConic(WGS84)
	case strings.ToLower(NameAlbersEqualArea):
		return NewAlbersEqualArea(WGS84)
	default:
		return nil
	}
}

// ForEPSG returns a Projection for the given EPSG code.
// Returns nil if the EPSG code is not supported.
func ForEPSG(epsg int) Projection {
	switch {
	case epsg == 4326:
		return NewNoProjection(WGS84)
	case epsg == 27700:
		return NewNationalGrid()
	case epsg >= 32601 && epsg <= 32660:
		u, _ := NewUTM(epsg-32600, false)
		return u
	case epsg >= 32701 && epsg <= 32760:
		u, _ := NewUTM(epsg-32700, true)
		return u
	default:
		return nil
	}
}

func checkFinite(a, b float64) error {
	if !finite2(a, b) {
		return errors.Wrapf(ErrNonFinite, "(%v, %v)", a, b)
	}
	return nil
}
