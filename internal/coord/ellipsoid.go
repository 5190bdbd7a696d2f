package coord

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pspoerri/mapproj/internal/config"
)

// Ellipsoid describes the reference ellipsoid a projection works on.
// It is a value type; copying it is cheap and safe.
type Ellipsoid struct {
	MajorAxis float64 // semi-major axis a
	MinorAxis float64 // semi-minor axis b
	Unit      string  // unit of both axes and of projected coordinates
	Name      string
}

// Predefined ellipsoids.
var (
	WGS84             = Ellipsoid{MajorAxis: 6378137.0, MinorAxis: 6356752.314245179, Unit: "m", Name: "WGS 84"}
	GRS80             = Ellipsoid{MajorAxis: 6378137.0, MinorAxis: 6356752.314140347, Unit: "m", Name: "GRS 80"}
	Airy1830          = Ellipsoid{MajorAxis: 6377563.396, MinorAxis: 6356256.909, Unit: "m", Name: "Airy 1830"}
	Clarke1866        = Ellipsoid{MajorAxis: 6378206.4, MinorAxis: 6356583.8, Unit: "m", Name: "Clarke 1866"}
	International1924 = Ellipsoid{MajorAxis: 6378388.0, MinorAxis: 6356911.946127947, Unit: "m", Name: "International 1924"}
	Bessel1841        = Ellipsoid{MajorAxis: 6377397.155, MinorAxis: 6356078.962818189, Unit: "m", Name: "Bessel 1841"}
	Sphere            = Ellipsoid{MajorAxis: 6370997.0, MinorAxis: 6370997.0, Unit: "m", Name: "Sphere"}
)

var knownEllipsoids = []Ellipsoid{WGS84, GRS80, Airy1830, Clarke1866, International1924, Bessel1841, Sphere}

// NewEllipsoid validates the axes and returns a custom ellipsoid.
func NewEllipsoid(name string, major, minor float64, unit string) (Ellipsoid, error) {
	if !(minor > 0) || !(major > 0) {
		return Ellipsoid{}, &config.ConfigError{Projection: "ellipsoid " + name, Err: errors.Newf("axes must be positive (a=%v, b=%v)", major, minor)}
	}
	if minor > major {
		return Ellipsoid{}, &config.ConfigError{Projection: "ellipsoid " + name, Err: errors.Newf("minor axis %v exceeds major axis %v", minor, major)}
	}
	if unit == "" {
		unit = "m"
	}
	return Ellipsoid{MajorAxis: major, MinorAxis: minor, Unit: unit, Name: name}, nil
}

// EllipsoidByName looks up a predefined ellipsoid, ignoring case and
// spaces ("wgs84" matches "WGS 84").
func EllipsoidByName(name string) (Ellipsoid, bool) {
	key := squash(name)
	for _, e := range knownEllipsoids {
		if squash(e.Name) == key {
			return e, true
		}
	}
	return Ellipsoid{}, false
}

func squash(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}

// E2 returns the squared first eccentricity (a²−b²)/a².
func (e Ellipsoid) E2() float64 {
	a2 := e.MajorAxis * e.MajorAxis
	return (a2 - e.MinorAxis*e.MinorAxis) / a2
}

// E returns the first eccentricity.
func (e Ellipsoid) E() float64 {
	return math.Sqrt(e.E2())
}

// IsSphere reports whether the eccentricity is negligible.
func (e Ellipsoid) IsSphere() bool {
	return e.E2() < 1e-12
}

func (e Ellipsoid) writeNode(n *config.Node) {
	n.Set("ellipsoid", e.Name)
	n.SetFloat("semi_major_axis", e.MajorAxis)
	n.SetFloat("semi_minor_axis", e.MinorAxis)
	if e.Unit != "" && e.Unit != "m" {
		n.Set("unit", e.Unit)
	}
}

// ellipsoidFromNode resolves the ellipsoid attribute. Explicit axes take
// precedence so custom ellipsoids survive an export/import cycle; a known
// name alone is enough otherwise.
func ellipsoidFromNode(n *config.Node) (Ellipsoid, error) {
	name, err := n.String("ellipsoid")
	if err != nil {
		return Ellipsoid{}, err
	}
	unit, _ := n.Get("unit")
	if n.Has("semi_major_axis") || n.Has("semi_minor_axis") {
		a, err := n.Float("semi_major_axis")
		if err != nil {
			return Ellipsoid{}, err
		}
		b, err := n.Float("semi_minor_axis")
		if err != nil {
			return Ellipsoid{}, err
		}
		e, err := NewEllipsoid(name, a, b, unit)
		if err != nil {
			return Ellipsoid{}, n.Errorf("semi_minor_axis", "%v", err)
		}
		return e, nil
	}
	e, ok := EllipsoidByName(name)
	if !ok {
		return Ellipsoid{}, n.Errorf("ellipsoid", "unknown ellipsoid %q", name)
	}
	if unit != "" {
		e.Unit = unit
	}
	return e, nil
}
