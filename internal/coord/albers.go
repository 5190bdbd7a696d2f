package coord

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/pspoerri/mapproj/internal/config"
)

const albersTolerance = 1e-10

// AlbersEqualArea is the two standard parallel Albers equal-area conic
// projection. Spheres use the closed spherical formulas; ellipsoids use the
// authalic function q(φ).
type AlbersEqualArea struct {
	params
	lat1, lat2 float64 // standard parallels, degrees

	// derived by setup
	sphere bool
	n      float64
	c      float64
	rho0   float64
	qp     float64 // q at the north pole
}

// NewAlbersEqualArea returns a projection with standard parallels at 29.5°
// and 45.5° and origin (0, 0).
func NewAlbersEqualArea(ell Ellipsoid) *AlbersEqualArea {
	return &AlbersEqualArea{params: newParams(ell), lat1: 29.5, lat2: 45.5}
}

func (p *AlbersEqualArea) Name() string { return NameAlbersEqualArea }

func (p *AlbersEqualArea) StandardParallels() (lat1, lat2 float64) {
	return p.lat1, p.lat2
}

func (p *AlbersEqualArea) SetStandardParallels(lat1, lat2 float64) error {
	if err := checkParallels(lat1, lat2); err != nil {
		return errors.Wrap(err, "albers equal area")
	}
	p.lat1, p.lat2 = lat1, lat2
	p.ready = false
	return nil
}

// qsfn is the authalic function q(φ).
func qsfn(e, es, sinphi float64) float64 {
	if e < 1e-7 {
		return 2 * sinphi
	}
	con := e * sinphi
	return (1 - es) * (sinphi/(1-con*con) - (0.5/e)*math.Log((1-con)/(1+con)))
}

func (p *AlbersEqualArea) setup() {
	if p.ready {
		return
	}
	p.setupParams()
	a := p.ellipsoid.MajorAxis
	p.sphere = p.ellipsoid.IsSphere()

	phi1 := p.lat1 * deg2rad
	phi2 := p.lat2 * deg2rad
	sin1, cos1 := math.Sincos(phi1)
	sin2, cos2 := math.Sincos(phi2)
	sin0 := math.Sin(p.originLat * deg2rad)

	if p.sphere {
		p.n = (sin1 + sin2) / 2
		p.c = cos1*cos1 + 2*p.n*sin1
		p.rho0 = a * math.Sqrt(math.Max(0, p.c-2*p.n*sin0)) / p.n
		p.qp = 2
	} else {
		m1 := msfn(p.e, sin1, cos1)
		m2 := msfn(p.e, sin2, cos2)
		q1 := qsfn(p.e, p.es, sin1)
		q2 := qsfn(p.e, p.es, sin2)
		q0 := qsfn(p.e, p.es, sin0)
		if math.Abs(phi1-phi2) > 1e-10 {
			p.n = (m1*m1 - m2*m2) / (q2 - q1)
		} else {
			p.n = sin1
		}
		p.c = m1*m1 + p.n*q1
		p.rho0 = a * math.Sqrt(math.Max(0, p.c-p.n*q0)) / p.n
		p.qp = qsfn(p.e, p.es, 1)
	}
	p.ready = true
}

func (p *AlbersEqualArea) Forward(lon, lat float64) (x, y float64, err error) {
	if err := checkFinite(lon, lat); err != nil {
		return 0, 0, err
	}
	p.setup()
	a := p.ellipsoid.MajorAxis

	sinphi := math.Sin(lat * deg2rad)
	var rho float64
	if p.sphere {
		rho = a * math.Sqrt(math.Max(0, p.c-2*p.n*sinphi)) / p.n
	} else {
		rho = a * math.Sqrt(math.Max(0, p.c-p.n*qsfn(p.e, p.es, sinphi))) / p.n
	}
	theta := p.n * normalizeLon(lon-p.originLon) * deg2rad
	sinT, cosT := math.Sincos(theta)
	x = p.falseEasting + rho*sinT
	y = p.falseNorthing + p.rho0 - rho*cosT
	if !finite2(x, y) {
		return p.falseEasting, p.falseNorthing + p.rho0, nil
	}
	return x, y, nil
}

func (p *AlbersEqualArea) Backward(x, y float64) (lon, lat float64, err error) {
	if err := checkFinite(x, y); err != nil {
		return 0, 0, err
	}
	p.setup()
	a := p.ellipsoid.MajorAxis

	dx := x - p.falseEasting
	dy := p.rho0 - (y - p.falseNorthing)
	s := sign(p.n)
	rho := s * math.Hypot(dx, dy)
	theta := 0.0
	if rho != 0 {
		theta = math.Atan2(s*dx, s*dy)
	}
	lon = normalizeLon(theta/p.n*rad2deg + p.originLon)

	con := rho * p.n / a
	var phi float64
	if p.sphere {
		phi = asinClamped((p.c - con*con) / (2 * p.n))
	} else {
		var ok bool
		phi, ok = authalicLatitude(p.e, p.es, p.qp, (p.c-con*con)/p.n)
		if !ok {
			warnNoConvergence(p.Name(), x, y, conicMaxIter)
		}
	}
	lat = phi * rad2deg
	if !finite(lat) {
		return lon, s * 90, nil
	}
	return lon, lat, nil
}

// authalicLatitude inverts q(φ) = q. Arguments at or beyond the poles'
// value of q, and failures to converge, fall back to ±90°.
func authalicLatitude(e, es, qp, q float64) (float64, bool) {
	if math.Abs(q) >= qp-1e-12 {
		return sign(q) * halfPi, true
	}
	phi := asinClamped(0.5 * q)
	for i := 0; i < conicMaxIter; i++ {
		sinphi, cosphi := math.Sincos(phi)
		if math.Abs(cosphi) < 1e-12 {
			return sign(q) * halfPi, true
		}
		con := e * sinphi
		com := 1 - con*con
		dphi := 0.5 * com * com / cosphi *
			(q/(1-es) - sinphi/com + 0.5/e*math.Log((1-con)/(1+con)))
		phi += dphi
		if math.Abs(dphi) <= albersTolerance {
			return phi, true
		}
	}
	return sign(q) * halfPi, false
}

func (p *AlbersEqualArea) Node() *config.Node {
	n := config.NewNode(NameAlbersEqualArea)
	p.writeNode(n)
	n.SetFloat("standard_parallel_1", p.lat1)
	n.SetFloat("standard_parallel_2", p.lat2)
	return n
}

func (p *AlbersEqualArea) Clone() Projection {
	c := *p
	return &c
}

// AlbersEqualAreaFromNode reads the common attributes and both standard
// parallels.
func AlbersEqualAreaFromNode(n *config.Node) (*AlbersEqualArea, error) {
	p := NewAlbersEqualArea(WGS84)
	if err := p.readNode(n); err != nil {
		return nil, err
	}
	lat1, lat2, err := parallelsFromNode(n)
	if err != nil {
		return nil, err
	}
	p.lat1, p.lat2 = lat1, lat2
	return p, nil
}
