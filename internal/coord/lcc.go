package coord

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/pspoerri/mapproj/internal/config"
)

const (
	// conicLatTolerance bounds the latitude step of the inverse iteration
	// in radians. A 1e-6 stop leaves metre-level round-trip error.
	conicLatTolerance = 1e-12
	conicMaxIter      = 15
)

// LambertConformalConic is the two standard parallel Lambert conformal
// conic projection.
type LambertConformalConic struct {
	params
	lat1, lat2 float64 // standard parallels, degrees

	// derived by setup
	n    float64 // cone constant
	aF   float64 // a·F
	rho0 float64 // radius at the latitude of origin
}

// NewLambertConformalConic returns a projection with standard parallels at
// 33° and 45° and origin (0, 0).
func NewLambertConformalConic(ell Ellipsoid) *LambertConformalConic {
	return &LambertConformalConic{params: newParams(ell), lat1: 33, lat2: 45}
}

func (p *LambertConformalConic) Name() string { return NameLambertConformalConic }

// StandardParallels returns both standard parallels in degrees.
func (p *LambertConformalConic) StandardParallels() (lat1, lat2 float64) {
	return p.lat1, p.lat2
}

// SetStandardParallels rejects parallels at the poles and parallels
// symmetric about the equator, which define no cone.
func (p *LambertConformalConic) SetStandardParallels(lat1, lat2 float64) error {
	if err := checkParallels(lat1, lat2); err != nil {
		return errors.Wrap(err, "lambert conformal conic")
	}
	p.lat1, p.lat2 = lat1, lat2
	p.ready = false
	return nil
}

func checkParallels(lat1, lat2 float64) error {
	if !finite2(lat1, lat2) || math.Abs(lat1) >= 90 || math.Abs(lat2) >= 90 {
		return errors.Newf("standard parallels (%v, %v) must lie strictly between the poles", lat1, lat2)
	}
	if math.Abs(lat1+lat2) < 1e-10 {
		return errors.Newf("standard parallels (%v, %v) are symmetric about the equator", lat1, lat2)
	}
	return nil
}

// tsfn is the t(φ) auxiliary function.
func tsfn(e, phi, sinphi float64) float64 {
	con := e * sinphi
	return math.Tan(0.5*(halfPi-phi)) / math.Pow((1-con)/(1+con), 0.5*e)
}

func (p *LambertConformalConic) setup() {
	if p.ready {
		return
	}
	p.setupParams()
	e := p.e

	phi1 := p.lat1 * deg2rad
	phi2 := p.lat2 * deg2rad
	sin1, cos1 := math.Sincos(phi1)
	sin2, cos2 := math.Sincos(phi2)
	m1 := msfn(e, sin1, cos1)
	m2 := msfn(e, sin2, cos2)
	t1 := tsfn(e, phi1, sin1)
	t2 := tsfn(e, phi2, sin2)

	if math.Abs(phi1-phi2) > 1e-10 {
		p.n = math.Log(m1/m2) / math.Log(t1/t2)
	} else {
		p.n = sin1
	}
	if !finite(p.n) || p.n == 0 {
		p.n = sin1
	}
	f := m1 / (p.n * math.Pow(t1, p.n))
	p.aF = p.ellipsoid.MajorAxis * f

	p.rho0 = p.rho(p.originLat * deg2rad)
	p.ready = true
}

// rho returns the radius of the parallel phi. The pole away from the cone
// apex maps to infinity; it is pulled in to the nearest representable
// latitude.
func (p *LambertConformalConic) rho(phi float64) float64 {
	if atPole(phi) {
		if phi*p.n > 0 {
			return 0
		}
		phi = sign(phi) * (halfPi - poleEpsilon)
	}
	return p.aF * math.Pow(tsfn(p.e, phi, math.Sin(phi)), p.n)
}

func (p *LambertConformalConic) Forward(lon, lat float64) (x, y float64, err error) {
	if err := checkFinite(lon, lat); err != nil {
		return 0, 0, err
	}
	p.setup()

	rho := p.rho(lat * deg2rad)
	theta := p.n * normalizeLon(lon-p.originLon) * deg2rad
	sinT, cosT := math.Sincos(theta)
	x = p.falseEasting + rho*sinT
	y = p.falseNorthing + p.rho0 - rho*cosT
	if !finite2(x, y) {
		return p.falseEasting, p.falseNorthing + p.rho0, nil
	}
	return x, y, nil
}

func (p *LambertConformalConic) Backward(x, y float64) (lon, lat float64, err error) {
	if err := checkFinite(x, y); err != nil {
		return 0, 0, err
	}
	p.setup()

	dx := x - p.falseEasting
	dy := p.rho0 - (y - p.falseNorthing)
	s := sign(p.n)
	rho := s * math.Hypot(dx, dy)
	if rho == 0 {
		// cone apex
		return normalizeLon(p.originLon), s * 90, nil
	}
	theta := math.Atan2(s*dx, s*dy)
	lon = normalizeLon(theta/p.n*rad2deg + p.originLon)

	t := math.Pow(rho/p.aF, 1/p.n)
	phi, ok := conformalLatitude(p.e, t)
	if !ok {
		warnNoConvergence(p.Name(), x, y, conicMaxIter)
	}
	lat = phi * rad2deg
	if !finite(lat) {
		return normalizeLon(p.originLon), s * 90, nil
	}
	return lon, lat, nil
}

// conformalLatitude solves t(φ) = ts for φ by fixed-point iteration.
func conformalLatitude(e, ts float64) (float64, bool) {
	halfE := 0.5 * e
	phi := halfPi - 2*math.Atan(ts)
	for i := 0; i < conicMaxIter; i++ {
		con := e * math.Sin(phi)
		next := halfPi - 2*math.Atan(ts*math.Pow((1-con)/(1+con), halfE))
		if math.Abs(next-phi) < conicLatTolerance {
			return next, true
		}
		phi = next
	}
	return phi, false
}

func (p *LambertConformalConic) Node() *config.Node {
	n := config.NewNode(NameLambertConformalConic)
	p.writeNode(n)
	n.SetFloat("standard_parallel_1", p.lat1)
	n.SetFloat("standard_parallel_2", p.lat2)
	return n
}

func (p *LambertConformalConic) Clone() Projection {
	c := *p
	return &c
}

// LambertConformalConicFromNode reads the common attributes and both
// standard parallels.
func LambertConformalConicFromNode(n *config.Node) (*LambertConformalConic, error) {
	p := NewLambertConformalConic(WGS84)
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

func parallelsFromNode(n *config.Node) (lat1, lat2 float64, err error) {
	lat1, err = n.Float("standard_parallel_1")
	if err != nil {
		return 0, 0, err
	}
	lat2, err = n.Float("standard_parallel_2")
	if err != nil {
		return 0, 0, err
	}
	if err := checkParallels(lat1, lat2); err != nil {
		return 0, 0, n.Errorf("standard_parallel_2", "%v", err)
	}
	return lat1, lat2, nil
}
