package coord

import (
	"log/slog"
	"math"

	"github.com/pspoerri/mapproj/internal/config"
)

// Power series factors for the transverse Mercator expansions.
const (
	fc1 = 1.0
	fc2 = 1.0 / 2
	fc3 = 1.0 / 6
	fc4 = 1.0 / 12
	fc5 = 1.0 / 20
	fc6 = 1.0 / 30
	fc7 = 1.0 / 42
	fc8 = 1.0 / 56
)

// Meridian arc coefficients of the e⁸ series.
const (
	c00 = 1.0
	c02 = 0.25
	c04 = 0.046875
	c06 = 0.01953125
	c08 = 0.01068115234375
	c22 = 0.75
	c44 = 0.46875
	c46 = 0.01302083333333333333
	c48 = 0.00712076822916666666
	c66 = 0.36458333333333333333
	c68 = 0.00569661458333333333
	c88 = 0.3076171875
)

const (
	reverseMTolerance = 1e-11
	reverseMMaxIter   = 10
)

// arcSeries holds the five coefficients of the meridian arc length series
// for one eccentricity.
type arcSeries [5]float64

func newArcSeries(es float64) arcSeries {
	var en arcSeries
	en[0] = c00 - es*(c02+es*(c04+es*(c06+es*c08)))
	en[1] = es * (c22 - es*(c04+es*(c06+es*c08)))
	t := es * es
	en[2] = t * (c44 - es*(c46+es*c48))
	t *= es
	en[3] = t * (c66 - es*c68)
	en[4] = t * es * c88
	return en
}

// m returns the meridian arc length from the equator to phi in units of the
// semi-major axis.
func (en *arcSeries) m(phi, sinphi, cosphi float64) float64 {
	cs := cosphi * sinphi
	s2 := sinphi * sinphi
	return en[0]*phi - cs*(en[1]+s2*(en[2]+s2*(en[3]+s2*en[4])))
}

// reverseM returns the latitude whose meridian arc is arc. When the
// iteration budget runs out the last estimate is returned with
// converged == false.
func (en *arcSeries) reverseM(arc, es float64) (phi float64, converged bool) {
	k := 1 / (1 - es)
	phi = arc
	for i := 0; i < reverseMMaxIter; i++ {
		s := math.Sin(phi)
		t := 1 - es*s*s
		t = (en.m(phi, s, math.Cos(phi)) - arc) * (t * math.Sqrt(t)) * k
		phi -= t
		if math.Abs(t) < reverseMTolerance {
			return phi, true
		}
	}
	return phi, false
}

// tmCore is the transverse Mercator transform for one explicit parameter
// set. UTM and the national grid derive their parameters and delegate here.
type tmCore struct {
	lon0   float64 // degrees
	k0     float64
	x0, y0 float64
	a      float64
	es     float64
	esp    float64 // second eccentricity squared
	ml0    float64 // meridian arc at the latitude of origin
	en     arcSeries
}

func newTMCore(lat0, lon0, k0, x0, y0, a, es float64) tmCore {
	c := tmCore{
		lon0: lon0,
		k0:   k0,
		x0:   x0,
		y0:   y0,
		a:    a,
		es:   es,
		esp:  es / (1 - es),
		en:   newArcSeries(es),
	}
	phi0 := lat0 * deg2rad
	c.ml0 = c.en.m(phi0, math.Sin(phi0), math.Cos(phi0))
	return c
}

// poleNorthing returns the projected y of the pole on the side of s.
func (c *tmCore) poleNorthing(s float64) float64 {
	return c.y0 + c.a*c.k0*(c.en.m(s*halfPi, s, 0)-c.ml0)
}

func (c *tmCore) forward(lon, lat float64) (x, y float64) {
	phi := lat * deg2rad
	if atPole(phi) {
		return c.x0, c.poleNorthing(sign(phi))
	}
	lam := normalizeLon(lon-c.lon0) * deg2rad

	sinphi := math.Sin(phi)
	cosphi := math.Cos(phi)
	t := 0.0
	if math.Abs(cosphi) > 1e-10 {
		t = sinphi / cosphi
	}
	t *= t
	al := cosphi * lam
	als := al * al
	al /= math.Sqrt(1 - c.es*sinphi*sinphi)
	n := c.esp * cosphi * cosphi

	x = c.k0 * al * (fc1 + fc3*als*(1-t+n+fc5*als*(5+t*(t-18)+n*(14-58*t)+
		fc7*als*(61+t*(t*(179-t)-479)))))
	y = c.k0 * (c.en.m(phi, sinphi, cosphi) - c.ml0 +
		sinphi*al*lam*fc2*(1+fc4*als*(5-t+n*(9+4*n)+
			fc6*als*(61+t*(t-58)+n*(270-330*t)+
				fc8*als*(1385+t*(t*(543-t)-3111))))))

	x = c.a*x + c.x0
	y = c.a*y + c.y0
	if !finite2(x, y) {
		return c.x0, c.poleNorthing(sign(phi))
	}
	return x, y
}

func (c *tmCore) inverse(x, y float64) (lon, lat float64, converged bool) {
	xn := (x - c.x0) / c.a
	yn := (y - c.y0) / c.a

	arc := c.ml0 + yn/c.k0
	phi, converged := c.en.reverseM(arc, c.es)
	if !finite(phi) || atPole(phi) {
		return c.lon0, sign(arc) * 90, converged
	}

	sinphi := math.Sin(phi)
	cosphi := math.Cos(phi)
	t := 0.0
	if math.Abs(cosphi) > 1e-10 {
		t = sinphi / cosphi
	}
	n := c.esp * cosphi * cosphi
	con := 1 - c.es*sinphi*sinphi
	d := xn * math.Sqrt(con) / c.k0
	con *= t
	t *= t
	ds := d * d

	phi -= (con * ds / (1 - c.es)) * fc2 * (1 - ds*fc4*(5+t*(3-9*n)+n*(1-4*n)-
		ds*fc6*(61+t*(90-252*n+45*t)+46*n-
			ds*fc8*(1385+t*(3633+t*(4095+1574*t))))))
	lam := d * (fc1 - ds*fc3*(1+2*t+n-
		ds*fc5*(5+t*(28+24*t+8*n)+6*n-
			ds*fc7*(61+t*(662+t*(1320+720*t)))))) / cosphi

	lon = normalizeLon(c.lon0 + lam*rad2deg)
	lat = phi * rad2deg
	if !finite2(lon, lat) {
		return c.lon0, sign(phi) * 90, converged
	}
	return lon, lat, converged
}

// TransverseMercator is the general ellipsoidal transverse Mercator
// projection with a configurable central scale factor.
type TransverseMercator struct {
	params
	scale float64
	core  tmCore
}

// NewTransverseMercator returns a projection centred on (0, 0) with scale
// factor 1 and no false offsets.
func NewTransverseMercator(ell Ellipsoid) *TransverseMercator {
	return &TransverseMercator{params: newParams(ell), scale: 1}
}

func (p *TransverseMercator) Name() string { return NameTransverseMercator }

func (p *TransverseMercator) ScaleFactor() float64 { return p.scale }

func (p *TransverseMercator) SetScaleFactor(k float64) {
	p.scale = k
	p.ready = false
}

func (p *TransverseMercator) setup() {
	if p.ready {
		return
	}
	p.setupParams()
	p.core = newTMCore(p.originLat, p.originLon, p.scale, p.falseEasting, p.falseNorthing,
		p.ellipsoid.MajorAxis, p.es)
	p.ready = true
}

func (p *TransverseMercator) Forward(lon, lat float64) (x, y float64, err error) {
	if err := checkFinite(lon, lat); err != nil {
		return 0, 0, err
	}
	p.setup()
	x, y = p.core.forward(lon, lat)
	return x, y, nil
}

func (p *TransverseMercator) Backward(x, y float64) (lon, lat float64, err error) {
	if err := checkFinite(x, y); err != nil {
		return 0, 0, err
	}
	p.setup()
	lon, lat, ok := p.core.inverse(x, y)
	if !ok {
		warnNoConvergence(p.Name(), x, y, reverseMMaxIter)
	}
	return lon, lat, nil
}

func (p *TransverseMercator) Node() *config.Node {
	n := config.NewNode(NameTransverseMercator)
	p.writeNode(n)
	n.SetFloat("scale_factor", p.scale)
	return n
}

func (p *TransverseMercator) Clone() Projection {
	c := *p
	return &c
}

// TransverseMercatorFromNode reads the common attributes plus scale_factor.
func TransverseMercatorFromNode(n *config.Node) (*TransverseMercator, error) {
	p := NewTransverseMercator(WGS84)
	if err := p.readNode(n); err != nil {
		return nil, err
	}
	k, err := n.Float("scale_factor")
	if err != nil {
		return nil, err
	}
	if !(k > 0) {
		return nil, n.Errorf("scale_factor", "must be positive, got %v", k)
	}
	p.SetScaleFactor(k)
	return p, nil
}

// warnNoConvergence logs that an inverse solver used up its iteration
// budget. The caller still returns its best estimate.
func warnNoConvergence(projection string, x, y float64, iterations int) {
	slog.Warn("inverse projection did not converge",
		"projection", projection,
		"x", x,
		"y", y,
		"iterations", iterations,
	)
}
