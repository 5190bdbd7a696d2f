package coord

import "github.com/pspoerri/mapproj/internal/config"

// params holds the parameters every projection shares and the constants
// derived from the ellipsoid. Setters clear ready; each projection's setup
// method rebuilds its constants on the next transform and sets it again.
// The zero value is not ready.
type params struct {
	originLat     float64 // degrees
	originLon     float64 // degrees
	falseEasting  float64
	falseNorthing float64
	ellipsoid     Ellipsoid

	ready bool
	e     float64
	es    float64
}

func newParams(ell Ellipsoid) params {
	return params{ellipsoid: ell}
}

// OriginLatitude returns the latitude of origin in degrees.
func (p *params) OriginLatitude() float64 { return p.originLat }

// OriginLongitude returns the longitude of origin (central meridian) in degrees.
func (p *params) OriginLongitude() float64 { return p.originLon }

func (p *params) FalseEasting() float64  { return p.falseEasting }
func (p *params) FalseNorthing() float64 { return p.falseNorthing }
func (p *params) Ellipsoid() Ellipsoid   { return p.ellipsoid }

// UnitOfMeasure returns the linear unit of projected coordinates.
func (p *params) UnitOfMeasure() string { return p.ellipsoid.Unit }

func (p *params) SetOriginLatitude(lat float64) {
	p.originLat = lat
	p.ready = false
}

func (p *params) SetOriginLongitude(lon float64) {
	p.originLon = lon
	p.ready = false
}

func (p *params) SetFalseEasting(v float64) {
	p.falseEasting = v
	p.ready = false
}

func (p *params) SetFalseNorthing(v float64) {
	p.falseNorthing = v
	p.ready = false
}

func (p *params) SetEllipsoid(e Ellipsoid) {
	p.ellipsoid = e
	p.ready = false
}

// setupParams recomputes the ellipsoid constants. Callers check ready first.
func (p *params) setupParams() {
	p.es = p.ellipsoid.E2()
	p.e = p.ellipsoid.E()
}

func (p *params) writeNode(n *config.Node) {
	p.ellipsoid.writeNode(n)
	n.SetFloat("origin_latitude", p.originLat)
	n.SetFloat("origin_longitude", p.originLon)
	n.SetFloat("false_easting", p.falseEasting)
	n.SetFloat("false_northing", p.falseNorthing)
}

func (p *params) readNode(n *config.Node) error {
	ell, err := ellipsoidFromNode(n)
	if err != nil {
		return err
	}
	lat, err := n.Float("origin_latitude")
	if err != nil {
		return err
	}
	if lat < -90 || lat > 90 {
		return n.Errorf("origin_latitude", "latitude %v outside [-90, 90]", lat)
	}
	lon, err := n.Float("origin_longitude")
	if err != nil {
		return err
	}
	fe, err := n.Float("false_easting")
	if err != nil {
		return err
	}
	fn, err := n.Float("false_northing")
	if err != nil {
		return err
	}
	p.ellipsoid = ell
	p.originLat = lat
	p.originLon = lon
	p.falseEasting = fe
	p.falseNorthing = fn
	p.ready = false
	return nil
}
