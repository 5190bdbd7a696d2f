package coord

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/pspoerri/mapproj/internal/config"
)

const (
	utmScaleFactor   = 0.9996
	utmFalseEasting  = 500000.0
	utmSouthNorthing = 10000000.0
	utmZoneWidth     = 6.0
)

// ZoneForLongitude returns the 6°-wide UTM zone containing lon.
func ZoneForLongitude(lon float64) int {
	zone := int(math.Floor((normalizeLon(lon)+180)/utmZoneWidth)) + 1
	if zone < 1 {
		return 1
	}
	if zone > 60 {
		return 60
	}
	return zone
}

// CentralMeridian returns the central meridian of a UTM zone in degrees.
func CentralMeridian(zone int) float64 {
	return float64(zone-1)*utmZoneWidth - 180 + utmZoneWidth/2
}

// UTM is the Universal Transverse Mercator projection. It derives the
// transverse Mercator parameters from a zone number and hemisphere.
//
// With follow-map enabled, Follow switches the zone to the one under the
// centre of the current view.
type UTM struct {
	tm        *TransverseMercator
	zone      int
	south     bool
	followMap bool
}

// NewUTM returns a UTM projection on WGS 84.
func NewUTM(zone int, south bool) (*UTM, error) {
	if zone < 1 || zone > 60 {
		return nil, errors.Newf("utm: zone %d outside [1, 60]", zone)
	}
	u := &UTM{tm: NewTransverseMercator(WGS84), zone: zone, south: south}
	u.derive()
	return u, nil
}

func (u *UTM) derive() {
	u.tm.SetOriginLatitude(0)
	u.tm.SetOriginLongitude(CentralMeridian(u.zone))
	u.tm.SetScaleFactor(utmScaleFactor)
	u.tm.SetFalseEasting(utmFalseEasting)
	if u.south {
		u.tm.SetFalseNorthing(utmSouthNorthing)
	} else {
		u.tm.SetFalseNorthing(0)
	}
}

func (u *UTM) Name() string          { return NameUTM }
func (u *UTM) UnitOfMeasure() string { return u.tm.UnitOfMeasure() }
func (u *UTM) Zone() int             { return u.zone }
func (u *UTM) South() bool           { return u.south }
func (u *UTM) FollowMap() bool       { return u.followMap }
func (u *UTM) Ellipsoid() Ellipsoid  { return u.tm.Ellipsoid() }

// FalseNorthing is 0 in the northern and 10,000,000 in the southern hemisphere.
func (u *UTM) FalseNorthing() float64 { return u.tm.FalseNorthing() }

// OriginLongitude returns the central meridian of the current zone.
func (u *UTM) OriginLongitude() float64 { return u.tm.OriginLongitude() }

func (u *UTM) SetZone(zone int) error {
	if zone < 1 || zone > 60 {
		return errors.Newf("utm: zone %d outside [1, 60]", zone)
	}
	u.zone = zone
	u.derive()
	return nil
}

func (u *UTM) SetSouth(south bool) {
	u.south = south
	u.derive()
}

func (u *UTM) SetFollowMap(follow bool) { u.followMap = follow }

func (u *UTM) SetEllipsoid(e Ellipsoid) { u.tm.SetEllipsoid(e) }

// EPSG returns the WGS 84 / UTM EPSG code for the zone.
func (u *UTM) EPSG() int {
	if u.south {
		return 32700 + u.zone
	}
	return 32600 + u.zone
}

// Follow recomputes the zone from the centre of view, given in the current
// zone's map coordinates. It does nothing unless follow-map is enabled and
// reports whether the zone changed.
func (u *UTM) Follow(view orb.Bound) (bool, error) {
	if !u.followMap {
		return false, nil
	}
	c := view.Center()
	lon, _, err := u.Backward(c.X(), c.Y())
	if err != nil {
		return false, errors.Wrap(err, "utm: follow map")
	}
	zone := ZoneForLongitude(lon)
	if zone == u.zone {
		return false, nil
	}
	u.zone = zone
	u.derive()
	return true, nil
}

func (u *UTM) Forward(lon, lat float64) (x, y float64, err error) {
	return u.tm.Forward(lon, lat)
}

func (u *UTM) Backward(x, y float64) (lon, lat float64, err error) {
	return u.tm.Backward(x, y)
}

func (u *UTM) Node() *config.Node {
	n := config.NewNode(NameUTM)
	u.tm.writeNode(n)
	n.SetFloat("scale_factor", u.tm.ScaleFactor())
	n.SetInt("zone", u.zone)
	if u.south {
		n.Set("hemisphere", "south")
	} else {
		n.Set("hemisphere", "north")
	}
	n.SetBool("follow_map", u.followMap)
	return n
}

func (u *UTM) Clone() Projection {
	c := *u
	c.tm = u.tm.Clone().(*TransverseMercator)
	return &c
}

// UTMFromNode reads ellipsoid, zone, hemisphere and follow_map. Origin,
// offsets and scale are derived from the zone; any values in the node for
// them are ignored.
func UTMFromNode(n *config.Node) (*UTM, error) {
	ell, err := ellipsoidFromNode(n)
	if err != nil {
		return nil, err
	}
	zone, err := n.Int("zone")
	if err != nil {
		return nil, err
	}
	if zone < 1 || zone > 60 {
		return nil, n.Errorf("zone", "zone %d outside [1, 60]", zone)
	}
	south := false
	if h, ok := n.Get("hemisphere"); ok {
		switch strings.ToLower(h) {
		case "north", "n":
		case "south", "s":
			south = true
		default:
			return nil, n.Errorf("hemisphere", "want north or south, got %q", h)
		}
	}
	follow, err := n.Bool("follow_map", false)
	if err != nil {
		return nil, err
	}
	u, err := NewUTM(zone, south)
	if err != nil {
		return nil, err
	}
	u.SetEllipsoid(ell)
	u.SetFollowMap(follow)
	return u, nil
}
