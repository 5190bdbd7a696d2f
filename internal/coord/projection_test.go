package coord

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
)

type projCase struct {
	name                           string
	proj                           Projection
	minLon, minLat, maxLon, maxLat float64
}

// testProjections returns one configured instance of every variant together
// with a box of (lon, lat) samples inside its useful domain.
func testProjections(t *testing.T) []projCase {
	t.Helper()

	tm := NewTransverseMercator(WGS84)
	tm.SetOriginLatitude(40)
	tm.SetOriginLongitude(10)
	tm.SetScaleFactor(0.9999)
	tm.SetFalseEasting(200000)
	tm.SetFalseNorthing(50000)

	utm, err := NewUTM(32, false)
	if err != nil {
		t.Fatal(err)
	}
	utmSouth, err := NewUTM(56, true)
	if err != nil {
		t.Fatal(err)
	}

	lcc := NewLambertConformalConic(GRS80)
	if err := lcc.SetStandardParallels(49, 44); err != nil {
		t.Fatal(err)
	}
	lcc.SetOriginLatitude(46.5)
	lcc.SetOriginLongitude(3)
	lcc.SetFalseEasting(700000)
	lcc.SetFalseNorthing(6600000)

	lccSouth := NewLambertConformalConic(WGS84)
	if err := lccSouth.SetStandardParallels(-20, -40); err != nil {
		t.Fatal(err)
	}
	lccSouth.SetOriginLatitude(-30)
	lccSouth.SetOriginLongitude(25)

	aea := NewAlbersEqualArea(GRS80)
	aea.SetOriginLatitude(23)
	aea.SetOriginLongitude(-96)

	aeaSphere := NewAlbersEqualArea(Sphere)
	aeaSphere.SetOriginLatitude(23)
	aeaSphere.SetOriginLongitude(-96)
	aeaSphere.SetFalseEasting(1000)

	return []projCase{
		{"no projection", NewNoProjection(WGS84), -179, -89, 179, 89},
		{"transverse mercator", tm, 7.5, 30, 12.5, 60},
		{"utm 32N", utm, 6.5, 0, 11.5, 80},
		{"utm 56S", utmSouth, 150.5, -79, 155.5, -1},
		{"national grid", NewNationalGrid(), -4.5, 49.5, 0.5, 60.5},
		{"lcc", lcc, -5, 41, 10, 52},
		{"lcc south", lccSouth, 10, -45, 40, -15},
		{"albers", aea, -125, 20, -65, 50},
		{"albers sphere", aeaSphere, -125, 20, -65, 50},
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	const steps = 6
	for _, tt := range testProjections(t) {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i <= steps; i++ {
				for j := 0; j <= steps; j++ {
					lon := tt.minLon + (tt.maxLon-tt.minLon)*float64(i)/steps
					lat := tt.minLat + (tt.maxLat-tt.minLat)*float64(j)/steps

					x, y, err := tt.proj.Forward(lon, lat)
					if err != nil {
						t.Fatalf("Forward(%v, %v): %v", lon, lat, err)
					}
					gotLon, gotLat, err := tt.proj.Backward(x, y)
					if err != nil {
						t.Fatalf("Backward(%v, %v): %v", x, y, err)
					}
					if math.Abs(gotLon-lon) > 1e-6 || math.Abs(gotLat-lat) > 1e-6 {
						t.Errorf("geo round trip (%v, %v) -> (%.3f, %.3f) -> (%.9f, %.9f)",
							lon, lat, x, y, gotLon, gotLat)
					}

					x2, y2, err := tt.proj.Forward(gotLon, gotLat)
					if err != nil {
						t.Fatalf("Forward(%v, %v): %v", gotLon, gotLat, err)
					}
					if math.Abs(x2-x) > 1e-3 || math.Abs(y2-y) > 1e-3 {
						t.Errorf("map round trip (%.4f, %.4f) -> (%.4f, %.4f)", x, y, x2, y2)
					}
				}
			}
		})
	}
}

// origin returns the latitude/longitude of origin and the false offsets of
// the variants for which the origin maps exactly onto them.
func origin(p Projection) (lon, lat, fe, fn float64, ok bool) {
	switch p := p.(type) {
	case *TransverseMercator:
		return p.OriginLongitude(), p.OriginLatitude(), p.FalseEasting(), p.FalseNorthing(), true
	case *LambertConformalConic:
		return p.OriginLongitude(), p.OriginLatitude(), p.FalseEasting(), p.FalseNorthing(), true
	case *AlbersEqualArea:
		return p.OriginLongitude(), p.OriginLatitude(), p.FalseEasting(), p.FalseNorthing(), true
	case *UTM:
		return p.OriginLongitude(), 0, utmFalseEasting, p.FalseNorthing(), true
	}
	return 0, 0, 0, 0, false
}

func TestProjectionOriginMapsToFalseOffsets(t *testing.T) {
	for _, tt := range testProjections(t) {
		lon, lat, fe, fn, ok := origin(tt.proj)
		if !ok {
			continue
		}
		t.Run(tt.name, func(t *testing.T) {
			x, y, err := tt.proj.Forward(lon, lat)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(x-fe) > 1e-6 || math.Abs(y-fn) > 1e-6 {
				t.Errorf("Forward(origin) = (%.9f, %.9f), want (%v, %v)", x, y, fe, fn)
			}
		})
	}
}

func TestProjectionNonFiniteInput(t *testing.T) {
	for _, tt := range testProjections(t) {
		if _, ok := tt.proj.(*NoProjection); ok {
			continue
		}
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.proj.Forward(math.NaN(), 10); !errors.Is(err, ErrNonFinite) {
				t.Errorf("Forward(NaN) error = %v, want ErrNonFinite", err)
			}
			if _, _, err := tt.proj.Backward(0, math.Inf(1)); !errors.Is(err, ErrNonFinite) {
				t.Errorf("Backward(Inf) error = %v, want ErrNonFinite", err)
			}
		})
	}
}

func TestProjectionPolesAreFinite(t *testing.T) {
	for _, tt := range testProjections(t) {
		t.Run(tt.name, func(t *testing.T) {
			for _, lat := range []float64{90, -90, 89.99999999999, -89.99999999999} {
				for _, lon := range []float64{-180, 0, 45, 179.9} {
					x, y, err := tt.proj.Forward(lon, lat)
					if err != nil {
						t.Fatalf("Forward(%v, %v): %v", lon, lat, err)
					}
					if !finite2(x, y) {
						t.Errorf("Forward(%v, %v) = (%v, %v), want finite", lon, lat, x, y)
					}
					gotLon, gotLat, err := tt.proj.Backward(x, y)
					if err != nil {
						t.Fatalf("Backward(%v, %v): %v", x, y, err)
					}
					if !finite2(gotLon, gotLat) {
						t.Errorf("Backward(%v, %v) = (%v, %v), want finite", x, y, gotLon, gotLat)
					}
				}
			}
		})
	}
}

func TestProjectionSetterInvalidatesCache(t *testing.T) {
	tm := NewTransverseMercator(WGS84)
	x1, y1, err := tm.Forward(3, 45)
	if err != nil {
		t.Fatal(err)
	}
	tm.SetFalseEasting(1000)
	x2, y2, err := tm.Forward(3, 45)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(x2-x1-1000) > 1e-9 || y1 != y2 {
		t.Errorf("after SetFalseEasting: (%v, %v) -> (%v, %v)", x1, y1, x2, y2)
	}

	tm.SetEllipsoid(Sphere)
	x3, _, err := tm.Forward(3, 45)
	if err != nil {
		t.Fatal(err)
	}
	if x3 == x2 {
		t.Error("SetEllipsoid did not change the result")
	}
}

func TestProjectionClone(t *testing.T) {
	for _, tt := range testProjections(t) {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.proj.Clone()
			if c == tt.proj {
				t.Fatal("Clone returned the same instance")
			}
			if c.Name() != tt.proj.Name() {
				t.Errorf("Clone name = %q, want %q", c.Name(), tt.proj.Name())
			}
			lon := (tt.minLon + tt.maxLon) / 2
			lat := (tt.minLat + tt.maxLat) / 2
			x1, y1, _ := tt.proj.Forward(lon, lat)
			x2, y2, _ := c.Forward(lon, lat)
			if x1 != x2 || y1 != y2 {
				t.Errorf("clone Forward = (%v, %v), original (%v, %v)", x2, y2, x1, y1)
			}
		})
	}

	// Mutating the clone must not affect the original.
	u, _ := NewUTM(31, false)
	c := u.Clone().(*UTM)
	if err := c.SetZone(33); err != nil {
		t.Fatal(err)
	}
	if u.Zone() != 31 || u.OriginLongitude() != 3 {
		t.Errorf("original changed after clone mutation: zone %d, lon0 %v", u.Zone(), u.OriginLongitude())
	}
}

func TestForEPSG(t *testing.T) {
	tests := []struct {
		epsg     int
		wantNil  bool
		wantName string
	}{
		{4326, false, NameNoProjection},
		{27700, false, NameNationalGrid},
		{32632, false, NameUTM},
		{32756, false, NameUTM},
		{32661, true, ""},
		{2056, true, ""},
		{0, true, ""},
	}
	for _, tt := range tests {
		p := ForEPSG(tt.epsg)
		if tt.wantNil {
			if p != nil {
				t.Errorf("ForEPSG(%d) = %v, want nil", tt.epsg, p)
			}
			continue
		}
		if p == nil {
			t.Fatalf("ForEPSG(%d) = nil, want non-nil", tt.epsg)
		}
		if got := p.Name(); got != tt.wantName {
			t.Errorf("ForEPSG(%d).Name() = %q, want %q", tt.epsg, got, tt.wantName)
		}
	}

	u := ForEPSG(32756).(*UTM)
	if u.Zone() != 56 || !u.South() || u.EPSG() != 32756 {
		t.Errorf("ForEPSG(32756) = zone %d south %v epsg %d", u.Zone(), u.South(), u.EPSG())
	}
}

func TestForName(t *testing.T) {
	for _, name := range Names() {
		p := ForName(name)
		if p == nil {
			t.Errorf("ForName(%q) = nil", name)
			continue
		}
		if p.Name() != name {
			t.Errorf("ForName(%q).Name() = %q", name, p.Name())
		}
	}
	if ForName("mercator") != nil {
		t.Error("ForName(mercator) should be nil")
	}
}

func TestNormalizeLon(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{180, -180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{540, -180},
		{359.5, -0.5},
	}
	for _, tt := range tests {
		if got := normalizeLon(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("normalizeLon(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampUnit(t *testing.T) {
	tests := []struct {
		in     float64
		want   float64
		within bool
	}{
		{0.5, 0.5, true},
		{1 + 1e-15, 1, true},
		{-1 - 1e-15, -1, true},
		{1.1, 1, false},
		{-2, -1, false},
	}
	for _, tt := range tests {
		got, within := clampUnit(tt.in)
		if got != tt.want || within != tt.within {
			t.Errorf("clampUnit(%v) = (%v, %v), want (%v, %v)", tt.in, got, within, tt.want, tt.within)
		}
	}
	if got := asinClamped(1 + 1e-15); got != halfPi {
		t.Errorf("asinClamped(1+ε) = %v, want π/2", got)
	}
	if got := acosClamped(-1.5); got != math.Pi {
		t.Errorf("acosClamped(-1.5) = %v, want π", got)
	}
}
