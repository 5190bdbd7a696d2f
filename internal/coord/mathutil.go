package coord

import "math"

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
	halfPi  = math.Pi / 2

	// poleEpsilon is the distance in radians from ±90° at which a latitude is
	// treated as the pole.
	poleEpsilon = 1e-10

	// trigTolerance is how far outside [-1, 1] an asin/acos argument may
	// stray from rounding before it is considered a real domain violation.
	// Both cases are clamped; the tolerance only separates them for callers
	// that care.
	trigTolerance = 1e-14
)

// normalizeLon wraps a longitude in degrees to [-180, 180).
func normalizeLon(lon float64) float64 {
	if lon >= -180 && lon < 180 {
		return lon
	}
	l := math.Mod(lon+180, 360)
	if l < 0 {
		l += 360
	}
	return l - 180
}

// atPole reports whether phi (radians) is within poleEpsilon of a pole.
func atPole(phi float64) bool {
	return math.Abs(phi) >= halfPi-poleEpsilon
}

// clampUnit clamps x to [-1, 1]. The second result is false when x was
// further than trigTolerance outside the range.
func clampUnit(x float64) (float64, bool) {
	switch {
	case x > 1:
		return 1, x <= 1+trigTolerance
	case x < -1:
		return -1, x >= -1-trigTolerance
	}
	return x, true
}

// asinClamped is math.Asin with its argument clamped to [-1, 1].
func asinClamped(x float64) float64 {
	x, _ = clampUnit(x)
	return math.Asin(x)
}

// acosClamped is math.Acos with its argument clamped to [-1, 1].
func acosClamped(x float64) float64 {
	x, _ = clampUnit(x)
	return math.Acos(x)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finite2(a, b float64) bool {
	return finite(a) && finite(b)
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// msfn is the m(φ) auxiliary function shared by the conic projections.
func msfn(e, sinphi, cosphi float64) float64 {
	con := e * sinphi
	return cosphi / math.Sqrt(1-con*con)
}
