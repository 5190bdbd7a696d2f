package coord

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/pspoerri/mapproj/internal/config"
)

// British National Grid (OSGB36) constants.
const (
	bngOriginLat     = 49.0
	bngOriginLon     = -2.0
	bngScaleFactor   = 0.9996012717
	bngFalseEasting  = 400000.0
	bngFalseNorthing = -100000.0

	majorSquare = 500000.0
	minorSquare = 100000.0
)

// ErrOutsideGrid is returned for coordinates outside the lettered grid.
var ErrOutsideGrid = errors.New("outside national grid")

// gridLetters is the 5×5 letter table (I omitted) indexed as [row][col]
// with row 0 the northernmost. The first letter of a reference indexes it
// with 500 km squares, the second with 100 km squares.
var gridLetters = [5][5]byte{
	{'A', 'B', 'C', 'D', 'E'},
	{'F', 'G', 'H', 'J', 'K'},
	{'L', 'M', 'N', 'O', 'P'},
	{'Q', 'R', 'S', 'T', 'U'},
	{'V', 'W', 'X', 'Y', 'Z'},
}

// The false origin of the grid lies in 500 km square S.
const (
	falseOriginRow = 3
	falseOriginCol = 2
)

// NationalGrid is the British National Grid: a transverse Mercator on the
// Airy 1830 ellipsoid with fixed origin, scale and offsets, plus grid
// square references.
type NationalGrid struct {
	tm *TransverseMercator
}

func NewNationalGrid() *NationalGrid {
	tm := NewTransverseMercator(Airy1830)
	tm.SetOriginLatitude(bngOriginLat)
	tm.SetOriginLongitude(bngOriginLon)
	tm.SetScaleFactor(bngScaleFactor)
	tm.SetFalseEasting(bngFalseEasting)
	tm.SetFalseNorthing(bngFalseNorthing)
	return &NationalGrid{tm: tm}
}

func (g *NationalGrid) Name() string          { return NameNationalGrid }
func (g *NationalGrid) UnitOfMeasure() string { return g.tm.UnitOfMeasure() }
func (g *NationalGrid) EPSG() int             { return 27700 }

func (g *NationalGrid) Forward(lon, lat float64) (x, y float64, err error) {
	return g.tm.Forward(lon, lat)
}

func (g *NationalGrid) Backward(x, y float64) (lon, lat float64, err error) {
	return g.tm.Backward(x, y)
}

// Node exports the fixed parameters for reference; NationalGridFromNode
// does not read them back.
func (g *NationalGrid) Node() *config.Node {
	n := config.NewNode(NameNationalGrid)
	g.tm.writeNode(n)
	n.SetFloat("scale_factor", g.tm.ScaleFactor())
	return n
}

func (g *NationalGrid) Clone() Projection {
	return &NationalGrid{tm: g.tm.Clone().(*TransverseMercator)}
}

// NationalGridFromNode returns the grid; all its parameters are fixed.
func NationalGridFromNode(n *config.Node) (*NationalGrid, error) {
	return NewNationalGrid(), nil
}

// GridSquare returns the two-letter 100 km square containing (easting,
// northing) and the remainders within that square.
func (g *NationalGrid) GridSquare(easting, northing float64) (letters string, e, n float64, err error) {
	if !finite2(easting, northing) {
		return "", 0, 0, errors.Wrapf(ErrNonFinite, "(%v, %v)", easting, northing)
	}
	majorCol := falseOriginCol + int(math.Floor(easting/majorSquare))
	majorRow := falseOriginRow - int(math.Floor(northing/majorSquare))
	if majorCol < 0 || majorCol > 4 || majorRow < 0 || majorRow > 4 {
		return "", 0, 0, errors.Wrapf(ErrOutsideGrid, "(%.3f, %.3f)", easting, northing)
	}

	e100 := math.Floor(easting / minorSquare)
	n100 := math.Floor(northing / minorSquare)
	minorCol := mod5(int(e100))
	minorRow := 4 - mod5(int(n100))

	letters = string([]byte{gridLetters[majorRow][majorCol], gridLetters[minorRow][minorCol]})
	return letters, easting - e100*minorSquare, northing - n100*minorSquare, nil
}

// GridReference formats (easting, northing) as a grid reference with the
// given total number of digits (even, 0 to 10), e.g. "TG 51409 13177".
// Digits are truncated, not rounded, so the reference names the square
// containing the point.
func (g *NationalGrid) GridReference(easting, northing float64, digits int) (string, error) {
	if digits < 0 || digits > 10 || digits%2 != 0 {
		return "", errors.Newf("grid reference: digits must be even and in [0, 10], got %d", digits)
	}
	letters, e, n, err := g.GridSquare(easting, northing)
	if err != nil {
		return "", err
	}
	if digits == 0 {
		return letters, nil
	}
	half := digits / 2
	unit := math.Pow(10, float64(5-half))
	return fmt.Sprintf("%s %0*d %0*d", letters, half, int(e/unit), half, int(n/unit)), nil
}

// ParseGridReference converts a grid reference such as "TG 51409 13177" or
// "TG5140913177" to the easting/northing of the south-west corner of the
// referenced square.
func ParseGridReference(ref string) (easting, northing float64, err error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, ref)
	if len(s) < 2 {
		return 0, 0, errors.Newf("grid reference %q: too short", ref)
	}
	majorRow, majorCol, ok := letterPosition(s[0])
	if !ok {
		return 0, 0, errors.Newf("grid reference %q: invalid letter %q", ref, s[0])
	}
	minorRow, minorCol, ok := letterPosition(s[1])
	if !ok {
		return 0, 0, errors.Newf("grid reference %q: invalid letter %q", ref, s[1])
	}
	digits := s[2:]
	if len(digits)%2 != 0 || len(digits) > 10 {
		return 0, 0, errors.Newf("grid reference %q: need an even number of digits up to 10", ref)
	}
	if strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, 0, errors.Newf("grid reference %q: invalid digits %q", ref, digits)
	}

	easting = float64(majorCol-falseOriginCol)*majorSquare + float64(minorCol)*minorSquare
	northing = float64(falseOriginRow-majorRow)*majorSquare + float64(4-minorRow)*minorSquare
	if len(digits) == 0 {
		return easting, northing, nil
	}

	half := len(digits) / 2
	unit := math.Pow(10, float64(5-half))
	e, err := strconv.Atoi(digits[:half])
	if err != nil {
		return 0, 0, errors.Wrapf(err, "grid reference %q", ref)
	}
	n, err := strconv.Atoi(digits[half:])
	if err != nil {
		return 0, 0, errors.Wrapf(err, "grid reference %q", ref)
	}
	return easting + float64(e)*unit, northing + float64(n)*unit, nil
}

func letterPosition(c byte) (row, col int, ok bool) {
	for r := range gridLetters {
		for cc, l := range gridLetters[r] {
			if l == c {
				return r, cc, true
			}
		}
	}
	return 0, 0, false
}

func mod5(v int) int {
	m := v % 5
	if m < 0 {
		m += 5
	}
	return m
}
