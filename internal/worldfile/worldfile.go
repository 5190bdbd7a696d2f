// Package worldfile reads and writes ESRI world files, the six-line sidecar
// files (.tfw, .pgw, .jgw, .wld) that place a raster image in map or
// geographic coordinates.
package worldfile

import (
	"bufio"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
)

// WorldFile holds the six world file parameters.
//
// Line 1: pixel width (x-component of pixel size)
// Line 2: rotation about y-axis (typically 0)
// Line 3: rotation about x-axis (typically 0)
// Line 4: pixel height (y-component, typically negative for north-up)
// Line 5: x-coordinate of the center of the upper-left pixel
// Line 6: y-coordinate of the center of the upper-left pixel
type WorldFile struct {
	PixelSizeX float64
	RotationY  float64
	RotationX  float64
	PixelSizeY float64
	OriginX    float64
	OriginY    float64
}

// Read parses a world file. Blank lines are skipped; rotated world files are
// rejected.
func Read(r io.Reader) (*WorldFile, error) {
	var vals []float64
	sc := bufio.NewScanner(r)
	for sc.Scan() && len(vals) < 6 {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "world file value %d", len(vals)+1)
		}
		vals = append(vals, v)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading world file")
	}
	if len(vals) < 6 {
		return nil, errors.Newf("world file: expected 6 values, got %d", len(vals))
	}

	w := &WorldFile{
		PixelSizeX: vals[0],
		RotationY:  vals[1],
		RotationX:  vals[2],
		PixelSizeY: vals[3],
		OriginX:    vals[4],
		OriginY:    vals[5],
	}
	if w.RotationX != 0 || w.RotationY != 0 {
		return nil, errors.Newf("world file: rotated world files are not supported (rotation: %f, %f)",
			w.RotationX, w.RotationY)
	}
	if w.PixelSizeX == 0 || w.PixelSizeY == 0 {
		return nil, errors.New("world file: zero pixel size")
	}
	return w, nil
}

// Parse reads the world file at path.
func Parse(path string) (*WorldFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening world file %s", path)
	}
	defer f.Close()

	w, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return w, nil
}

// sidecarExts lists world file extensions by image extension, most specific
// first.
var sidecarExts = map[string][]string{
	".tif":  {".tfw", ".tifw"},
	".tiff": {".tfw", ".tiffw"},
	".png":  {".pgw", ".pngw"},
	".jpg":  {".jgw", ".jpgw"},
	".jpeg": {".jgw", ".jpegw"},
	".webp": {".wbw", ".webpw"},
}

// Ext returns the conventional world file extension for an image path.
func Ext(imagePath string) string {
	if exts, ok := sidecarExts[strings.ToLower(filepath.Ext(imagePath))]; ok {
		return exts[0]
	}
	return ".wld"
}

// Find looks for a world file next to imagePath and returns its path, or ""
// if there is none. Both lower and upper case extensions are tried, then .wld.
func Find(imagePath string) string {
	ext := filepath.Ext(imagePath)
	base := imagePath[:len(imagePath)-len(ext)]

	candidates := append([]string{}, sidecarExts[strings.ToLower(ext)]...)
	candidates = append(candidates, ".wld")
	for _, c := range candidates {
		for _, p := range []string{base + c, base + strings.ToUpper(c)} {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// Bound returns the outer edges of a width×height image. The world file
// origin is the centre of the upper-left pixel; the bound starts half a pixel
// further out.
func (w *WorldFile) Bound(width, height int) orb.Bound {
	sx := math.Abs(w.PixelSizeX)
	sy := math.Abs(w.PixelSizeY)
	minX := w.OriginX - sx/2
	maxY := w.OriginY + sy/2
	return orb.Bound{
		Min: orb.Point{minX, maxY - float64(height)*sy},
		Max: orb.Point{minX + float64(width)*sx, maxY},
	}
}

// FromBound returns the north-up world file placing a width×height image
// over b.
func FromBound(b orb.Bound, width, height int) *WorldFile {
	sx := (b.Max.X() - b.Min.X()) / float64(width)
	sy := (b.Max.Y() - b.Min.Y()) / float64(height)
	return &WorldFile{
		PixelSizeX: sx,
		PixelSizeY: -sy,
		OriginX:    b.Min.X() + sx/2,
		OriginY:    b.Max.Y() - sy/2,
	}
}

// WriteTo writes the six values, one per line.
func (w *WorldFile) WriteTo(out io.Writer) (int64, error) {
	var sb strings.Builder
	for _, v := range []float64{w.PixelSizeX, w.RotationY, w.RotationX, w.PixelSizeY, w.OriginX, w.OriginY} {
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		sb.WriteByte('\n')
	}
	n, err := io.WriteString(out, sb.String())
	return int64(n), err
}

// Write stores the world file at path.
func Write(path string, w *WorldFile) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating world file %s", path)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing world file %s", path)
	}
	return errors.Wrapf(f.Close(), "closing world file %s", path)
}
