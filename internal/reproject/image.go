package reproject

import (
	"log/slog"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/pspoerri/mapproj/internal/coord"
	"github.com/pspoerri/mapproj/internal/geom"
)

// forwardGrowth is the size factor of ForwardImage's destination raster.
// Projected rasters are generally rotated or skewed relative to the source
// grid and need the extra room.
const forwardGrowth = 1.5

// ErrEmptyRaster is returned for rasters without pixels or with a degenerate
// bound.
var ErrEmptyRaster = errors.New("empty raster")

// ForwardImage resamples a raster in longitude/latitude into p's map
// coordinates. The destination is forwardGrowth times the source size;
// pixels that map outside the source stay transparent.
func ForwardImage(p coord.Projection, src *geom.Raster) (*geom.Raster, error) {
	if err := checkRaster(src); err != nil {
		return nil, err
	}
	dstBound, err := ForwardEnvelope(p, src.Bound)
	if err != nil {
		return nil, err
	}
	b := src.Image.Bounds()
	w := int(math.Ceil(float64(b.Dx()) * forwardGrowth))
	h := int(math.Ceil(float64(b.Dy()) * forwardGrowth))
	return render(src, dstBound, w, h, p.Backward)
}

// BackwardImage resamples a raster in p's map coordinates to
// longitude/latitude at the source size.
func BackwardImage(p coord.Projection, src *geom.Raster) (*geom.Raster, error) {
	if err := checkRaster(src); err != nil {
		return nil, err
	}
	dstBound, err := BackwardEnvelope(p, src.Bound)
	if err != nil {
		return nil, err
	}
	b := src.Image.Bounds()
	return render(src, dstBound, b.Dx(), b.Dy(), p.Forward)
}

// ReprojectImage resamples a raster from from's map coordinates to to's at
// the source size.
func ReprojectImage(from, to coord.Projection, src *geom.Raster) (*geom.Raster, error) {
	if err := checkRaster(src); err != nil {
		return nil, err
	}
	dstBound, err := ReprojectEnvelope(from, to, src.Bound)
	if err != nil {
		return nil, err
	}
	b := src.Image.Bounds()
	return render(src, dstBound, b.Dx(), b.Dy(), func(x, y float64) (float64, float64, error) {
		lon, lat, err := to.Backward(x, y)
		if err != nil {
			return 0, 0, err
		}
		return from.Forward(lon, lat)
	})
}

func checkRaster(r *geom.Raster) error {
	if r == nil || r.Image == nil || r.Image.Bounds().Empty() {
		return ErrEmptyRaster
	}
	if !(r.Bound.Max.X() > r.Bound.Min.X()) || !(r.Bound.Max.Y() > r.Bound.Min.Y()) {
		return errors.Wrapf(ErrEmptyRaster, "bound %v", r.Bound)
	}
	return nil
}

// render fills a w×h raster covering dstBound by inverse mapping: every
// destination pixel centre is taken back into the source's coordinates by
// inverse and sampled with nearest neighbour.
func render(src *geom.Raster, dstBound orb.Bound, w, h int, inverse transformFunc) (*geom.Raster, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyRaster
	}
	dstW := dstBound.Max.X() - dstBound.Min.X()
	dstH := dstBound.Max.Y() - dstBound.Min.Y()
	if !(dstW > 0) || !(dstH > 0) {
		return nil, errors.Wrapf(ErrEmptyRaster, "destination bound %v", dstBound)
	}

	sb := src.Image.Bounds()
	srcW, srcH := sb.Dx(), sb.Dy()
	srcMinX, srcMaxY := src.Bound.Min.X(), src.Bound.Max.Y()
	srcScaleX := float64(srcW) / (src.Bound.Max.X() - srcMinX)
	srcScaleY := float64(srcH) / (srcMaxY - src.Bound.Min.Y())

	img := GetRGBA(w, h)
	stepX := dstW / float64(w)
	stepY := dstH / float64(h)
	stride := img.Stride
	failed := 0

	for py := 0; py < h; py++ {
		y := dstBound.Max.Y() - (float64(py)+0.5)*stepY
		rowOff := py * stride
		for px := 0; px < w; px++ {
			x := dstBound.Min.X() + (float64(px)+0.5)*stepX

			sx, sy, err := inverse(x, y)
			if err != nil {
				failed++
				continue
			}
			fx := (sx - srcMinX) * srcScaleX
			fy := (srcMaxY - sy) * srcScaleY
			if !(fx >= 0 && fx < float64(srcW) && fy >= 0 && fy < float64(srcH)) {
				continue
			}
			c := pixelFromImage(src.Image, sb.Min.X+int(fx), sb.Min.Y+int(fy))
			off := rowOff + px*4
			img.Pix[off+0] = c[0]
			img.Pix[off+1] = c[1]
			img.Pix[off+2] = c[2]
			img.Pix[off+3] = c[3]
		}
	}
	if failed > 0 {
		slog.Debug("resample: pixels without inverse", "pixels", failed, "width", w, "height", h)
	}

	return &geom.Raster{Image: img, Bound: dstBound}, nil
}
