package reproject

import (
	"image"
	"sync"
)

// rgbaPool hands out transparent *image.RGBA buffers, one sync.Pool per
// raster size. Resampling runs touch only a few sizes, so the map stays
// small.
type rgbaPool struct {
	bySize sync.Map // image.Point -> *sync.Pool
}

var destPool rgbaPool

func (p *rgbaPool) get(size image.Point) *image.RGBA {
	if sp, ok := p.bySize.Load(size); ok {
		if v := sp.(*sync.Pool).Get(); v != nil {
			img := v.(*image.RGBA)
			clear(img.Pix)
			return img
		}
	}
	return image.NewRGBA(image.Rectangle{Max: size})
}

// put accepts only images that own their whole pixel buffer. Sub-images
// share Pix with their parent and are dropped.
func (p *rgbaPool) put(img *image.RGBA) bool {
	if img == nil || img.Rect.Min != (image.Point{}) {
		return false
	}
	size := img.Rect.Size()
	if size.X <= 0 || size.Y <= 0 || img.Stride != 4*size.X || len(img.Pix) != 4*size.X*size.Y {
		return false
	}
	sp, _ := p.bySize.LoadOrStore(size, &sync.Pool{})
	sp.(*sync.Pool).Put(img)
	return true
}

// GetRGBA returns a fully transparent w×h image for a destination raster.
func GetRGBA(w, h int) *image.RGBA {
	return destPool.get(image.Pt(w, h))
}

// PutRGBA returns a destination raster for reuse once it has been encoded.
// The caller must not touch img afterwards. Nil images and sub-images are
// ignored.
func PutRGBA(img *image.RGBA) {
	destPool.put(img)
}
