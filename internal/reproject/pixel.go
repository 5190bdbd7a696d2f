package reproject

import "image"

// pixelFromImage returns the premultiplied RGBA pixel at (x, y), which the
// caller guarantees is inside img.Bounds(). The common decoder outputs are
// read straight from their backing slices; everything else goes through
// image.At.
func pixelFromImage(img image.Image, x, y int) [4]uint8 {
	switch m := img.(type) {
	case *image.RGBA:
		i := m.PixOffset(x, y)
		return [4]uint8{m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]}
	case *image.YCbCr:
		r, g, b := ycbcrToRGB(m.Y[m.YOffset(x, y)], m.Cb[m.COffset(x, y)], m.Cr[m.COffset(x, y)])
		return [4]uint8{r, g, b, 255}
	case *image.NYCbCrA:
		ci := m.COffset(x, y)
		r, g, b := ycbcrToRGB(m.Y[m.YOffset(x, y)], m.Cb[ci], m.Cr[ci])
		a := m.A[m.AOffset(x, y)]
		if a == 255 {
			return [4]uint8{r, g, b, a}
		}
		return [4]uint8{premul(r, a), premul(g, a), premul(b, a), a}
	case *image.Gray:
		v := m.Pix[m.PixOffset(x, y)]
		return [4]uint8{v, v, v, 255}
	default:
		rr, gg, bb, aa := img.At(x, y).RGBA()
		return [4]uint8{uint8(rr >> 8), uint8(gg >> 8), uint8(bb >> 8), uint8(aa >> 8)}
	}
}

// ycbcrToRGB matches image/color.YCbCr.RGBA, returning 8-bit channels.
func ycbcrToRGB(y, cb, cr uint8) (uint8, uint8, uint8) {
	yy1 := int32(y) * 0x10101
	cb1 := int32(cb) - 128
	cr1 := int32(cr) - 128
	r := clamp16(yy1 + 91881*cr1)
	g := clamp16(yy1 - 22554*cb1 - 46802*cr1)
	b := clamp16(yy1 + 116130*cb1)
	return uint8(r >> 16), uint8(g >> 16), uint8(b >> 16)
}

func clamp16(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 0xFF0000 {
		return 0xFF0000
	}
	return v
}

func premul(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 127) / 255)
}
