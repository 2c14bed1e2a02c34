package pixel

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// FromImage converts src into the scanout format, scaling when the source
// dimensions differ from w×h.
func FromImage(src image.Image, w, h, stride int) *XRGBImage {
	dst := NewXRGBImage(w, h, stride)
	bounds := src.Bounds()
	if bounds.Dx() == w && bounds.Dy() == h {
		xdraw.Draw(dst, dst.Rect, src, bounds.Min, xdraw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Rect, src, bounds, xdraw.Src, nil)
	return dst
}
