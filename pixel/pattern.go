package pixel

import (
	"image"
	"image/color"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/vidmode/drmshow/draw"
)

// TestPattern renders a gradient with a white border, useful to verify the
// pipeline end to end without an image file.
func TestPattern(w, h, stride int) *XRGBImage {
	img := NewXRGBImage(w, h, stride)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x + y),
				G: uint8(x - y),
				B: uint8(x * y),
				A: 0xff,
			})
		}
	}
	draw.Rectangle(img, img.Bounds(), color.White)
	draw.Line(img, image.Point{}, image.Point{X: w - 1, Y: h - 1}, color.White)
	draw.Line(img, image.Point{Y: h - 1}, image.Point{X: w - 1}, color.White)
	return img
}

// Banner draws text centered near the bottom of the image, in the Go
// regular typeface.
func Banner(dst *XRGBImage, text string) error {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}

	var (
		bounds = dst.Bounds()
		size   = float64(bounds.Dy()) / 16
	)

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(size)
	c.SetClip(bounds)
	c.SetDst(dst)
	c.SetSrc(image.White)

	// Rough horizontal centering; the banner is diagnostic, not typography.
	var (
		width = int(size) * len(text) / 2
		x     = bounds.Dx()/2 - width/2
		y     = bounds.Dy() - bounds.Dy()/8
	)
	_, err = c.DrawString(text, freetype.Pt(x, y))
	return err
}
