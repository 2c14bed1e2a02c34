package pixel

import (
	"image"
	"image/color"
)

// Buffer holds the pixel values and the device stride.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// XRGBImage is a 32 bits per pixel image with 24-bit color depth, laid out
// little-endian as B, G, R, X. The padding byte is ignored by the scanout
// hardware. The stride may exceed 4×width when the device aligns rows.
type XRGBImage struct {
	Buffer
}

// NewXRGBImage returns an image of w×h pixels with the given row stride in
// bytes. A zero stride defaults to packed rows.
func NewXRGBImage(w, h, stride int) *XRGBImage {
	if stride == 0 {
		stride = w * 4
	}
	return &XRGBImage{
		Buffer: makeBuffer(w, h, stride, stride*h),
	}
}

func (p *XRGBImage) ColorModel() color.Model {
	return color.RGBAModel
}

func (p *XRGBImage) PixOffset(x, y int) int {
	return y*p.Stride + x*4
}

func (p *XRGBImage) At(x, y int) color.Color {
	if !(image.Point{x, y}).In(p.Rect) {
		return color.Transparent
	}

	index := p.PixOffset(x, y)
	return color.RGBA{
		B: p.Pix[index+0],
		G: p.Pix[index+1],
		R: p.Pix[index+2],
		A: 0xff,
	}
}

func (p *XRGBImage) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}).In(p.Rect) {
		return
	}

	index := p.PixOffset(x, y)
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	p.Pix[index+0] = rgba.B
	p.Pix[index+1] = rgba.G
	p.Pix[index+2] = rgba.R
	p.Pix[index+3] = 0x00
}

// Fill the image with a single color.
func (p *XRGBImage) Fill(c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	row := make([]byte, p.Rect.Dx()*4)
	for i := 0; i < len(row); i += 4 {
		row[i+0] = rgba.B
		row[i+1] = rgba.G
		row[i+2] = rgba.R
	}
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		copy(p.Pix[y*p.Stride:], row)
	}
}

// Payload returns the raw scanout bytes. The length is stride × height, so
// the buffer drops into a mapped dumb framebuffer of the same geometry.
func (p *XRGBImage) Payload() ([]byte, error) {
	return p.Pix, nil
}
