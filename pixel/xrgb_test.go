package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestXRGBImage(t *testing.T) {
	p := NewXRGBImage(4, 2, 0)
	if p.Stride != 16 {
		t.Errorf("expected packed stride 16, got %d", p.Stride)
	}
	if got := len(p.Pix); got != 32 {
		t.Errorf("expected 32 pixel bytes, got %d", got)
	}

	p.Set(1, 1, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})
	index := p.PixOffset(1, 1)
	if p.Pix[index] != 0x33 || p.Pix[index+1] != 0x22 || p.Pix[index+2] != 0x11 {
		t.Errorf("unexpected pixel bytes % x", p.Pix[index:index+4])
	}

	c := p.At(1, 1).(color.RGBA)
	if c.R != 0x11 || c.G != 0x22 || c.B != 0x33 || c.A != 0xff {
		t.Errorf("unexpected color %+v", c)
	}

	if c := p.At(-1, 0); c != color.Transparent {
		t.Errorf("expected transparent outside bounds, got %+v", c)
	}
}

func TestXRGBImageDeviceStride(t *testing.T) {
	// Devices may align rows beyond 4×width.
	p := NewXRGBImage(3, 2, 32)
	if got := len(p.Pix); got != 64 {
		t.Errorf("expected 64 pixel bytes, got %d", got)
	}
	if got := p.PixOffset(0, 1); got != 32 {
		t.Errorf("expected second row at offset 32, got %d", got)
	}

	payload, err := p.Payload()
	if err != nil {
		t.Fatal(err)
	}
	if len(payload) != 64 {
		t.Errorf("expected 64 payload bytes, got %d", len(payload))
	}
}

func TestXRGBImageFill(t *testing.T) {
	p := NewXRGBImage(2, 2, 16)
	p.Fill(color.RGBA{R: 0xff, A: 0xff})

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c := p.At(x, y).(color.RGBA)
			if c.R != 0xff || c.G != 0 || c.B != 0 {
				t.Errorf("unexpected color at (%d,%d): %+v", x, y, c)
			}
		}
	}

	// Alignment padding stays untouched.
	p = NewXRGBImage(2, 1, 12)
	p.Fill(color.White)
	if p.Pix[8] != 0 || p.Pix[11] != 0 {
		t.Errorf("expected padding bytes to stay zero, got % x", p.Pix[8:12])
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})

	p := FromImage(src, 4, 4, 0)
	if c := p.At(0, 0).(color.RGBA); c.R != 0xff {
		t.Errorf("expected red pixel, got %+v", c)
	}
}

func TestFromImageScales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.White)
		}
	}

	p := FromImage(src, 4, 2, 0)
	if got := p.Bounds(); got != image.Rect(0, 0, 4, 2) {
		t.Errorf("unexpected bounds %v", got)
	}
	if c := p.At(2, 1).(color.RGBA); c.R < 0xf0 {
		t.Errorf("expected white after downscale, got %+v", c)
	}
}

func TestTestPattern(t *testing.T) {
	p := TestPattern(32, 16, 0)
	if got := p.Bounds(); got != image.Rect(0, 0, 32, 16) {
		t.Errorf("unexpected bounds %v", got)
	}

	// White border all around.
	for _, pt := range []image.Point{{0, 0}, {31, 0}, {0, 15}, {31, 15}} {
		c := p.At(pt.X, pt.Y).(color.RGBA)
		if c.R != 0xff || c.G != 0xff || c.B != 0xff {
			t.Errorf("expected white border at %v, got %+v", pt, c)
		}
	}
}

func TestBanner(t *testing.T) {
	p := NewXRGBImage(320, 240, 0)
	if err := Banner(p, "test"); err != nil {
		t.Fatal(err)
	}

	var lit bool
	for i := range p.Pix {
		if p.Pix[i] != 0 {
			lit = true
			break
		}
	}
	if !lit {
		t.Error("expected the banner to set pixels")
	}
}
