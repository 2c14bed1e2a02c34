package draw

import (
	"image"
	"image/color"
)

// Line draws a line between two points.
func Line(dst Image, a, b image.Point, c color.Color) {
	bresenham(dst, a.X, a.Y, b.X, b.Y, c)
}

// HorizontalLine draws a line between (x,y) and (x+w,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	bresenham(dst, x, y, x+w-1, y, c)
}

// VerticalLine draws a line between (x,y) and (x,y+h).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	bresenham(dst, x, y, x, y+h-1, c)
}

// Rectangle draws a rectangle outline.
func Rectangle(dst Image, rect image.Rectangle, c color.Color) {
	for x := rect.Min.X; x < rect.Max.X; x++ {
		dst.Set(x, rect.Min.Y, c)
		dst.Set(x, rect.Max.Y-1, c)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		dst.Set(rect.Min.X, y, c)
		dst.Set(rect.Max.X-1, y, c)
	}
}

// Box draws a filled rectangle.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		HorizontalLine(dst, rect.Min.X, y, rect.Dx(), c)
	}
}

// bresenham rasterizes the segment (x1,y1)-(x2,y2). Points are sorted so
// the line always advances in x, which halves the number of octants.
func bresenham(dst Image, x1, y1, x2, y2 int, c color.Color) {
	if x1 > x2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	dx, dy := x2-x1, y2-y1
	if dy < 0 {
		dy = -dy
	}
	step := 1
	if y2 < y1 {
		step = -1
	}

	switch {
	case x1 == x2 && y1 == y2:
		dst.Set(x1, y1, c)

	case y1 == y2:
		for ; x1 <= x2; x1++ {
			dst.Set(x1, y1, c)
		}

	case x1 == x2:
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		for ; y1 <= y2; y1++ {
			dst.Set(x1, y1, c)
		}

	case dx >= dy:
		e := dx
		for i := 0; i <= dx; i++ {
			dst.Set(x1, y1, c)
			x1++
			e -= 2 * dy
			if e < 0 {
				y1 += step
				e += 2 * dx
			}
		}

	default:
		e := dy
		for i := 0; i <= dy; i++ {
			dst.Set(x1, y1, c)
			y1 += step
			e -= 2 * dx
			if e < 0 {
				x1++
				e += 2 * dy
			}
		}
	}
}
