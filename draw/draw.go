// Package draw provides simple shape primitives on top of mutable images.
package draw

import (
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image
