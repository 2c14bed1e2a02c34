// Package pixel implements the 32-bit XRGB image format scanned out by dumb
// framebuffers, compatible with Go's native [color.Color] and
// [image.Image] / [draw.Image] interfaces, plus converters for arbitrary
// images.
package pixel
