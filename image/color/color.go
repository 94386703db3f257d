// Package color provides the opaque RGB colour types that images are reduced
// to before their samples are written to a TIFF strip.
package color

import (
	"image/color"
)

// Sampler is a colour that can list its channels as TIFF samples, in the
// order they are stored.
type Sampler interface {
	color.Color
	Samples() []float64
}

// RGB is an opaque colour with 8 bits for each of red, green and blue.
type RGB struct {
	R, G, B uint8
}

func widen(v uint8) uint32 {
	return uint32(v) | uint32(v)<<8
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	return widen(c.R), widen(c.G), widen(c.B), 0xffff
}

func (c RGB) Samples() []float64 {
	return []float64{float64(c.R), float64(c.G), float64(c.B)}
}

// RGB16 is an opaque colour with 16 bits for each of red, green and blue.
type RGB16 struct {
	R, G, B uint16
}

func (c RGB16) RGBA() (r, g, b, a uint32) {
	return uint32(c.R), uint32(c.G), uint32(c.B), 0xffff
}

func (c RGB16) Samples() []float64 {
	return []float64{float64(c.R), float64(c.G), float64(c.B)}
}

// Models for RGB and RGB16. Alpha is dropped, so colours with transparency
// keep their premultiplied values.
var (
	RGBModel   color.Model = color.ModelFunc(rgbModel)
	RGB16Model color.Model = color.ModelFunc(rgb16Model)
)

func rgbModel(c color.Color) color.Color {
	if _, ok := c.(RGB); ok {
		return c
	}

	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func rgb16Model(c color.Color) color.Color {
	if _, ok := c.(RGB16); ok {
		return c
	}

	r, g, b, _ := c.RGBA()
	return RGB16{uint16(r), uint16(g), uint16(b)}
}
