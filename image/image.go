// Package image holds in-memory pixel grids that can be written as TIFF
// rasters, and the conversion from Go images into them.
package image

import (
	"image"
	"image/color"
	"math/bits"

	tiffcolor "github.com/AlanRace/go-tiff/image/color"
)

// mul3NonNeg returns (x * y * z), unless at least one argument is negative or
// if the computation overflows the int type, in which case it returns -1.
func mul3NonNeg(x int, y int, z int) int {
	if (x < 0) || (y < 0) || (z < 0) {
		return -1
	}
	hi, lo := bits.Mul64(uint64(x), uint64(y))
	if hi != 0 {
		return -1
	}
	hi, lo = bits.Mul64(lo, uint64(z))
	if hi != 0 {
		return -1
	}
	a := int(lo)
	if (a < 0) || (uint64(a) != lo) {
		return -1
	}
	return a
}

// pixelBufferLength returns the length of the buffer for the NewXxx
// functions. Conceptually, this is just (samples * width * height), but this
// function panics if at least one of those is negative or if the computation
// would overflow the int type.
func pixelBufferLength(samplesPerPixel int, r image.Rectangle, imageTypeName string) int {
	totalLength := mul3NonNeg(samplesPerPixel, r.Dx(), r.Dy())

	if totalLength < 0 {
		panic("image: New" + imageTypeName + " Rectangle has huge or negative dimensions")
	}

	return totalLength
}

// Grid is a rectangle of pixels with any number of samples each, held as
// float64 so that every TIFF sample type fits.
//
// Width, Height, Sample and Pixel take coordinates relative to Rect.Min, as
// a TIFF writer sees them.
type Grid struct {
	// Samples holds the samples of every pixel, interleaved. The samples of
	// pixel (x, y) start at Samples[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*Channels].
	Samples []float64
	// Stride is the Samples distance between vertically adjacent pixels.
	Stride int
	Rect   image.Rectangle

	Channels int
}

// NewGrid returns a zeroed grid with the given bounds.
func NewGrid(r image.Rectangle, channels int) *Grid {
	return &Grid{
		Samples:  make([]float64, pixelBufferLength(channels, r, "Grid")),
		Stride:   channels * r.Dx(),
		Rect:     r,
		Channels: channels,
	}
}

func (p *Grid) Width() int           { return p.Rect.Dx() }
func (p *Grid) Height() int          { return p.Rect.Dy() }
func (p *Grid) SamplesPerPixel() int { return p.Channels }

// SampleOffset returns the index of the first element of Samples that
// corresponds to the pixel at (x, y), relative to Rect.Min.
func (p *Grid) SampleOffset(x, y int) int {
	return y*p.Stride + x*p.Channels
}

func (p *Grid) Sample(x, y, sample int) float64 {
	return p.Samples[p.SampleOffset(x, y)+sample]
}

// Pixel returns the samples of the pixel at (x, y). The returned slice
// shares storage with the grid.
func (p *Grid) Pixel(x, y int) []float64 {
	i := p.SampleOffset(x, y)
	return p.Samples[i : i+p.Channels : i+p.Channels]
}

func (p *Grid) SetSample(x, y, sample int, value float64) {
	p.Samples[p.SampleOffset(x, y)+sample] = value
}

func (p *Grid) SetPixel(x, y int, values ...float64) {
	copy(p.Pixel(x, y), values)
}

// Layout describes how the samples of a converted image are to be stored.
type Layout struct {
	BitsPerSample uint16
	// Alpha is set when the last channel is unassociated alpha.
	Alpha bool
}

type opaquer interface {
	Opaque() bool
}

// FromImage converts img into a grid of unsigned integer samples. Gray images
// keep a single channel and their bit depth, 64-bit colour images become
// 16-bit RGB and everything else 8-bit RGB, with an alpha channel when an
// RGBA or NRGBA image is not fully opaque.
func FromImage(img image.Image) (*Grid, Layout) {
	bounds := img.Bounds()
	size := image.Rect(0, 0, bounds.Dx(), bounds.Dy())

	switch src := img.(type) {
	case *image.Gray:
		grid := NewGrid(size, 1)
		for y := 0; y < size.Dy(); y++ {
			for x := 0; x < size.Dx(); x++ {
				grid.SetSample(x, y, 0, float64(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y))
			}
		}
		return grid, Layout{BitsPerSample: 8}

	case *image.Gray16:
		grid := NewGrid(size, 1)
		for y := 0; y < size.Dy(); y++ {
			for x := 0; x < size.Dx(); x++ {
				grid.SetSample(x, y, 0, float64(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y))
			}
		}
		return grid, Layout{BitsPerSample: 16}

	case *RGB:
		grid := NewGrid(size, 3)
		for y := 0; y < size.Dy(); y++ {
			for x := 0; x < size.Dx(); x++ {
				grid.SetPixel(x, y, src.RGBAt(bounds.Min.X+x, bounds.Min.Y+y).Samples()...)
			}
		}
		return grid, Layout{BitsPerSample: 8}

	case *image.RGBA64, *image.NRGBA64:
		grid := NewGrid(size, 3)
		for y := 0; y < size.Dy(); y++ {
			for x := 0; x < size.Dx(); x++ {
				c := tiffcolor.RGB16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(tiffcolor.Sampler)
				grid.SetPixel(x, y, c.Samples()...)
			}
		}
		return grid, Layout{BitsPerSample: 16}
	}

	if o, ok := img.(opaquer); ok && !o.Opaque() {
		switch img.(type) {
		case *image.RGBA, *image.NRGBA:
			grid := NewGrid(size, 4)
			for y := 0; y < size.Dy(); y++ {
				for x := 0; x < size.Dx(); x++ {
					c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
					grid.SetPixel(x, y, float64(c.R), float64(c.G), float64(c.B), float64(c.A))
				}
			}
			return grid, Layout{BitsPerSample: 8, Alpha: true}
		}
	}

	grid := NewGrid(size, 3)
	for y := 0; y < size.Dy(); y++ {
		for x := 0; x < size.Dx(); x++ {
			c := tiffcolor.RGBModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(tiffcolor.Sampler)
			grid.SetPixel(x, y, c.Samples()...)
		}
	}
	return grid, Layout{BitsPerSample: 8}
}

// RGB is an in-memory image of 8-bit red, green and blue samples.
type RGB struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

func (p *RGB) ColorModel() color.Model { return tiffcolor.RGBModel }

func (p *RGB) Bounds() image.Rectangle { return p.Rect }

func (p *RGB) At(x, y int) color.Color {
	return p.RGBAt(x, y)
}

func (p *RGB) RGBAt(x, y int) tiffcolor.RGB {
	if !(image.Point{x, y}.In(p.Rect)) {
		return tiffcolor.RGB{}
	}

	i := p.PixOffset(x, y)

	s := p.Pix[i : i+3 : i+3] // Small cap improves performance, see https://golang.org/issue/27857
	return tiffcolor.RGB{R: s[0], G: s[1], B: s[2]}
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *RGB) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

func (p *RGB) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}

	p.SetRGB(x, y, tiffcolor.RGBModel.Convert(c).(tiffcolor.RGB))
}

func (p *RGB) SetRGB(x, y int, c tiffcolor.RGB) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}

	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]

	s[0] = c.R
	s[1] = c.G
	s[2] = c.B
}

// NewRGB returns a new RGB image with the given bounds.
func NewRGB(r image.Rectangle) *RGB {
	return &RGB{
		Pix:    make([]uint8, pixelBufferLength(3, r, "RGB")),
		Stride: 3 * r.Dx(),
		Rect:   r,
	}
}
