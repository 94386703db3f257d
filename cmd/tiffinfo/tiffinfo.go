// Command tiffinfo decodes TIFF files with golang.org/x/image/tiff and prints
// what a reader independent of this module makes of them.
//
//	tiffinfo out.tif other.tif
package main

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"golang.org/x/image/tiff"
)

func colorModelName(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "paletted"
	}

	switch m {
	case color.GrayModel:
		return "gray (8 bit)"
	case color.Gray16Model:
		return "gray (16 bit)"
	case color.RGBAModel:
		return "RGBA (8 bit)"
	case color.RGBA64Model:
		return "RGBA (16 bit)"
	case color.NRGBAModel:
		return "NRGBA (8 bit)"
	case color.NRGBA64Model:
		return "NRGBA (16 bit)"
	case color.CMYKModel:
		return "CMYK"
	}

	return fmt.Sprintf("%T", m)
}

// describe prints the first image of the TIFF read from r.
func describe(w io.Writer, r io.ReadSeeker) error {
	config, err := tiff.DecodeConfig(r)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Image size: %d x %d\n", config.Width, config.Height)
	fmt.Fprintf(w, "Colour model: %s\n", colorModelName(config.ColorModel))

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}

	img, err := tiff.Decode(r)
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	fmt.Fprintf(w, "Decoded as: %T\n", img)
	if !bounds.Empty() {
		fmt.Fprintf(w, "First pixel: %v\n", img.At(bounds.Min.X, bounds.Min.Y))
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		fmt.Fprintf(w, "Opaque: %t\n", o.Opaque())
	}

	return nil
}

func main() {
	failed := false

	for _, path := range os.Args[1:] {
		file, err := os.Open(path)
		if err != nil {
			log.Print(err)
			failed = true
			continue
		}

		fmt.Println(path)
		if err := describe(os.Stdout, file); err != nil {
			log.Printf("%s: %v", path, err)
			failed = true
		}
		fmt.Println()

		file.Close()
	}

	if failed {
		os.Exit(1)
	}
}
