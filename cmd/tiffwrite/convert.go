package main

import (
	"encoding/binary"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	tiff "github.com/AlanRace/go-tiff"
	tiffimage "github.com/AlanRace/go-tiff/image"
	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/viper"
	"golang.org/x/text/encoding/charmap"
)

type options struct {
	ByteOrder    binary.ByteOrder
	Compression  tiff.CompressionID
	RowsPerStrip uint32
	Planar       bool
	Software     string
	Resolution   float64
	Workers      int
}

var compressionNames = map[string]tiff.CompressionID{
	"none":     tiff.Uncompressed,
	"lzw":      tiff.LZW,
	"deflate":  tiff.Deflate,
	"packbits": tiff.PackBits,
}

func parseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "little", "ii", "":
		return binary.LittleEndian, nil
	case "big", "mm":
		return binary.BigEndian, nil
	}

	return nil, fmt.Errorf("unknown byte order %q, want little or big", s)
}

func parseCompression(s string) (tiff.CompressionID, error) {
	if s == "" {
		return tiff.Uncompressed, nil
	}

	compressionID, ok := compressionNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("%w: %q, want none, lzw, deflate or packbits", tiff.ErrUnsupportedCompression, s)
	}

	return compressionID, nil
}

func optionsFromConfig(v *viper.Viper) (options, error) {
	var opts options
	var err error

	if opts.ByteOrder, err = parseByteOrder(v.GetString("byteorder")); err != nil {
		return opts, err
	}
	if opts.Compression, err = parseCompression(v.GetString("compression")); err != nil {
		return opts, err
	}

	rowsPerStrip := v.GetInt("rowsperstrip")
	if rowsPerStrip < 0 {
		return opts, fmt.Errorf("rows per strip must not be negative, got %d", rowsPerStrip)
	}
	opts.RowsPerStrip = uint32(rowsPerStrip)

	if opts.Resolution = v.GetFloat64("resolution"); opts.Resolution < 0 {
		return opts, fmt.Errorf("resolution must not be negative, got %v", opts.Resolution)
	}

	opts.Planar = v.GetBool("planar")
	opts.Software = v.GetString("software")

	if opts.Workers = v.GetInt("workers"); opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	return opts, nil
}

// newDirectory describes img as one image file directory using opts.
func newDirectory(img image.Image, opts options) *tiff.ImageFileDirectory {
	grid, layout := tiffimage.FromImage(img)

	ifd := tiff.NewImageFileDirectory(grid, layout.BitsPerSample, tiff.UnsignedInteger)
	if layout.Alpha {
		ifd.SetExtraSamples(tiff.UnassociatedAlpha)
	}
	if opts.Planar {
		ifd.SetPlanarConfiguration(tiff.Planar)
		ifd.SetRowsPerStrip(ifd.RowsPerStripForSize(tiff.DefaultMaxBytesPerStrip))
	}
	if opts.RowsPerStrip > 0 {
		ifd.SetRowsPerStrip(opts.RowsPerStrip)
	}
	if opts.Resolution > 0 {
		ifd.SetResolution(opts.Resolution, opts.Resolution, tiff.Inch)
	}
	if opts.Software != "" {
		ifd.SetSoftware(opts.Software)
	}
	ifd.SetCompression(opts.Compression)

	return ifd
}

func decodeFile(path string) (image.Image, os.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	gLog.Trace.Printf("Decoded %s as %s, %v", path, format, img.Bounds())

	return img, info, nil
}

// isLatin1 reports whether s can be stored in an ASCII tag.
func isLatin1(s string) bool {
	_, err := charmap.ISO8859_1.NewEncoder().String(s)
	return err == nil
}

// buildFile decodes every input into its own directory, in argument order.
func buildFile(paths []string, opts options) (*tiff.File, error) {
	file := tiff.NewFile(opts.ByteOrder)

	for _, path := range paths {
		img, info, err := decodeFile(path)
		if err != nil {
			return nil, err
		}

		ifd := newDirectory(img, opts)
		if description := filepath.Base(path); isLatin1(description) {
			ifd.SetImageDescription(description)
		} else {
			gLog.Warning.Printf("%s: name is not ISO-8859-1, leaving ImageDescription out", path)
		}
		ifd.SetDateTime(info.ModTime())
		file.AddIFD(ifd)

		width, height := ifd.GetImageDimensions()
		gLog.Info.Printf("%s: %d x %d, %d samples, %d rows per strip", path, width, height,
			ifd.GetSamplesPerPixel(), ifd.GetRowsPerStrip())
	}

	return file, nil
}
