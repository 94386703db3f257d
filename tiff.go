// Package tiff writes baseline TIFF files made of one or more strip
// organised images.
//
// A File is assembled from ImageFileDirectory values, each carrying its tags
// and a Rasters source for the pixels, and then serialised in one go:
//
//	ifd := tiff.NewImageFileDirectory(grid, 8, tiff.UnsignedInteger)
//	ifd.SetCompression(tiff.LZW)
//
//	file := tiff.NewFile(binary.LittleEndian)
//	file.AddIFD(ifd)
//
//	data, err := tiff.Encode(file)
//
// Every offset in a directory is worked out before the directory is written
// and checked again while writing it, so a returned file is always
// consistent. Any error aborts the whole write.
package tiff

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/AlanRace/go-tiff/internal/byteio"
	"github.com/AlanRace/go-tiff/storage"
)

var logger = log.New(io.Discard, "tiff: ", log.LstdFlags)

// SetLogger sets where the package logs the layout of written files. A nil
// logger disables logging, which is the default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}

// EncodeOptions controls how a file is encoded. The output never depends on
// it.
type EncodeOptions struct {
	// Workers is the number of goroutines encoding strips. 0 means
	// runtime.GOMAXPROCS(0).
	Workers int
}

func isBigEndian(order binary.ByteOrder) bool {
	var probe [2]byte
	order.PutUint16(probe[:], BigEndianMarker&0xff00|0x01)

	return probe[0] == 0x4d
}

// writeHeader writes the byte order mark, the version and the offset of the
// first directory, which always follows the header.
func writeHeader(sink *byteio.Sink) {
	if isBigEndian(sink.Order()) {
		sink.WriteString("MM")
	} else {
		sink.WriteString("II")
	}

	sink.WriteUint16(VersionMarker)
	sink.WriteUint32(8)
}

// Encode serialises file using a single goroutine.
func Encode(file *File) ([]byte, error) {
	return EncodeWithOptions(file, EncodeOptions{Workers: 1})
}

// EncodeWithOptions serialises file. Directories are written in order, each
// followed by its values and strips.
func EncodeWithOptions(file *File, options EncodeOptions) ([]byte, error) {
	if len(file.IFDList) == 0 {
		return nil, &FormatError{msg: "no image file directories to write"}
	}

	sink := byteio.NewSink(file.byteOrder(), 0)
	writeHeader(sink)

	start := uint32(sink.Size())
	for index, ifd := range file.IFDList {
		plan, err := planLayout(ifd, sink.Order(), start)
		if err != nil {
			return nil, fmt.Errorf("ifd %d: %w", index, err)
		}

		end, err := plan.emit(sink, index == len(file.IFDList)-1, options.Workers)
		if err != nil {
			return nil, fmt.Errorf("ifd %d: %w", index, err)
		}

		stripWidth, stripRows := plan.dataAccess.GetStripDimensions()
		logger.Printf("ifd %d: %d entries at %d, %d strips of %dx%d at %d", index, len(plan.entries), plan.start,
			plan.dataAccess.GetStripsInImage(), stripWidth, stripRows, plan.afterValues)

		start = end
	}

	return sink.Bytes(), nil
}

// WriteTo encodes the file and writes it to w. Nothing is written if encoding
// fails.
func (tiffFile *File) WriteTo(w io.Writer) (int64, error) {
	data, err := Encode(tiffFile)
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)
	return int64(n), err
}

// WriteFile encodes the file and stores it at path. The file appears
// complete or not at all.
func WriteFile(path string, file *File) error {
	data, err := Encode(file)
	if err != nil {
		return err
	}

	dir, name := filepath.Split(path)
	return storage.NewFileDestination(dir).Put(context.Background(), name, data)
}
