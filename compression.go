package tiff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/hhrutter/lzw"
	"github.com/klauspost/compress/zlib"
)

// CompressionMethod encodes a block of raster bytes for one compression id.
type CompressionMethod interface {
	Encode(block []byte, order binary.ByteOrder) ([]byte, error)

	// PerRow reports whether each row is its own block. Otherwise the whole
	// strip is handed to Encode at once.
	PerRow() bool
}

type compressionFunc func() CompressionMethod

var compressionFuncMap = map[CompressionID]compressionFunc{
	Uncompressed: func() CompressionMethod { return NoCompression{} },
	LZW:          func() CompressionMethod { return &LZWCompression{} },
	Deflate:      func() CompressionMethod { return &DeflateCompression{Level: zlib.DefaultCompression} },
	PackBits:     func() CompressionMethod { return PackBitsCompression{} },
}

// NewCompressionMethod returns the method for compressionID, or an error
// wrapping ErrUnsupportedCompression for CCITT, JPEG and unknown schemes.
func NewCompressionMethod(compressionID CompressionID) (CompressionMethod, error) {
	createFunction, ok := compressionFuncMap[compressionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, compressionID)
	}

	return createFunction(), nil
}

// NoCompression passes data through untouched.
type NoCompression struct{}

func (NoCompression) Encode(block []byte, order binary.ByteOrder) ([]byte, error) {
	return block, nil
}

func (NoCompression) PerRow() bool { return true }

// LZWCompression is the TIFF flavour of LZW: MSB first with the early
// change of code width.
type LZWCompression struct{}

func (*LZWCompression) Encode(block []byte, order binary.ByteOrder) ([]byte, error) {
	var buf bytes.Buffer

	w := lzw.NewWriter(&buf, true)
	if _, err := w.Write(block); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (*LZWCompression) PerRow() bool { return false }

type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
		return &zlibWriterPoolItem{writer: w, buf: buf}
	},
}

// DeflateCompression is Adobe style deflate, a zlib stream per strip.
type DeflateCompression struct {
	Level int
}

func (c *DeflateCompression) Encode(block []byte, order binary.ByteOrder) ([]byte, error) {
	if c.Level != zlib.DefaultCompression {
		var buf bytes.Buffer
		w, err := zlib.NewWriterLevel(&buf, c.Level)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(block); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	item := zlibWriterPool.Get().(*zlibWriterPoolItem)
	defer zlibWriterPool.Put(item)

	item.buf.Reset()
	item.writer.Reset(item.buf)

	if _, err := item.writer.Write(block); err != nil {
		return nil, err
	}
	if err := item.writer.Close(); err != nil {
		return nil, err
	}

	// The pooled buffer is reused, hand out a copy.
	result := make([]byte, item.buf.Len())
	copy(result, item.buf.Bytes())

	return result, nil
}

func (*DeflateCompression) PerRow() bool { return false }

// PackBitsCompression is the Macintosh run length scheme. Runs never cross
// rows.
type PackBitsCompression struct{}

func (PackBitsCompression) Encode(block []byte, order binary.ByteOrder) ([]byte, error) {
	return packBits(block), nil
}

func (PackBitsCompression) PerRow() bool { return true }

// packBits emits literal runs as n-1 followed by n bytes and repeat runs as
// 1-n followed by the byte, with n at most 128.
func packBits(src []byte) []byte {
	dst := make([]byte, 0, len(src)+len(src)/128+1)

	i := 0
	for i < len(src) {
		// Length of the run of identical bytes starting at i.
		run := 1
		for i+run < len(src) && run < 128 && src[i+run] == src[i] {
			run++
		}

		if run >= 2 {
			dst = append(dst, byte(1-run), src[i])
			i += run
			continue
		}

		// Literal run up to the next pair of repeated bytes.
		start := i
		for i < len(src) && i-start < 128 {
			if i+1 < len(src) && src[i] == src[i+1] {
				break
			}
			i++
		}
		dst = append(dst, byte(i-start-1))
		dst = append(dst, src[start:i]...)
	}

	return dst
}
