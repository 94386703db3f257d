package main

import (
	"bytes"
	"encoding/binary"
	"image"
	"strings"
	"testing"

	gotiff "github.com/AlanRace/go-tiff"
	tiffimage "github.com/AlanRace/go-tiff/image"
)

func TestDump(t *testing.T) {
	file := gotiff.NewFile(binary.BigEndian)
	for i := 0; i < 2; i++ {
		ifd := gotiff.NewImageFileDirectory(tiffimage.NewGrid(image.Rect(0, 0, 4, 4), 3), 8, gotiff.UnsignedInteger)
		ifd.SetSoftware("tiffdump test")
		file.AddIFD(ifd)
	}

	data, err := gotiff.Encode(file)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := dump(&out, bytes.NewReader(data)); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Version: 42", "Byte Order: big endian", "IFD 0 (", "IFD 1 ("} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output is missing %q:\n%s", want, out.String())
		}
	}
}

func TestDumpNotTIFF(t *testing.T) {
	if err := dump(&bytes.Buffer{}, bytes.NewReader([]byte("XX\x00\x2a"))); err == nil {
		t.Error("expected an error")
	}
}
