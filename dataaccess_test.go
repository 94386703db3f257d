package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func newTestDataAccess(t *testing.T, ifd *ImageFileDirectory) *StripDataAccess {
	t.Helper()

	compression, err := NewCompressionMethod(ifd.GetCompression())
	if err != nil {
		t.Fatal(err)
	}
	dataAccess, err := newStripDataAccess(ifd, binary.LittleEndian, compression)
	if err != nil {
		t.Fatal(err)
	}

	return dataAccess
}

func TestGetSectionChunky(t *testing.T) {
	ifd := NewImageFileDirectory(testGrid(4, 10, 3, 256), 8, UnsignedInteger)
	ifd.SetRowsPerStrip(4)
	dataAccess := newTestDataAccess(t, ifd)

	want := []Section{
		{Index: 0, Plane: -1, Y: 0, Height: 4},
		{Index: 1, Plane: -1, Y: 4, Height: 4},
		{Index: 2, Plane: -1, Y: 8, Height: 2},
	}
	if dataAccess.GetStripsInImage() != uint32(len(want)) {
		t.Fatalf("%d strips, want %d", dataAccess.GetStripsInImage(), len(want))
	}
	for i, w := range want {
		if got := dataAccess.GetSection(uint32(i)); *got != w {
			t.Errorf("section %d = %+v, want %+v", i, *got, w)
		}
	}
	if width, rows := dataAccess.GetStripDimensions(); width != 4 || rows != 4 {
		t.Errorf("strips are %dx%d, want 4x4", width, rows)
	}
	if dataAccess.GetSection(3) != nil {
		t.Error("section past the last strip should be nil")
	}
}

func TestGetSectionPlanar(t *testing.T) {
	ifd := NewImageFileDirectory(testGrid(4, 5, 2, 256), 8, UnsignedInteger)
	ifd.SetRowsPerStrip(3)
	ifd.SetPlanarConfiguration(Planar)
	dataAccess := newTestDataAccess(t, ifd)

	want := []Section{
		{Index: 0, Plane: 0, Y: 0, Height: 3},
		{Index: 1, Plane: 0, Y: 3, Height: 2},
		{Index: 2, Plane: 1, Y: 0, Height: 3},
		{Index: 3, Plane: 1, Y: 3, Height: 2},
	}
	if dataAccess.GetStripsInImage() != uint32(len(want)) {
		t.Fatalf("%d strips, want %d", dataAccess.GetStripsInImage(), len(want))
	}
	for i, w := range want {
		if got := dataAccess.GetSection(uint32(i)); *got != w {
			t.Errorf("section %d = %+v, want %+v", i, *got, w)
		}
	}
}

func TestEncodeSectionMixedSampleTypes(t *testing.T) {
	grid := testGrid(2, 1, 2, 256)
	grid.SetPixel(0, 0, 1, -1)
	grid.SetPixel(1, 0, 0x0102, 2)

	ifd := NewImageFileDirectory(grid, 16, UnsignedInteger)
	ifd.PutTag(NewShortTag(BitsPerSample, 16, 8))
	ifd.PutTag(NewShortTag(SampleFormat, uint16(UnsignedInteger), uint16(SignedInteger)))
	dataAccess := newTestDataAccess(t, ifd)

	got, err := dataAccess.EncodeSection(dataAccess.GetSection(0))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x01, 0x00, 0xff, 0x02, 0x01, 0x02}
	if string(got) != string(want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestFieldTypeForSampleFallsBackToFirst(t *testing.T) {
	ifd := NewImageFileDirectory(testGrid(1, 1, 3, 256), 8, UnsignedInteger)
	ifd.PutTag(NewShortTag(BitsPerSample, 16))
	ifd.RemoveTag(SampleFormat)

	for sample := 0; sample < 3; sample++ {
		fieldType, err := ifd.FieldTypeForSample(sample)
		if err != nil {
			t.Fatal(err)
		}
		if fieldType != Short {
			t.Errorf("sample %d is %s, want Short", sample, fieldType)
		}
	}
}

func TestRowsPerStripForSize(t *testing.T) {
	tests := []struct {
		width, height, channels int
		bits                    uint16
		planar                  PlanarConfigurationID
		maxBytes                int
		want                    uint32
	}{
		{100, 1000, 1, 8, Chunky, 8000, 80},
		{100, 1000, 3, 8, Chunky, 8000, 26},
		{100, 1000, 3, 8, Planar, 8000, 80},
		{100, 1000, 1, 16, Chunky, 8000, 40},
		{10000, 10, 1, 8, Chunky, 8000, 1},
		{10, 10, 1, 8, Chunky, 8000, 10},
	}

	for _, tt := range tests {
		ifd := NewImageFileDirectory(testGrid(tt.width, tt.height, tt.channels, 256), tt.bits, UnsignedInteger)
		ifd.SetPlanarConfiguration(tt.planar)
		if got := ifd.RowsPerStripForSize(tt.maxBytes); got != tt.want {
			t.Errorf("%dx%dx%d %d bits planar %d: %d rows, want %d",
				tt.width, tt.height, tt.channels, tt.bits, tt.planar, got, tt.want)
		}
	}
}

func TestParallelForWithError(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 100} {
		var calls int32
		err := parallelForWithError(50, workers, func(i int) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
		if err != nil || calls != 50 {
			t.Errorf("%d workers: %d calls, error %v", workers, calls, err)
		}
	}
}

func TestParallelForWithErrorReturnsLowestIndex(t *testing.T) {
	errBoom := errors.New("boom")

	for _, workers := range []int{1, 4, 50} {
		err := parallelForWithError(50, workers, func(i int) error {
			if i == 13 || i == 40 {
				return fmt.Errorf("item %d: %w", i, errBoom)
			}
			return nil
		})
		if !errors.Is(err, errBoom) || err.Error() != "item 13: boom" {
			t.Errorf("%d workers: got %v, want the error of item 13", workers, err)
		}
	}
}
