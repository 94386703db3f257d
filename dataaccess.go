package tiff

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/AlanRace/go-tiff/internal/byteio"
)

// StripDataAccess cuts the rasters of a directory into strips and encodes
// them. It is built once per directory and does not change afterwards.
type StripDataAccess struct {
	rasters Rasters
	order   binary.ByteOrder

	imageWidth  uint32
	imageLength uint32

	samplesPerPixel uint16
	fieldTypes      []DataTypeID
	planar          bool

	compression CompressionMethod

	rowsPerStrip    uint32
	stripsPerSample uint32
	stripsInImage   uint32
}

// Section describes a single strip. In planar images it covers one sample
// plane only.
type Section struct {
	Index uint32

	// Plane is the sample stored in the strip, or -1 when the strip holds
	// whole pixels.
	Plane int

	Y      uint32
	Height uint32
}

// rasterBlock is the encoded pixel data of a directory, ready to be
// appended after the directory's values.
type rasterBlock struct {
	data       []byte
	offsets    []uint32
	byteCounts []uint32
}

func newStripDataAccess(ifd *ImageFileDirectory, order binary.ByteOrder, compression CompressionMethod) (*StripDataAccess, error) {
	dataAccess := &StripDataAccess{
		rasters:         ifd.Rasters,
		order:           order,
		samplesPerPixel: ifd.GetSamplesPerPixel(),
		planar:          ifd.GetPlanarConfiguration() == Planar,
		compression:     compression,
		rowsPerStrip:    ifd.GetRowsPerStrip(),
	}
	dataAccess.imageWidth, dataAccess.imageLength = ifd.GetImageDimensions()

	dataAccess.fieldTypes = make([]DataTypeID, dataAccess.samplesPerPixel)
	for sample := range dataAccess.fieldTypes {
		fieldType, err := ifd.FieldTypeForSample(sample)
		if err != nil {
			return nil, err
		}
		dataAccess.fieldTypes[sample] = fieldType
	}

	if dataAccess.rowsPerStrip > 0 {
		dataAccess.stripsPerSample = dataAccess.imageLength / dataAccess.rowsPerStrip

		// Check whether we have enough strips in the image to capture full length
		if dataAccess.stripsPerSample*dataAccess.rowsPerStrip < dataAccess.imageLength {
			dataAccess.stripsPerSample++
		}
	}

	dataAccess.stripsInImage = dataAccess.stripsPerSample
	if dataAccess.planar {
		dataAccess.stripsInImage *= uint32(dataAccess.samplesPerPixel)
	}

	return dataAccess, nil
}

// GetStripsInImage returns the number of strips, counting every plane of a
// planar image.
func (dataAccess *StripDataAccess) GetStripsInImage() uint32 {
	return dataAccess.stripsInImage
}

// GetStripDimensions returns the width and the number of rows of a full
// strip.
func (dataAccess *StripDataAccess) GetStripDimensions() (uint32, uint32) {
	return dataAccess.imageWidth, dataAccess.rowsPerStrip
}

// GetSection returns the strip at index. The last strip of each plane is cut
// short at the bottom of the image.
func (dataAccess *StripDataAccess) GetSection(index uint32) *Section {
	if index >= dataAccess.stripsInImage {
		return nil
	}

	section := &Section{Index: index, Plane: -1}

	stripInPlane := index
	if dataAccess.planar {
		section.Plane = int(index / dataAccess.stripsPerSample)
		stripInPlane = index % dataAccess.stripsPerSample
	}

	section.Y = stripInPlane * dataAccess.rowsPerStrip
	section.Height = dataAccess.rowsPerStrip
	if section.Y+section.Height > dataAccess.imageLength {
		section.Height = dataAccess.imageLength - section.Y
	}

	return section
}

// bytesPerRow is the uncompressed size of one row of section.
func (dataAccess *StripDataAccess) bytesPerRow(section *Section) int {
	if section.Plane >= 0 {
		return int(dataAccess.imageWidth) * dataAccess.fieldTypes[section.Plane].Size()
	}

	size := 0
	for _, fieldType := range dataAccess.fieldTypes {
		size += fieldType.Size()
	}

	return int(dataAccess.imageWidth) * size
}

func (dataAccess *StripDataAccess) writeRow(sink *byteio.Sink, section *Section, y int) error {
	for x := 0; x < int(dataAccess.imageWidth); x++ {
		if section.Plane >= 0 {
			value := dataAccess.rasters.Sample(x, y, section.Plane)
			if err := writeSample(sink, dataAccess.fieldTypes[section.Plane], value); err != nil {
				return err
			}
			continue
		}

		pixel := dataAccess.rasters.Pixel(x, y)
		if len(pixel) < len(dataAccess.fieldTypes) {
			return fmt.Errorf("%w: pixel (%d, %d) has %d samples, expected %d", ErrLayoutMismatch, x, y, len(pixel), len(dataAccess.fieldTypes))
		}
		for sample, fieldType := range dataAccess.fieldTypes {
			if err := writeSample(sink, fieldType, pixel[sample]); err != nil {
				return err
			}
		}
	}

	return nil
}

// EncodeSection returns the bytes of one strip as they are stored in the
// file. Row based compression handles each row on its own, stream based
// compression sees the whole strip.
func (dataAccess *StripDataAccess) EncodeSection(section *Section) ([]byte, error) {
	rowBytes := dataAccess.bytesPerRow(section)
	perRow := dataAccess.compression.PerRow()

	if !perRow {
		sink := byteio.NewSink(dataAccess.order, rowBytes*int(section.Height))
		for row := 0; row < int(section.Height); row++ {
			if err := dataAccess.writeRow(sink, section, int(section.Y)+row); err != nil {
				return nil, err
			}
		}

		return dataAccess.compression.Encode(sink.Bytes(), dataAccess.order)
	}

	strip := make([]byte, 0, rowBytes*int(section.Height))
	sink := byteio.NewSink(dataAccess.order, rowBytes)
	for row := 0; row < int(section.Height); row++ {
		sink.Reset()
		if err := dataAccess.writeRow(sink, section, int(section.Y)+row); err != nil {
			return nil, err
		}

		encoded, err := dataAccess.compression.Encode(sink.Bytes(), dataAccess.order)
		if err != nil {
			return nil, err
		}
		strip = append(strip, encoded...)
	}

	return strip, nil
}

// encodeRasters encodes every strip and lays them out one after the other
// starting at start. Strips are encoded by up to workers goroutines; the
// result does not depend on the number of workers.
func (dataAccess *StripDataAccess) encodeRasters(start uint32, workers int) (*rasterBlock, error) {
	numStrips := int(dataAccess.stripsInImage)

	strips := make([][]byte, numStrips)
	err := parallelForWithError(numStrips, workers, func(i int) error {
		data, err := dataAccess.EncodeSection(dataAccess.GetSection(uint32(i)))
		if err != nil {
			return fmt.Errorf("strip %d: %w", i, err)
		}
		strips[i] = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	block := &rasterBlock{
		offsets:    make([]uint32, numStrips),
		byteCounts: make([]uint32, numStrips),
	}

	total := 0
	for _, strip := range strips {
		total += len(strip)
	}
	if uint64(start)+uint64(total) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: raster data ends beyond 4 GiB", ErrUnsupportedLayout)
	}

	block.data = make([]byte, 0, total)
	cursor := start
	for i, strip := range strips {
		block.offsets[i] = cursor
		block.byteCounts[i] = uint32(len(strip))
		block.data = append(block.data, strip...)
		cursor += uint32(len(strip))
	}

	return block, nil
}

// parallelForWithError runs fn(i) for i in [0, n) on up to workers
// goroutines and returns the error of the lowest failing index. workers <= 0
// means runtime.GOMAXPROCS(0), 1 runs everything on the calling goroutine.
func parallelForWithError(n int, workers int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if workers == 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, n)

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				if err := fn(i); err != nil {
					errs[i] = err
					return
				}
			}
		}(start, end)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
