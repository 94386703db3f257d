package tiff

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/go-multierror"
)

const (
	LittleEndianMarker uint16 = 0x4949
	BigEndianMarker    uint16 = 0x4d4d

	VersionMarker uint16 = 0x2a
)

// DefaultMaxBytesPerStrip is the uncompressed strip size NewImageFileDirectory
// aims for when choosing RowsPerStrip.
const DefaultMaxBytesPerStrip = 8000

// Rasters is the pixel grid of one directory. Samples are handed out as
// float64, which holds every supported sample type exactly.
type Rasters interface {
	Width() int
	Height() int
	SamplesPerPixel() int

	Sample(x, y, sample int) float64
	Pixel(x, y int) []float64
}

// File is a TIFF image made of one or more directories, written in order.
type File struct {
	// Endian is the byte order of the whole file. Nil means little endian.
	Endian  binary.ByteOrder
	IFDList []*ImageFileDirectory
}

func NewFile(endian binary.ByteOrder) *File {
	return &File{Endian: endian}
}

// AddIFD appends a directory to the file.
func (tiffFile *File) AddIFD(ifd *ImageFileDirectory) {
	tiffFile.IFDList = append(tiffFile.IFDList, ifd)
}

func (tiffFile *File) byteOrder() binary.ByteOrder {
	if tiffFile.Endian == nil {
		return binary.LittleEndian
	}

	return tiffFile.Endian
}

// ImageFileDirectory is one image: its tags and its pixels. StripOffsets and
// StripByteCounts are computed while writing and any values set here are
// replaced in the output. Writing never modifies the directory.
type ImageFileDirectory struct {
	Tags    map[TagID]Tag
	Rasters Rasters
}

// NewImageFileDirectory creates a stripped, chunky, uncompressed directory
// describing r, where every sample is bitsPerSample wide and stored as format.
func NewImageFileDirectory(r Rasters, bitsPerSample uint16, format SampleFormatID) *ImageFileDirectory {
	ifd := &ImageFileDirectory{Rasters: r}

	samplesPerPixel := r.SamplesPerPixel()
	bits := make([]uint16, samplesPerPixel)
	formats := make([]uint16, samplesPerPixel)
	for i := range bits {
		bits[i] = bitsPerSample
		formats[i] = uint16(format)
	}

	ifd.PutTag(NewLongTag(ImageWidth, uint32(r.Width())))
	ifd.PutTag(NewLongTag(ImageLength, uint32(r.Height())))
	ifd.PutTag(NewShortTag(BitsPerSample, bits...))
	ifd.PutTag(NewShortTag(SamplesPerPixel, uint16(samplesPerPixel)))
	ifd.PutTag(NewShortTag(SampleFormat, formats...))
	ifd.SetCompression(Uncompressed)
	ifd.SetPlanarConfiguration(Chunky)

	if samplesPerPixel >= 3 {
		ifd.SetPhotometricInterpretation(RGB)
	} else {
		ifd.SetPhotometricInterpretation(BlackIsZero)
	}

	ifd.SetRowsPerStrip(ifd.RowsPerStripForSize(DefaultMaxBytesPerStrip))

	return ifd
}

func (ifd *ImageFileDirectory) PutTag(tag Tag) {
	if ifd.Tags == nil {
		ifd.Tags = make(map[TagID]Tag)
	}

	ifd.Tags[tag.TagID()] = tag
}

func (ifd *ImageFileDirectory) RemoveTag(tagID TagID) {
	delete(ifd.Tags, tagID)
}

func (ifd *ImageFileDirectory) HasTag(tagID TagID) bool {
	_, ok := ifd.Tags[tagID]

	return ok
}

// GetTag returns the tag with the given id, nil when there is none.
func (ifd *ImageFileDirectory) GetTag(tagID TagID) Tag {
	return ifd.Tags[tagID]
}

// SortedTagIDs returns the ids of all tags in increasing order.
func (ifd *ImageFileDirectory) SortedTagIDs() []TagID {
	tagIDs := make(TagIDSlice, 0, len(ifd.Tags))
	for tagID := range ifd.Tags {
		tagIDs = append(tagIDs, tagID)
	}
	tagIDs.Sort()

	return tagIDs
}

// GetShortTagValue returns the first value of a SHORT tag, or of a LONG tag
// whose value fits in 16 bits.
func (ifd *ImageFileDirectory) GetShortTagValue(tagID TagID) (uint16, error) {
	tag := ifd.GetTag(tagID)

	switch tag := tag.(type) {
	case *ShortTag:
		if len(tag.Data) > 0 {
			return tag.Data[0], nil
		}
	case *LongTag:
		if len(tag.Data) > 0 && tag.Data[0] <= math.MaxUint16 {
			return uint16(tag.Data[0]), nil
		}
	}

	return 0, &FormatError{msg: fmt.Sprintf("couldn't convert tag to short (%s): %v", tagID, tag)}
}

// GetLongTagValue returns the first value of a SHORT or LONG tag.
func (ifd *ImageFileDirectory) GetLongTagValue(tagID TagID) (uint32, bool) {
	switch tag := ifd.Tags[tagID].(type) {
	case *LongTag:
		if len(tag.Data) > 0 {
			return tag.Data[0], true
		}
	case *ShortTag:
		if len(tag.Data) > 0 {
			return uint32(tag.Data[0]), true
		}
	}

	return 0, false
}

func (ifd *ImageFileDirectory) GetImageDimensions() (uint32, uint32) {
	width, _ := ifd.GetLongTagValue(ImageWidth)
	length, _ := ifd.GetLongTagValue(ImageLength)

	return width, length
}

// GetRowsPerStrip returns the number of rows in each strip. Some writers
// (ImageJ among them) store 0, which like a missing tag means one strip.
func (ifd *ImageFileDirectory) GetRowsPerStrip() uint32 {
	_, imageLength := ifd.GetImageDimensions()

	rowsPerStrip, ok := ifd.GetLongTagValue(RowsPerStrip)
	if !ok || rowsPerStrip == 0 || rowsPerStrip > imageLength {
		return imageLength
	}

	return rowsPerStrip
}

// GetPlanarConfiguration returns Chunky when the tag is missing and 0, which
// Validate rejects, when it cannot be read.
func (ifd *ImageFileDirectory) GetPlanarConfiguration() PlanarConfigurationID {
	if !ifd.HasTag(PlanarConfiguration) {
		return Chunky
	}

	planarConfiguration, err := ifd.GetShortTagValue(PlanarConfiguration)
	if err != nil {
		return 0
	}

	return PlanarConfigurationID(planarConfiguration)
}

// GetCompression returns the compression id, Uncompressed when the tag is
// missing and 0, which no method is registered for, when it cannot be read.
func (ifd *ImageFileDirectory) GetCompression() CompressionID {
	if !ifd.HasTag(Compression) {
		return Uncompressed
	}

	compressionID, err := ifd.GetShortTagValue(Compression)
	if err != nil {
		return 0
	}

	return CompressionID(compressionID)
}

// GetSamplesPerPixel returns the SamplesPerPixel tag, falling back to the
// rasters and then to 1. An unreadable tag gives 0.
func (ifd *ImageFileDirectory) GetSamplesPerPixel() uint16 {
	if ifd.HasTag(SamplesPerPixel) {
		samplesPerPixel, _ := ifd.GetShortTagValue(SamplesPerPixel)
		return samplesPerPixel
	}

	if ifd.Rasters != nil {
		return uint16(ifd.Rasters.SamplesPerPixel())
	}

	return 1
}

func (ifd *ImageFileDirectory) GetBitsPerSample() ([]uint16, error) {
	bitsPerSampleTag, ok := ifd.Tags[BitsPerSample].(*ShortTag)
	if !ok || len(bitsPerSampleTag.Data) == 0 {
		return nil, &FormatError{msg: "BitsPerSample tag appears to be missing"}
	}

	return bitsPerSampleTag.Data, nil
}

// GetSampleFormat returns the SampleFormat values, unsigned integer when the
// tag is missing.
func (ifd *ImageFileDirectory) GetSampleFormat() []SampleFormatID {
	sampleFormatTag, ok := ifd.Tags[SampleFormat].(*ShortTag)
	if !ok || len(sampleFormatTag.Data) == 0 {
		return []SampleFormatID{UnsignedInteger}
	}

	formats := make([]SampleFormatID, len(sampleFormatTag.Data))
	for i, format := range sampleFormatTag.Data {
		formats[i] = SampleFormatID(format)
	}

	return formats
}

// FieldTypeForSample returns the field type samples of the given index are
// stored as. When BitsPerSample or SampleFormat hold fewer values than there
// are samples, the first value applies to all of them.
func (ifd *ImageFileDirectory) FieldTypeForSample(sample int) (DataTypeID, error) {
	bitsPerSample, err := ifd.GetBitsPerSample()
	if err != nil {
		return 0, err
	}
	bits := bitsPerSample[0]
	if sample < len(bitsPerSample) {
		bits = bitsPerSample[sample]
	}

	formats := ifd.GetSampleFormat()
	format := formats[0]
	if sample < len(formats) {
		format = formats[sample]
	}

	switch {
	case format == UnsignedInteger && bits == 8:
		return Byte, nil
	case format == UnsignedInteger && bits == 16:
		return Short, nil
	case format == UnsignedInteger && bits == 32:
		return Long, nil
	case format == SignedInteger && bits == 8:
		return SByte, nil
	case format == SignedInteger && bits == 16:
		return SShort, nil
	case format == SignedInteger && bits == 32:
		return SLong, nil
	case format == IEEEFloat && bits == 32:
		return Float, nil
	case format == IEEEFloat && bits == 64:
		return Double, nil
	}

	return 0, fmt.Errorf("%w: sample %d has %d bits with sample format %d", ErrInvalidFieldType, sample, bits, format)
}

// bytesPerRow is the uncompressed size of one row of one strip.
func (ifd *ImageFileDirectory) bytesPerRow() (int, error) {
	width, _ := ifd.GetImageDimensions()
	planar := ifd.GetPlanarConfiguration() == Planar

	size := 0
	for sample := 0; sample < int(ifd.GetSamplesPerPixel()); sample++ {
		fieldType, err := ifd.FieldTypeForSample(sample)
		if err != nil {
			return 0, err
		}

		if !planar {
			size += fieldType.Size()
		} else if fieldType.Size() > size {
			size = fieldType.Size()
		}
	}

	return int(width) * size, nil
}

// RowsPerStripForSize returns how many rows fit into maxBytes uncompressed,
// at least one and at most the image height.
func (ifd *ImageFileDirectory) RowsPerStripForSize(maxBytes int) uint32 {
	_, imageLength := ifd.GetImageDimensions()

	bytesPerRow, err := ifd.bytesPerRow()
	if err != nil || bytesPerRow == 0 {
		return imageLength
	}

	rows := maxBytes / bytesPerRow
	if rows < 1 {
		rows = 1
	}
	if uint64(rows) > uint64(imageLength) {
		return imageLength
	}

	return uint32(rows)
}

func (ifd *ImageFileDirectory) SetCompression(compressionID CompressionID) {
	ifd.PutTag(NewShortTag(Compression, uint16(compressionID)))
}

func (ifd *ImageFileDirectory) SetRowsPerStrip(rowsPerStrip uint32) {
	ifd.PutTag(NewLongTag(RowsPerStrip, rowsPerStrip))
}

func (ifd *ImageFileDirectory) SetPlanarConfiguration(planarConfiguration PlanarConfigurationID) {
	ifd.PutTag(NewShortTag(PlanarConfiguration, uint16(planarConfiguration)))
}

func (ifd *ImageFileDirectory) SetPhotometricInterpretation(photometricInterpretation PhotometricInterpretationID) {
	ifd.PutTag(NewShortTag(PhotometricInterpretation, uint16(photometricInterpretation)))
}

// SetResolution stores the number of pixels per unit in x and y.
func (ifd *ImageFileDirectory) SetResolution(x, y float64, unit ResolutionUnitID) {
	ifd.PutTag(NewRationalTag(XResolution, NewRationalNumber(x)))
	ifd.PutTag(NewRationalTag(YResolution, NewRationalNumber(y)))
	ifd.PutTag(NewShortTag(ResolutionUnit, uint16(unit)))
}

func (ifd *ImageFileDirectory) SetSoftware(software string) {
	ifd.PutTag(NewASCIITag(Software, software))
}

func (ifd *ImageFileDirectory) SetImageDescription(description string) {
	ifd.PutTag(NewASCIITag(ImageDescription, description))
}

// SetDateTime stores t in the "YYYY:MM:DD HH:MM:SS" form TIFF uses.
func (ifd *ImageFileDirectory) SetDateTime(t time.Time) {
	ifd.PutTag(NewASCIITag(DateTime, t.Format("2006:01:02 15:04:05")))
}

func (ifd *ImageFileDirectory) SetExtraSamples(extraSamples ...ExtraSampleID) {
	values := make([]uint16, len(extraSamples))
	for i, extraSample := range extraSamples {
		values[i] = uint16(extraSample)
	}

	ifd.PutTag(NewShortTag(ExtraSamples, values...))
}

// IsTiled reports whether any of the tile tags is present.
func (ifd *ImageFileDirectory) IsTiled() bool {
	return ifd.HasTag(TileWidth) || ifd.HasTag(TileLength) || ifd.HasTag(TileOffsets) || ifd.HasTag(TileByteCounts)
}

// Validate checks that the directory can be written and reports every
// problem found, not just the first.
func (ifd *ImageFileDirectory) Validate() error {
	var result error

	width, widthOK := ifd.GetLongTagValue(ImageWidth)
	length, lengthOK := ifd.GetLongTagValue(ImageLength)
	if !widthOK {
		result = multierror.Append(result, &FormatError{msg: "ImageWidth tag appears to be missing"})
	}
	if !lengthOK {
		result = multierror.Append(result, &FormatError{msg: "ImageLength tag appears to be missing"})
	}

	if ifd.Rasters == nil {
		result = multierror.Append(result, &FormatError{msg: "no rasters to write"})
	} else {
		if widthOK && lengthOK && (uint64(ifd.Rasters.Width()) != uint64(width) || uint64(ifd.Rasters.Height()) != uint64(length)) {
			result = multierror.Append(result, &FormatError{msg: fmt.Sprintf("rasters are %dx%d but tags say %dx%d",
				ifd.Rasters.Width(), ifd.Rasters.Height(), width, length)})
		}
		if samplesPerPixel := int(ifd.GetSamplesPerPixel()); ifd.Rasters.SamplesPerPixel() != samplesPerPixel {
			result = multierror.Append(result, &FormatError{msg: fmt.Sprintf("rasters have %d samples per pixel but SamplesPerPixel is %d",
				ifd.Rasters.SamplesPerPixel(), samplesPerPixel)})
		}
	}

	for _, tagID := range []TagID{Compression, PlanarConfiguration, SamplesPerPixel} {
		if _, err := ifd.GetShortTagValue(tagID); ifd.HasTag(tagID) && err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, tagID := range []TagID{ImageWidth, ImageLength, RowsPerStrip} {
		if _, ok := ifd.GetLongTagValue(tagID); ifd.HasTag(tagID) && !ok {
			result = multierror.Append(result, &FormatError{msg: fmt.Sprintf("%s must be SHORT or LONG", tagID)})
		}
	}
	for _, tagID := range []TagID{BitsPerSample, SampleFormat} {
		if _, ok := ifd.Tags[tagID].(*ShortTag); ifd.HasTag(tagID) && !ok {
			result = multierror.Append(result, &FormatError{msg: fmt.Sprintf("%s must be SHORT", tagID)})
		}
	}

	if planarConfiguration := ifd.GetPlanarConfiguration(); planarConfiguration != Chunky && planarConfiguration != Planar {
		result = multierror.Append(result, &FormatError{msg: fmt.Sprintf("invalid PlanarConfiguration %d", planarConfiguration)})
	}

	for _, tagID := range ifd.SortedTagIDs() {
		tag := ifd.GetTag(tagID)
		if tag.TagID() != tagID {
			result = multierror.Append(result, &FormatError{msg: fmt.Sprintf("tag %s stored under %s", tag.TagID(), tagID)})
		}
		if !tagID.IsArray() && tag.Count() != 1 {
			result = multierror.Append(result, &FormatError{msg: fmt.Sprintf("%s must hold a single value, has %d", tagID, tag.Count())})
		}
		if asciiTag, ok := tag.(*ASCIITag); ok {
			if _, err := asciiTag.encoded(); err != nil {
				result = multierror.Append(result, &FormatError{msg: err.Error()})
			}
		}
	}

	for sample := 0; sample < int(ifd.GetSamplesPerPixel()); sample++ {
		if _, err := ifd.FieldTypeForSample(sample); err != nil {
			result = multierror.Append(result, err)
			break
		}
	}

	return result
}
