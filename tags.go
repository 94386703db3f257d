package tiff

import (
	"fmt"
	"sort"
	"sync"
)

// TagID identifies a field in an Image File Directory.
type TagID uint16

const (
	NewSubFileType            TagID = 254
	SubFileType               TagID = 255
	ImageWidth                TagID = 256
	ImageLength               TagID = 257
	BitsPerSample             TagID = 258
	Compression               TagID = 259
	PhotometricInterpretation TagID = 262
	FillOrder                 TagID = 266
	DocumentName              TagID = 269
	ImageDescription          TagID = 270
	Make                      TagID = 271
	Model                     TagID = 272
	StripOffsets              TagID = 273
	Orientation               TagID = 274
	SamplesPerPixel           TagID = 277
	RowsPerStrip              TagID = 278
	StripByteCounts           TagID = 279
	MinSampleValue            TagID = 280
	MaxSampleValue            TagID = 281
	XResolution               TagID = 282
	YResolution               TagID = 283
	PlanarConfiguration       TagID = 284
	PageName                  TagID = 285
	XPosition                 TagID = 286
	YPosition                 TagID = 287
	ResolutionUnit            TagID = 296
	PageNumber                TagID = 297
	Software                  TagID = 305
	DateTime                  TagID = 306
	Artist                    TagID = 315
	HostComputer              TagID = 316
	Predictor                 TagID = 317
	ColorMap                  TagID = 320
	TileWidth                 TagID = 322
	TileLength                TagID = 323
	TileOffsets               TagID = 324
	TileByteCounts            TagID = 325
	ExtraSamples              TagID = 338
	SampleFormat              TagID = 339
	SMinSampleValue           TagID = 340
	SMaxSampleValue           TagID = 341
	YCbCrSubSampling          TagID = 530
	ReferenceBlackWhite       TagID = 532
	Copyright                 TagID = 33432

	// GeoTIFF
	ModelPixelScale     TagID = 33550
	ModelTiepoint       TagID = 33922
	ModelTransformation TagID = 34264
	GeoKeyDirectory     TagID = 34735
	GeoDoubleParams     TagID = 34736
	GeoASCIIParams      TagID = 34737
	GDALMetadata        TagID = 42112
	GDALNoData          TagID = 42113
)

var (
	tagNameMu  sync.RWMutex
	tagNameMap = map[TagID]string{
		NewSubFileType:            "NewSubFileType",
		SubFileType:               "SubFileType",
		ImageWidth:                "ImageWidth",
		ImageLength:               "ImageLength",
		BitsPerSample:             "BitsPerSample",
		Compression:               "Compression",
		PhotometricInterpretation: "PhotometricInterpretation",
		FillOrder:                 "FillOrder",
		DocumentName:              "DocumentName",
		ImageDescription:          "ImageDescription",
		Make:                      "Make",
		Model:                     "Model",
		StripOffsets:              "StripOffsets",
		Orientation:               "Orientation",
		SamplesPerPixel:           "SamplesPerPixel",
		RowsPerStrip:              "RowsPerStrip",
		StripByteCounts:           "StripByteCounts",
		MinSampleValue:            "MinSampleValue",
		MaxSampleValue:            "MaxSampleValue",
		XResolution:               "XResolution",
		YResolution:               "YResolution",
		PlanarConfiguration:       "PlanarConfiguration",
		PageName:                  "PageName",
		XPosition:                 "XPosition",
		YPosition:                 "YPosition",
		ResolutionUnit:            "ResolutionUnit",
		PageNumber:                "PageNumber",
		Software:                  "Software",
		DateTime:                  "DateTime",
		Artist:                    "Artist",
		HostComputer:              "HostComputer",
		Predictor:                 "Predictor",
		ColorMap:                  "ColorMap",
		TileWidth:                 "TileWidth",
		TileLength:                "TileLength",
		TileOffsets:               "TileOffsets",
		TileByteCounts:            "TileByteCounts",
		ExtraSamples:              "ExtraSamples",
		SampleFormat:              "SampleFormat",
		SMinSampleValue:           "SMinSampleValue",
		SMaxSampleValue:           "SMaxSampleValue",
		YCbCrSubSampling:          "YCbCrSubSampling",
		ReferenceBlackWhite:       "ReferenceBlackWhite",
		Copyright:                 "Copyright",

		ModelPixelScale:     "ModelPixelScale",
		ModelTiepoint:       "ModelTiepoint",
		ModelTransformation: "ModelTransformation",
		GeoKeyDirectory:     "GeoKeyDirectory",
		GeoDoubleParams:     "GeoDoubleParams",
		GeoASCIIParams:      "GeoASCIIParams",
		GDALMetadata:        "GDALMetadata",
		GDALNoData:          "GDALNoData",
	}
)

// singleValuedTags are tags that hold exactly one value. Everything else,
// including tags this package does not know about, may hold several.
var singleValuedTags = map[TagID]bool{
	NewSubFileType:            true,
	SubFileType:               true,
	ImageWidth:                true,
	ImageLength:               true,
	Compression:               true,
	PhotometricInterpretation: true,
	FillOrder:                 true,
	Orientation:               true,
	SamplesPerPixel:           true,
	RowsPerStrip:              true,
	XResolution:               true,
	YResolution:               true,
	PlanarConfiguration:       true,
	XPosition:                 true,
	YPosition:                 true,
	ResolutionUnit:            true,
	Predictor:                 true,
	TileWidth:                 true,
	TileLength:                true,
}

// AddTag registers a name for a tag id so that it prints nicely. Vendor
// specific packages use this for their private tags.
func AddTag(tagID TagID, name string) {
	tagNameMu.Lock()
	defer tagNameMu.Unlock()

	tagNameMap[tagID] = name
}

func (tagID TagID) String() string {
	tagNameMu.RLock()
	name, ok := tagNameMap[tagID]
	tagNameMu.RUnlock()

	if !ok {
		return fmt.Sprintf("Unknown(%d)", uint16(tagID))
	}

	return name
}

// IsArray reports whether the tag may hold more than one value.
func (tagID TagID) IsArray() bool {
	return !singleValuedTags[tagID]
}

// TagIDSlice attaches the methods of sort.Interface to []TagID, sorting in
// increasing order as required for the entries of a directory.
type TagIDSlice []TagID

func (p TagIDSlice) Len() int           { return len(p) }
func (p TagIDSlice) Less(i, j int) bool { return p[i] < p[j] }
func (p TagIDSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// Sort is a convenience method.
func (p TagIDSlice) Sort() { sort.Sort(p) }

// DataTypeID is the field type of a tag, as stored in the second half word of
// a directory entry.
type DataTypeID uint16

const (
	Byte      DataTypeID = 1
	ASCII     DataTypeID = 2
	Short     DataTypeID = 3
	Long      DataTypeID = 4
	Rational  DataTypeID = 5
	SByte     DataTypeID = 6
	Undefined DataTypeID = 7
	SShort    DataTypeID = 8
	SLong     DataTypeID = 9
	SRational DataTypeID = 10
	Float     DataTypeID = 11
	Double    DataTypeID = 12
)

var dataTypeNameMap = map[DataTypeID]string{
	Byte:      "Byte",
	ASCII:     "ASCII",
	Short:     "Short",
	Long:      "Long",
	Rational:  "Rational",
	SByte:     "SByte",
	Undefined: "Undefined",
	SShort:    "SShort",
	SLong:     "SLong",
	SRational: "SRational",
	Float:     "Float",
	Double:    "Double",
}

// Rationals are a numerator and a denominator, two 4-byte components each.
var dataTypeSizeMap = map[DataTypeID]int{
	Byte:      1,
	ASCII:     1,
	Short:     2,
	Long:      4,
	Rational:  8,
	SByte:     1,
	Undefined: 1,
	SShort:    2,
	SLong:     4,
	SRational: 8,
	Float:     4,
	Double:    8,
}

func (dataType DataTypeID) String() string {
	name, ok := dataTypeNameMap[dataType]
	if !ok {
		return fmt.Sprintf("Unknown(%d)", uint16(dataType))
	}

	return name
}

// Size returns the number of bytes one value of the type occupies, or 0 when
// the type is not known.
func (dataType DataTypeID) Size() int {
	return dataTypeSizeMap[dataType]
}

// IsValid reports whether the type has a defined encoding.
func (dataType DataTypeID) IsValid() bool {
	_, ok := dataTypeSizeMap[dataType]
	return ok
}

// CompressionID is the value of the Compression tag.
type CompressionID uint16

const (
	Uncompressed CompressionID = 1
	CCIT1D       CompressionID = 2
	CCITGroup3   CompressionID = 3
	CCITGroup4   CompressionID = 4
	LZW          CompressionID = 5
	JPEG         CompressionID = 6
	JPEGNew      CompressionID = 7
	Deflate      CompressionID = 8
	PackBits     CompressionID = 32773
)

var compressionNameMap = map[CompressionID]string{
	Uncompressed: "Uncompressed",
	CCIT1D:       "CCIT1D",
	CCITGroup3:   "CCITGroup3",
	CCITGroup4:   "CCITGroup4",
	LZW:          "LZW",
	JPEG:         "JPEG",
	JPEGNew:      "JPEGNew",
	Deflate:      "Deflate",
	PackBits:     "PackBits",
}

func (compressionID CompressionID) String() string {
	name, ok := compressionNameMap[compressionID]
	if !ok {
		return fmt.Sprintf("Unknown(%d)", uint16(compressionID))
	}

	return name
}

// PhotometricInterpretationID is the value of the PhotometricInterpretation tag.
type PhotometricInterpretationID uint16

const (
	WhiteIsZero      PhotometricInterpretationID = 0
	BlackIsZero      PhotometricInterpretationID = 1
	RGB              PhotometricInterpretationID = 2
	PaletteColour    PhotometricInterpretationID = 3
	TransparencyMask PhotometricInterpretationID = 4
	CMYK             PhotometricInterpretationID = 5
	YCbCr            PhotometricInterpretationID = 6
	CIELab           PhotometricInterpretationID = 8
)

var photometricInterpretationNameMap = map[PhotometricInterpretationID]string{
	WhiteIsZero:      "WhiteIsZero",
	BlackIsZero:      "BlackIsZero",
	RGB:              "RGB",
	PaletteColour:    "PaletteColour",
	TransparencyMask: "TransparencyMask",
	CMYK:             "CMYK",
	YCbCr:            "YCbCr",
	CIELab:           "CIELab",
}

func (id PhotometricInterpretationID) String() string {
	name, ok := photometricInterpretationNameMap[id]
	if !ok {
		return fmt.Sprintf("Unknown(%d)", uint16(id))
	}

	return name
}

// ResolutionUnitID is the value of the ResolutionUnit tag.
type ResolutionUnitID uint16

const (
	NoUnit     ResolutionUnitID = 1
	Inch       ResolutionUnitID = 2
	Centimeter ResolutionUnitID = 3
)

// PlanarConfigurationID is the value of the PlanarConfiguration tag.
type PlanarConfigurationID uint16

const (
	// Chunky stores the samples of a pixel next to each other.
	Chunky PlanarConfigurationID = 1
	// Planar stores each sample in its own set of strips.
	Planar PlanarConfigurationID = 2
)

// SampleFormatID is the value of the SampleFormat tag.
type SampleFormatID uint16

const (
	UnsignedInteger SampleFormatID = 1
	SignedInteger   SampleFormatID = 2
	IEEEFloat       SampleFormatID = 3
	UndefinedFormat SampleFormatID = 4
)

// ExtraSampleID is a value of the ExtraSamples tag.
type ExtraSampleID uint16

const (
	UnspecifiedAlpha  ExtraSampleID = 0
	AssociatedAlpha   ExtraSampleID = 1
	UnassociatedAlpha ExtraSampleID = 2
)
