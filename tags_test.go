package tiff

import "testing"

func TestTagIDString(t *testing.T) {
	tests := []struct {
		tagID TagID
		want  string
	}{
		{ImageWidth, "ImageWidth"},
		{StripByteCounts, "StripByteCounts"},
		{GeoKeyDirectory, "GeoKeyDirectory"},
		{TagID(65000), "Unknown(65000)"},
	}

	for _, tt := range tests {
		if got := tt.tagID.String(); got != tt.want {
			t.Errorf("TagID(%d).String() = %q, want %q", uint16(tt.tagID), got, tt.want)
		}
	}
}

func TestAddTag(t *testing.T) {
	const private TagID = 65001
	AddTag(private, "PrivateThing")

	if got := private.String(); got != "PrivateThing" {
		t.Errorf("String() = %q after AddTag", got)
	}
}

func TestIsArray(t *testing.T) {
	for _, tagID := range []TagID{ImageWidth, ImageLength, Compression, RowsPerStrip, PlanarConfiguration} {
		if tagID.IsArray() {
			t.Errorf("%s should hold a single value", tagID)
		}
	}
	for _, tagID := range []TagID{BitsPerSample, StripOffsets, StripByteCounts, Software, TagID(65002)} {
		if !tagID.IsArray() {
			t.Errorf("%s should allow several values", tagID)
		}
	}
}

func TestDataTypeSize(t *testing.T) {
	want := map[DataTypeID]int{
		Byte: 1, ASCII: 1, Short: 2, Long: 4, Rational: 8, SByte: 1,
		Undefined: 1, SShort: 2, SLong: 4, SRational: 8, Float: 4, Double: 8,
	}

	for dataType := DataTypeID(1); dataType <= 12; dataType++ {
		if got := dataType.Size(); got != want[dataType] {
			t.Errorf("%s.Size() = %d, want %d", dataType, got, want[dataType])
		}
		if !dataType.IsValid() {
			t.Errorf("%s should be valid", dataType)
		}
	}

	for _, dataType := range []DataTypeID{0, 13, 16} {
		if dataType.IsValid() || dataType.Size() != 0 {
			t.Errorf("%s should not be valid", dataType)
		}
	}
}

func TestTagIDSliceSort(t *testing.T) {
	ids := TagIDSlice{Software, ImageWidth, StripOffsets, BitsPerSample}
	ids.Sort()

	want := []TagID{ImageWidth, BitsPerSample, StripOffsets, Software}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", ids, want)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	if got := LZW.String(); got != "LZW" {
		t.Errorf("LZW.String() = %q", got)
	}
	if got := CompressionID(50000).String(); got != "Unknown(50000)" {
		t.Errorf("CompressionID(50000).String() = %q", got)
	}
	if got := RGB.String(); got != "RGB" {
		t.Errorf("RGB.String() = %q", got)
	}
	if got := Float.String(); got != "Float" {
		t.Errorf("Float.String() = %q", got)
	}
}
