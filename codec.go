package tiff

import (
	"fmt"

	"github.com/AlanRace/go-tiff/internal/byteio"
)

// writeSample encodes a single raster sample as the given field type. The
// value is converted with Go's usual numeric conversion, so out of range
// values wrap or truncate.
func writeSample(sink *byteio.Sink, dataType DataTypeID, value float64) error {
	switch dataType {
	case Byte:
		sink.WriteUint8(uint8(value))
	case SByte:
		sink.WriteInt8(int8(value))
	case Short:
		sink.WriteUint16(uint16(value))
	case SShort:
		sink.WriteInt16(int16(value))
	case Long:
		sink.WriteUint32(uint32(value))
	case SLong:
		sink.WriteInt32(int32(value))
	case Float:
		sink.WriteFloat32(float32(value))
	case Double:
		sink.WriteFloat64(value)
	default:
		return fmt.Errorf("%w: %s cannot hold raster samples", ErrInvalidFieldType, dataType)
	}

	return nil
}

// tagByteSize is the number of bytes the values of tag occupy.
func tagByteSize(tag Tag) int {
	return tag.DataType().Size() * int(tag.Count())
}

// writeTagValues writes all values of tag and checks that exactly the
// declared number of bytes went out.
func writeTagValues(sink *byteio.Sink, tag Tag) error {
	if !tag.DataType().IsValid() {
		return fmt.Errorf("%w: %s has field type %s", ErrInvalidFieldType, tag.TagID(), tag.DataType())
	}

	written, err := tag.writeValues(sink)
	if err != nil {
		return err
	}

	if expected := tagByteSize(tag); written != expected {
		return fmt.Errorf("%w: %s wrote %d bytes, expected %d", ErrLayoutMismatch, tag.TagID(), written, expected)
	}

	return nil
}
