package tiff

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/AlanRace/go-tiff/internal/byteio"
)

// directoryPlan is the layout of one directory worked out before any of its
// bytes are written:
//
//	start           entry count, entries, next directory offset
//	afterDirectory  values larger than 4 bytes, in entry order
//	afterValues     strips
type directoryPlan struct {
	dataAccess *StripDataAccess

	// entries are sorted by tag id. StripOffsets and StripByteCounts are
	// placeholders of the final type and count.
	entries []Tag

	start          uint32
	size           uint32
	sizeWithValues uint32
	afterDirectory uint32
	afterValues    uint32
}

// planLayout checks that ifd can be written at start and works out where
// everything in it goes. Nothing is encoded yet.
func planLayout(ifd *ImageFileDirectory, order binary.ByteOrder, start uint32) (*directoryPlan, error) {
	if ifd.IsTiled() {
		return nil, fmt.Errorf("%w: tiled images cannot be written", ErrUnsupportedLayout)
	}

	compression, err := NewCompressionMethod(ifd.GetCompression())
	if err != nil {
		return nil, err
	}

	if err := ifd.Validate(); err != nil {
		return nil, err
	}

	dataAccess, err := newStripDataAccess(ifd, order, compression)
	if err != nil {
		return nil, err
	}

	strips := dataAccess.GetStripsInImage()
	placeholders := map[TagID]Tag{
		StripOffsets:    NewLongTag(StripOffsets, make([]uint32, strips)...),
		StripByteCounts: NewLongTag(StripByteCounts, make([]uint32, strips)...),
	}

	plan := &directoryPlan{dataAccess: dataAccess, start: start}

	tagIDs := ifd.SortedTagIDs()
	for tagID := range placeholders {
		if !ifd.HasTag(tagID) {
			tagIDs = append(tagIDs, tagID)
		}
	}
	TagIDSlice(tagIDs).Sort()

	valuesSize := uint64(0)
	for _, tagID := range tagIDs {
		tag, ok := placeholders[tagID]
		if !ok {
			tag = ifd.Tags[tagID]
		}
		plan.entries = append(plan.entries, tag)

		if size := tagByteSize(tag); size > 4 {
			valuesSize += uint64(size)
		}
	}

	if len(plan.entries) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d entries in one directory", ErrUnsupportedLayout, len(plan.entries))
	}

	size := uint64(2 + 12*len(plan.entries) + 4)
	if uint64(start)+size+valuesSize > math.MaxUint32 {
		return nil, fmt.Errorf("%w: directory ends beyond 4 GiB", ErrUnsupportedLayout)
	}

	plan.size = uint32(size)
	plan.sizeWithValues = uint32(size + valuesSize)
	plan.afterDirectory = start + plan.size
	plan.afterValues = start + plan.sizeWithValues

	return plan, nil
}

// withStrips returns the entries with the strip placeholders replaced.
func (plan *directoryPlan) withStrips(block *rasterBlock) []Tag {
	entries := make([]Tag, len(plan.entries))
	for i, tag := range plan.entries {
		switch tag.TagID() {
		case StripOffsets:
			entries[i] = NewLongTag(StripOffsets, block.offsets...)
		case StripByteCounts:
			entries[i] = NewLongTag(StripByteCounts, block.byteCounts...)
		default:
			entries[i] = tag
		}
	}

	return entries
}

func checkPosition(sink *byteio.Sink, expected uint32, what string) error {
	if uint64(sink.Size()) != uint64(expected) {
		return fmt.Errorf("%w: %s at %d, planned for %d", ErrLayoutMismatch, what, sink.Size(), expected)
	}

	return nil
}

// emit encodes the strips and writes the directory, its values and the
// strips to sink. It returns the offset just past the strips, where the next
// directory starts.
func (plan *directoryPlan) emit(sink *byteio.Sink, last bool, workers int) (uint32, error) {
	block, err := plan.dataAccess.encodeRasters(plan.afterValues, workers)
	if err != nil {
		return 0, err
	}
	end := plan.afterValues + uint32(len(block.data))

	entries := plan.withStrips(block)

	if err := checkPosition(sink, plan.start, "directory"); err != nil {
		return 0, err
	}

	sink.WriteUint16(uint16(len(entries)))

	var outOfLine []Tag
	var outOfLineOffsets []uint32
	valueOffset := plan.afterDirectory

	for _, tag := range entries {
		sink.WriteUint16(uint16(tag.TagID()))
		sink.WriteUint16(uint16(tag.DataType()))
		sink.WriteUint32(tag.Count())

		size := tagByteSize(tag)
		if size > 4 {
			sink.WriteUint32(valueOffset)
			outOfLine = append(outOfLine, tag)
			outOfLineOffsets = append(outOfLineOffsets, valueOffset)
			valueOffset += uint32(size)
			continue
		}

		// Values that fit are stored in the entry, left aligned.
		if err := writeTagValues(sink, tag); err != nil {
			return 0, err
		}
		sink.WriteZeros(4 - size)
	}

	nextIFDOffset := end
	if last {
		nextIFDOffset = 0
	}
	sink.WriteUint32(nextIFDOffset)

	for i, tag := range outOfLine {
		if err := checkPosition(sink, outOfLineOffsets[i], tag.TagID().String()); err != nil {
			return 0, err
		}
		if err := writeTagValues(sink, tag); err != nil {
			return 0, err
		}
	}

	if err := checkPosition(sink, plan.afterValues, "strips"); err != nil {
		return 0, err
	}
	sink.WriteBytes(block.data)

	return end, nil
}
