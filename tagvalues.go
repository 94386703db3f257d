package tiff

import (
	"fmt"
	"math"

	"github.com/AlanRace/go-tiff/internal/byteio"
	"golang.org/x/text/encoding/charmap"
)

// Tag is a single directory entry. There is one implementation per field
// type so that the values always match the declared type.
type Tag interface {
	TagID() TagID
	DataType() DataTypeID
	// Count is the number of values as declared in the entry, for ASCII the
	// number of characters including the terminating NUL.
	Count() uint32
	String() string
	GetValueAsString() string

	writeValues(sink *byteio.Sink) (int, error)
}

type baseTag struct {
	ID   TagID
	Type DataTypeID
}

func (tag *baseTag) TagID() TagID {
	return tag.ID
}

func (tag *baseTag) DataType() DataTypeID {
	return tag.Type
}

func tagString(tag Tag) string {
	return fmt.Sprintf("%s (%d): %s", tag.TagID(), uint16(tag.TagID()), tag.GetValueAsString())
}

// ByteTag holds BYTE or UNDEFINED values.
type ByteTag struct {
	baseTag

	Data []byte
}

// NewByteTag creates a BYTE tag.
func NewByteTag(id TagID, data ...byte) *ByteTag {
	return &ByteTag{baseTag: baseTag{ID: id, Type: Byte}, Data: data}
}

// NewUndefinedTag creates an UNDEFINED tag, an opaque run of bytes.
func NewUndefinedTag(id TagID, data []byte) *ByteTag {
	return &ByteTag{baseTag: baseTag{ID: id, Type: Undefined}, Data: data}
}

func (tag *ByteTag) Count() uint32            { return uint32(len(tag.Data)) }
func (tag *ByteTag) String() string           { return tagString(tag) }
func (tag *ByteTag) GetValueAsString() string { return fmt.Sprint(tag.Data) }

func (tag *ByteTag) writeValues(sink *byteio.Sink) (int, error) {
	sink.WriteBytes(tag.Data)
	return len(tag.Data), nil
}

type SByteTag struct {
	baseTag

	Data []int8
}

func NewSByteTag(id TagID, data ...int8) *SByteTag {
	return &SByteTag{baseTag: baseTag{ID: id, Type: SByte}, Data: data}
}

func (tag *SByteTag) Count() uint32            { return uint32(len(tag.Data)) }
func (tag *SByteTag) String() string           { return tagString(tag) }
func (tag *SByteTag) GetValueAsString() string { return fmt.Sprint(tag.Data) }

func (tag *SByteTag) writeValues(sink *byteio.Sink) (int, error) {
	for _, v := range tag.Data {
		sink.WriteInt8(v)
	}
	return len(tag.Data), nil
}

// ASCIITag holds a single string. Text is stored as ISO-8859-1, characters
// outside that set cannot be written.
type ASCIITag struct {
	baseTag

	Data string
}

func NewASCIITag(id TagID, data string) *ASCIITag {
	return &ASCIITag{baseTag: baseTag{ID: id, Type: ASCII}, Data: data}
}

func (tag *ASCIITag) encoded() ([]byte, error) {
	data, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(tag.Data))
	if err != nil {
		return nil, fmt.Errorf("%s: cannot encode %q as ASCII: %v", tag.ID, tag.Data, err)
	}
	return data, nil
}

func (tag *ASCIITag) Count() uint32 {
	data, err := tag.encoded()
	if err != nil {
		return uint32(len(tag.Data)) + 1
	}
	return uint32(len(data)) + 1
}

func (tag *ASCIITag) String() string           { return tagString(tag) }
func (tag *ASCIITag) GetValueAsString() string { return tag.Data }

func (tag *ASCIITag) writeValues(sink *byteio.Sink) (int, error) {
	data, err := tag.encoded()
	if err != nil {
		return 0, err
	}

	sink.WriteBytes(data)
	written := len(data)

	// NUL terminator
	if written < int(tag.Count()) {
		sink.WriteZeros(1)
		written++
	}

	return written, nil
}

type ShortTag struct {
	baseTag

	Data []uint16
}

func NewShortTag(id TagID, data ...uint16) *ShortTag {
	return &ShortTag{baseTag: baseTag{ID: id, Type: Short}, Data: data}
}

func (tag *ShortTag) Count() uint32            { return uint32(len(tag.Data)) }
func (tag *ShortTag) String() string           { return tagString(tag) }
func (tag *ShortTag) GetValueAsString() string { return fmt.Sprint(tag.Data) }

func (tag *ShortTag) writeValues(sink *byteio.Sink) (int, error) {
	for _, v := range tag.Data {
		sink.WriteUint16(v)
	}
	return 2 * len(tag.Data), nil
}

type SShortTag struct {
	baseTag

	Data []int16
}

func NewSShortTag(id TagID, data ...int16) *SShortTag {
	return &SShortTag{baseTag: baseTag{ID: id, Type: SShort}, Data: data}
}

func (tag *SShortTag) Count() uint32            { return uint32(len(tag.Data)) }
func (tag *SShortTag) String() string           { return tagString(tag) }
func (tag *SShortTag) GetValueAsString() string { return fmt.Sprint(tag.Data) }

func (tag *SShortTag) writeValues(sink *byteio.Sink) (int, error) {
	for _, v := range tag.Data {
		sink.WriteInt16(v)
	}
	return 2 * len(tag.Data), nil
}

type LongTag struct {
	baseTag

	Data []uint32
}

func NewLongTag(id TagID, data ...uint32) *LongTag {
	return &LongTag{baseTag: baseTag{ID: id, Type: Long}, Data: data}
}

func (tag *LongTag) Count() uint32            { return uint32(len(tag.Data)) }
func (tag *LongTag) String() string           { return tagString(tag) }
func (tag *LongTag) GetValueAsString() string { return fmt.Sprint(tag.Data) }

func (tag *LongTag) writeValues(sink *byteio.Sink) (int, error) {
	for _, v := range tag.Data {
		sink.WriteUint32(v)
	}
	return 4 * len(tag.Data), nil
}

type SLongTag struct {
	baseTag

	Data []int32
}

func NewSLongTag(id TagID, data ...int32) *SLongTag {
	return &SLongTag{baseTag: baseTag{ID: id, Type: SLong}, Data: data}
}

func (tag *SLongTag) Count() uint32            { return uint32(len(tag.Data)) }
func (tag *SLongTag) String() string           { return tagString(tag) }
func (tag *SLongTag) GetValueAsString() string { return fmt.Sprint(tag.Data) }

func (tag *SLongTag) writeValues(sink *byteio.Sink) (int, error) {
	for _, v := range tag.Data {
		sink.WriteInt32(v)
	}
	return 4 * len(tag.Data), nil
}

// RationalNumber is an unsigned fraction.
type RationalNumber struct {
	Numerator   uint32
	Denominator uint32
}

// NewRationalNumber approximates value with the closest fraction whose terms
// fit in 32 bits. Negative and NaN values give 0/1.
func NewRationalNumber(value float64) RationalNumber {
	if !(value > 0) {
		return RationalNumber{Numerator: 0, Denominator: 1}
	}

	numerator, denominator := continuedFraction(value)
	if denominator == 0 {
		return RationalNumber{Numerator: math.MaxUint32, Denominator: 1}
	}

	return RationalNumber{Numerator: numerator, Denominator: denominator}
}

func (rational RationalNumber) Value() float64 {
	return float64(rational.Numerator) / float64(rational.Denominator)
}

func (rational RationalNumber) String() string {
	return fmt.Sprintf("%d/%d", rational.Numerator, rational.Denominator)
}

// SRationalNumber is a signed fraction.
type SRationalNumber struct {
	Numerator   int32
	Denominator int32
}

func NewSRationalNumber(value float64) SRationalNumber {
	if math.IsNaN(value) {
		return SRationalNumber{Numerator: 0, Denominator: 1}
	}

	sign := int32(1)
	if value < 0 {
		sign = -1
		value = -value
	}

	numerator, denominator := continuedFraction(math.Min(value, math.MaxInt32))
	for numerator > math.MaxInt32 || denominator > math.MaxInt32 {
		numerator /= 2
		denominator /= 2
	}
	if denominator == 0 {
		return SRationalNumber{Numerator: sign * math.MaxInt32, Denominator: 1}
	}

	return SRationalNumber{Numerator: sign * int32(numerator), Denominator: int32(denominator)}
}

func (rational SRationalNumber) Value() float64 {
	return float64(rational.Numerator) / float64(rational.Denominator)
}

func (rational SRationalNumber) String() string {
	return fmt.Sprintf("%d/%d", rational.Numerator, rational.Denominator)
}

// continuedFraction returns the last convergent of value whose terms fit in
// 32 bits. The denominator is 0 when value itself does not fit.
func continuedFraction(value float64) (uint32, uint32) {
	var h0, h1 uint64 = 0, 1
	var k0, k1 uint64 = 1, 0

	x := value
	for i := 0; i < 64; i++ {
		a := math.Floor(x)
		if a > math.MaxUint32 {
			break
		}

		h2 := uint64(a)*h1 + h0
		k2 := uint64(a)*k1 + k0
		if h2 > math.MaxUint32 || k2 > math.MaxUint32 {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2

		frac := x - a
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}

	return uint32(h1), uint32(k1)
}

type RationalTag struct {
	baseTag

	Data []RationalNumber
}

func NewRationalTag(id TagID, data ...RationalNumber) *RationalTag {
	return &RationalTag{baseTag: baseTag{ID: id, Type: Rational}, Data: data}
}

func (tag *RationalTag) Count() uint32            { return uint32(len(tag.Data)) }
func (tag *RationalTag) String() string           { return tagString(tag) }
func (tag *RationalTag) GetValueAsString() string { return fmt.Sprint(tag.Data) }

func (tag *RationalTag) writeValues(sink *byteio.Sink) (int, error) {
	for _, v := range tag.Data {
		sink.WriteUint32(v.Numerator)
		sink.WriteUint32(v.Denominator)
	}
	return 8 * len(tag.Data), nil
}

type SRationalTag struct {
	baseTag

	Data []SRationalNumber
}

func NewSRationalTag(id TagID, data ...SRationalNumber) *SRationalTag {
	return &SRationalTag{baseTag: baseTag{ID: id, Type: SRational}, Data: data}
}

func (tag *SRationalTag) Count() uint32            { return uint32(len(tag.Data)) }
func (tag *SRationalTag) String() string           { return tagString(tag) }
func (tag *SRationalTag) GetValueAsString() string { return fmt.Sprint(tag.Data) }

func (tag *SRationalTag) writeValues(sink *byteio.Sink) (int, error) {
	for _, v := range tag.Data {
		sink.WriteInt32(v.Numerator)
		sink.WriteInt32(v.Denominator)
	}
	return 8 * len(tag.Data), nil
}

type FloatTag struct {
	baseTag

	Data []float32
}

func NewFloatTag(id TagID, data ...float32) *FloatTag {
	return &FloatTag{baseTag: baseTag{ID: id, Type: Float}, Data: data}
}

func (tag *FloatTag) Count() uint32            { return uint32(len(tag.Data)) }
func (tag *FloatTag) String() string           { return tagString(tag) }
func (tag *FloatTag) GetValueAsString() string { return fmt.Sprint(tag.Data) }

func (tag *FloatTag) writeValues(sink *byteio.Sink) (int, error) {
	for _, v := range tag.Data {
		sink.WriteFloat32(v)
	}
	return 4 * len(tag.Data), nil
}

type DoubleTag struct {
	baseTag

	Data []float64
}

func NewDoubleTag(id TagID, data ...float64) *DoubleTag {
	return &DoubleTag{baseTag: baseTag{ID: id, Type: Double}, Data: data}
}

func (tag *DoubleTag) Count() uint32            { return uint32(len(tag.Data)) }
func (tag *DoubleTag) String() string           { return tagString(tag) }
func (tag *DoubleTag) GetValueAsString() string { return fmt.Sprint(tag.Data) }

func (tag *DoubleTag) writeValues(sink *byteio.Sink) (int, error) {
	for _, v := range tag.Data {
		sink.WriteFloat64(v)
	}
	return 8 * len(tag.Data), nil
}
