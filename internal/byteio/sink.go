// Package byteio provides the growable, byte order aware buffer used to
// assemble TIFF files in memory.
//
// A Sink only appends. Positions handed out by Size are final: anything that
// needs to point at later data must compute the offset before writing it.
package byteio

import (
	"encoding/binary"
	"math"
)

// Sink is an append-only binary buffer bound to a single byte order.
type Sink struct {
	buf     []byte
	order   binary.ByteOrder
	scratch [8]byte
}

// NewSink creates a Sink writing in the given byte order with an initial
// capacity. A nil order defaults to little endian.
func NewSink(order binary.ByteOrder, capacity int) *Sink {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Sink{buf: make([]byte, 0, capacity), order: order}
}

// Order returns the byte order of the sink.
func (s *Sink) Order() binary.ByteOrder {
	return s.order
}

// Size returns the number of bytes written, which is also the position the
// next write will land on.
func (s *Sink) Size() int {
	return len(s.buf)
}

// Bytes returns the written data.
// The returned slice is valid until the next write operation.
func (s *Sink) Bytes() []byte {
	return s.buf
}

// Reset empties the sink, keeping its storage.
func (s *Sink) Reset() {
	s.buf = s.buf[:0]
}

// WriteUint8 writes an unsigned 8-bit integer.
func (s *Sink) WriteUint8(v uint8) {
	s.buf = append(s.buf, v)
}

// WriteInt8 writes a signed 8-bit integer.
func (s *Sink) WriteInt8(v int8) {
	s.buf = append(s.buf, byte(v))
}

// WriteUint16 writes an unsigned 16-bit integer.
func (s *Sink) WriteUint16(v uint16) {
	s.order.PutUint16(s.scratch[:2], v)
	s.buf = append(s.buf, s.scratch[:2]...)
}

// WriteInt16 writes a signed 16-bit integer.
func (s *Sink) WriteInt16(v int16) {
	s.WriteUint16(uint16(v))
}

// WriteUint32 writes an unsigned 32-bit integer.
func (s *Sink) WriteUint32(v uint32) {
	s.order.PutUint32(s.scratch[:4], v)
	s.buf = append(s.buf, s.scratch[:4]...)
}

// WriteInt32 writes a signed 32-bit integer.
func (s *Sink) WriteInt32(v int32) {
	s.WriteUint32(uint32(v))
}

// WriteFloat32 writes a 32-bit IEEE 754 floating-point number.
func (s *Sink) WriteFloat32(v float32) {
	s.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes a 64-bit IEEE 754 floating-point number.
func (s *Sink) WriteFloat64(v float64) {
	s.order.PutUint64(s.scratch[:8], math.Float64bits(v))
	s.buf = append(s.buf, s.scratch[:8]...)
}

// WriteBytes writes a byte slice unchanged.
func (s *Sink) WriteBytes(b []byte) {
	s.buf = append(s.buf, b...)
}

// WriteString writes the bytes of str without a terminator and returns the
// number of bytes written.
func (s *Sink) WriteString(str string) int {
	s.buf = append(s.buf, str...)
	return len(str)
}

// WriteZeros writes n zero bytes.
func (s *Sink) WriteZeros(n int) {
	for i := 0; i < n; i++ {
		s.buf = append(s.buf, 0)
	}
}
