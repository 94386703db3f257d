package byteio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestSinkLittleEndian(t *testing.T) {
	s := NewSink(binary.LittleEndian, 0)

	s.WriteUint8(0x01)
	s.WriteInt8(-1)
	s.WriteUint16(0x0203)
	s.WriteInt16(-2)
	s.WriteUint32(0x04050607)
	s.WriteInt32(-3)

	want := []byte{
		0x01,
		0xff,
		0x03, 0x02,
		0xfe, 0xff,
		0x07, 0x06, 0x05, 0x04,
		0xfd, 0xff, 0xff, 0xff,
	}
	if !bytes.Equal(s.Bytes(), want) {
		t.Errorf("got  %x\nwant %x", s.Bytes(), want)
	}
	if s.Size() != len(want) {
		t.Errorf("Size() = %d, want %d", s.Size(), len(want))
	}
}

func TestSinkBigEndian(t *testing.T) {
	s := NewSink(binary.BigEndian, 16)

	s.WriteUint16(0x0203)
	s.WriteUint32(0x04050607)

	want := []byte{0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
	if !bytes.Equal(s.Bytes(), want) {
		t.Errorf("got  %x\nwant %x", s.Bytes(), want)
	}
	if s.Order() != binary.BigEndian {
		t.Errorf("Order() = %v, want big endian", s.Order())
	}
}

func TestSinkDefaultOrder(t *testing.T) {
	s := NewSink(nil, 0)
	if s.Order() != binary.LittleEndian {
		t.Errorf("nil order should default to little endian, got %v", s.Order())
	}
}

func TestSinkFloats(t *testing.T) {
	s := NewSink(binary.BigEndian, 0)
	s.WriteFloat32(1.5)
	s.WriteFloat64(-2.25)

	data := s.Bytes()
	if len(data) != 12 {
		t.Fatalf("wrote %d bytes, want 12", len(data))
	}
	if got := math.Float32frombits(binary.BigEndian.Uint32(data[0:4])); got != 1.5 {
		t.Errorf("float32 = %v, want 1.5", got)
	}
	if got := math.Float64frombits(binary.BigEndian.Uint64(data[4:12])); got != -2.25 {
		t.Errorf("float64 = %v, want -2.25", got)
	}
}

func TestSinkStringAndZeros(t *testing.T) {
	s := NewSink(binary.LittleEndian, 0)

	n := s.WriteString("II")
	if n != 2 {
		t.Errorf("WriteString returned %d, want 2", n)
	}
	s.WriteZeros(3)
	s.WriteBytes([]byte{9, 8})

	want := []byte{'I', 'I', 0, 0, 0, 9, 8}
	if !bytes.Equal(s.Bytes(), want) {
		t.Errorf("got  %v\nwant %v", s.Bytes(), want)
	}
}

func TestSinkPositionIsMonotonic(t *testing.T) {
	s := NewSink(binary.LittleEndian, 0)
	last := s.Size()
	for i := 0; i < 100; i++ {
		s.WriteUint16(uint16(i))
		if s.Size() != last+2 {
			t.Fatalf("after write %d Size() = %d, want %d", i, s.Size(), last+2)
		}
		last = s.Size()
	}
}

func TestSinkReset(t *testing.T) {
	s := NewSink(binary.LittleEndian, 0)
	s.WriteUint32(7)
	s.Reset()
	if s.Size() != 0 {
		t.Fatalf("Size() after Reset = %d, want 0", s.Size())
	}
	s.WriteUint8(1)
	if !bytes.Equal(s.Bytes(), []byte{1}) {
		t.Errorf("got %v after Reset, want [1]", s.Bytes())
	}
}
