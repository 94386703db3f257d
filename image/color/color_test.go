package color

import (
	"image/color"
	"testing"
)

func TestRGBModel(t *testing.T) {
	tests := []struct {
		in   color.Color
		want RGB
	}{
		{color.RGBA{R: 1, G: 2, B: 3, A: 255}, RGB{1, 2, 3}},
		{color.Gray{Y: 200}, RGB{200, 200, 200}},
		{color.RGBA64{R: 0xffff, G: 0x8000, B: 0, A: 0xffff}, RGB{0xff, 0x80, 0}},
		{RGB{4, 5, 6}, RGB{4, 5, 6}},
	}

	for _, tt := range tests {
		got := RGBModel.Convert(tt.in).(RGB)
		if got != tt.want {
			t.Errorf("RGBModel.Convert(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRGB16Model(t *testing.T) {
	tests := []struct {
		in   color.Color
		want RGB16
	}{
		{color.RGBA64{R: 0x1234, G: 0xabcd, B: 0x0001, A: 0xffff}, RGB16{0x1234, 0xabcd, 0x0001}},
		{color.Gray16{Y: 0x8001}, RGB16{0x8001, 0x8001, 0x8001}},
		{color.RGBA{R: 0xff, G: 0x01, B: 0, A: 0xff}, RGB16{0xffff, 0x0101, 0}},
	}

	for _, tt := range tests {
		got := RGB16Model.Convert(tt.in).(RGB16)
		if got != tt.want {
			t.Errorf("RGB16Model.Convert(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRGBAIsOpaque(t *testing.T) {
	for _, c := range []color.Color{RGB{1, 2, 3}, RGB16{1, 2, 3}} {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			t.Errorf("%T alpha = %#x, want 0xffff", c, a)
		}
	}

	r, g, b, _ := RGB{0x12, 0x34, 0x56}.RGBA()
	if r != 0x1212 || g != 0x3434 || b != 0x5656 {
		t.Errorf("RGB.RGBA() = %#x %#x %#x", r, g, b)
	}
}

func TestSamples(t *testing.T) {
	tests := []struct {
		c    Sampler
		want []float64
	}{
		{RGB{1, 2, 255}, []float64{1, 2, 255}},
		{RGB16{0x1234, 0, 0xffff}, []float64{0x1234, 0, 0xffff}},
	}

	for _, tt := range tests {
		got := tt.c.Samples()
		if len(got) != len(tt.want) {
			t.Fatalf("%v: %d samples, want %d", tt.c, len(got), len(tt.want))
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%v: sample %d = %v, want %v", tt.c, i, got[i], tt.want[i])
			}
		}
	}
}
