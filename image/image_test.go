package image

import (
	"image"
	"image/color"
	"testing"
)

func TestMul3NonNeg(t *testing.T) {
	tests := []struct {
		x, y, z int
		want    int
	}{
		{2, 3, 4, 24},
		{0, 3, 4, 0},
		{-1, 3, 4, -1},
		{1 << 40, 1 << 40, 1, -1},
	}

	for _, tt := range tests {
		if got := mul3NonNeg(tt.x, tt.y, tt.z); got != tt.want {
			t.Errorf("mul3NonNeg(%d, %d, %d) = %d, want %d", tt.x, tt.y, tt.z, got, tt.want)
		}
	}
}

func TestNewGridPanicsOnHugeRect(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewGrid(image.Rect(0, 0, 1<<40, 1<<40), 3)
}

func TestGridAccess(t *testing.T) {
	grid := NewGrid(image.Rect(10, 20, 13, 22), 2)

	if grid.Width() != 3 || grid.Height() != 2 || grid.SamplesPerPixel() != 2 {
		t.Fatalf("grid is %dx%dx%d, want 3x2x2", grid.Width(), grid.Height(), grid.SamplesPerPixel())
	}
	if len(grid.Samples) != 12 {
		t.Fatalf("len(Samples) = %d, want 12", len(grid.Samples))
	}

	grid.SetPixel(2, 1, 7, 8)
	grid.SetSample(0, 1, 1, -3.5)

	if got := grid.Sample(2, 1, 0); got != 7 {
		t.Errorf("Sample(2, 1, 0) = %v, want 7", got)
	}
	if got := grid.Pixel(2, 1); len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Errorf("Pixel(2, 1) = %v, want [7 8]", got)
	}
	if got := grid.Samples[grid.SampleOffset(0, 1)+1]; got != -3.5 {
		t.Errorf("sample stored as %v, want -3.5", got)
	}
}

func TestFromImageGray(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 8, 7))
	src.SetGray(6, 6, color.Gray{Y: 99})

	grid, layout := FromImage(src)
	if layout.BitsPerSample != 8 || layout.Alpha {
		t.Errorf("layout = %+v, want 8 bits without alpha", layout)
	}
	if grid.Width() != 3 || grid.Height() != 2 || grid.SamplesPerPixel() != 1 {
		t.Fatalf("grid is %dx%dx%d, want 3x2x1", grid.Width(), grid.Height(), grid.SamplesPerPixel())
	}
	if got := grid.Sample(1, 1, 0); got != 99 {
		t.Errorf("Sample(1, 1, 0) = %v, want 99", got)
	}
}

func TestFromImageGray16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 2, 1))
	src.SetGray16(1, 0, color.Gray16{Y: 0xbeef})

	grid, layout := FromImage(src)
	if layout.BitsPerSample != 16 {
		t.Errorf("BitsPerSample = %d, want 16", layout.BitsPerSample)
	}
	if got := grid.Sample(1, 0, 0); got != 0xbeef {
		t.Errorf("Sample(1, 0, 0) = %v, want %v", got, 0xbeef)
	}
}

func TestFromImageRGB(t *testing.T) {
	src := NewRGB(image.Rect(0, 0, 2, 2))
	src.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	grid, layout := FromImage(src)
	if layout.BitsPerSample != 8 || grid.SamplesPerPixel() != 3 {
		t.Fatalf("got %d samples of %d bits, want 3 of 8", grid.SamplesPerPixel(), layout.BitsPerSample)
	}
	if got := grid.Pixel(1, 1); got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Errorf("Pixel(1, 1) = %v, want [10 20 30]", got)
	}
}

func TestFromImageOpaqueRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetRGBA(1, 0, color.RGBA{R: 4, G: 5, B: 6, A: 255})

	grid, layout := FromImage(src)
	if layout.Alpha || grid.SamplesPerPixel() != 3 {
		t.Fatalf("opaque image converted to %d samples, alpha %v", grid.SamplesPerPixel(), layout.Alpha)
	}
	if got := grid.Pixel(1, 0); got[0] != 4 || got[1] != 5 || got[2] != 6 {
		t.Errorf("Pixel(1, 0) = %v, want [4 5 6]", got)
	}
}

func TestFromImageTransparentNRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	grid, layout := FromImage(src)
	if !layout.Alpha || grid.SamplesPerPixel() != 4 {
		t.Fatalf("got %d samples, alpha %v, want 4 with alpha", grid.SamplesPerPixel(), layout.Alpha)
	}
	want := []float64{200, 100, 50, 128}
	for i, v := range grid.Pixel(0, 0) {
		if v != want[i] {
			t.Errorf("sample %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestFromImageRGBA64(t *testing.T) {
	src := image.NewRGBA64(image.Rect(0, 0, 1, 1))
	src.SetRGBA64(0, 0, color.RGBA64{R: 0x1234, G: 0x5678, B: 0x9abc, A: 0xffff})

	grid, layout := FromImage(src)
	if layout.BitsPerSample != 16 || grid.SamplesPerPixel() != 3 {
		t.Fatalf("got %d samples of %d bits, want 3 of 16", grid.SamplesPerPixel(), layout.BitsPerSample)
	}
	if got := grid.Pixel(0, 0); got[0] != 0x1234 || got[1] != 0x5678 || got[2] != 0x9abc {
		t.Errorf("Pixel(0, 0) = %v", got)
	}
}

func TestFromImagePaletted(t *testing.T) {
	palette := color.Palette{color.Black, color.RGBA{R: 255, G: 0, B: 0, A: 255}}
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), palette)
	src.SetColorIndex(1, 0, 1)

	grid, layout := FromImage(src)
	if layout.BitsPerSample != 8 || grid.SamplesPerPixel() != 3 {
		t.Fatalf("got %d samples of %d bits, want 3 of 8", grid.SamplesPerPixel(), layout.BitsPerSample)
	}
	if got := grid.Pixel(1, 0); got[0] != 255 || got[1] != 0 || got[2] != 0 {
		t.Errorf("Pixel(1, 0) = %v, want [255 0 0]", got)
	}
}
