package cpu

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferBitOrder(t *testing.T) {
	c := NewCPU()
	c.RAM[ScreenBase] = 0x8001              // pixels 0 and 15 of row 0
	c.RAM[ScreenBase+ScreenWidth/16] = 0x02 // pixel 1 of row 1

	img := c.GetFramebufferImage()
	black := color.RGBA{0, 0, 0, 0xFF}
	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, black},
		{1, 0, white},
		{15, 0, black},
		{16, 0, white},
		{0, 1, white},
		{1, 1, black},
		{511, 255, white},
	}
	for _, tc := range tests {
		if got := img.RGBAAt(tc.x, tc.y); got != tc.want {
			t.Errorf("pixel (%d,%d): got %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestFramebufferRGBASize(t *testing.T) {
	c := NewCPU()
	if got, want := len(c.GetFramebufferRGBA()), ScreenWidth*ScreenHeight*4; got != want {
		t.Errorf("len: got %d, want %d", got, want)
	}
}

func TestSaveScreenshot(t *testing.T) {
	c := NewCPU()
	c.RAM[ScreenBase+ScreenWidth/16*10] = 0xFFFF

	path := filepath.Join(t.TempDir(), "screen.png")
	if err := c.SaveScreenshot(path); err != nil {
		t.Fatalf("SaveScreenshot: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}

	if b := img.Bounds(); b.Dx() != ScreenWidth || b.Dy() != ScreenHeight {
		t.Errorf("bounds: got %v", b)
	}
	r, g, bl, _ := img.At(5, 10).RGBA()
	if r != 0 || g != 0 || bl != 0 {
		t.Errorf("pixel (5,10) should be black, got %d %d %d", r, g, bl)
	}
}
