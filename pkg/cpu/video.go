package cpu

import (
	"image"
	"image/png"
	"os"
)

// Screen geometry: 256 rows of 32 words, one bit per pixel, LSB leftmost.
const (
	ScreenWidth  = 512
	ScreenHeight = 256
	screenWords  = ScreenWidth / 16 * ScreenHeight
)

var (
	pixelOn  = [4]byte{0x00, 0x00, 0x00, 0xFF}
	pixelOff = [4]byte{0xFF, 0xFF, 0xFF, 0xFF}
)

// GetFramebufferRGBA decodes the screen memory map into a 512×256 RGBA8888
// byte slice. Set bits are black.
func (c *CPU) GetFramebufferRGBA() []byte {
	pixels := make([]byte, ScreenWidth*ScreenHeight*4)
	for wordIdx := 0; wordIdx < screenWords; wordIdx++ {
		word := c.RAM[ScreenBase+wordIdx]
		for bit := 0; bit < 16; bit++ {
			px := pixelOff
			if word&(1<<bit) != 0 {
				px = pixelOn
			}
			copy(pixels[(wordIdx*16+bit)*4:], px[:])
		}
	}
	return pixels
}

// GetFramebufferImage returns the screen as an *image.RGBA.
func (c *CPU) GetFramebufferImage() *image.RGBA {
	return &image.RGBA{
		Pix:    c.GetFramebufferRGBA(),
		Stride: ScreenWidth * 4,
		Rect:   image.Rect(0, 0, ScreenWidth, ScreenHeight),
	}
}

// SaveScreenshot encodes the screen as a PNG and writes it to filename.
func (c *CPU) SaveScreenshot(filename string) error {
	img := c.GetFramebufferImage()
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
