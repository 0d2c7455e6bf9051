package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"ad-video-pipeline/internal/domain/ports/adapter"
)

var _ adapter.ImageGenerator = (*PlaceholderGenerator)(nil)

// PlaceholderGenerator implements adapter.ImageGenerator without any
// remote backend: a solid background with the prompt text overlaid. Used
// when no image-generation model is configured.
type PlaceholderGenerator struct {
	width  int
	height int
}

func NewPlaceholderGenerator(width, height int) *PlaceholderGenerator {
	return &PlaceholderGenerator{width: width, height: height}
}

var placeholderBackground = color.RGBA{R: 0x4A, G: 0x90, B: 0xE2, A: 0xFF}

func (g *PlaceholderGenerator) Generate(_ context.Context, prompt string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	lines := []string{"Reference Image", clip(prompt, 50) + "..."}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	y := g.height/2 - len(lines)*20/2
	for _, line := range lines {
		d.Dot = fixed.P(50, y)
		d.DrawString(line)
		y += 20
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
