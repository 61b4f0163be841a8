package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type Position int

const (
	TopLeft Position = iota
	TopRight
	BottomLeft
	BottomRight
	TopCenter
	BottomCenter
	Center
)

var positions = map[string]Position{
	"top-left":      TopLeft,
	"top-right":     TopRight,
	"bottom-left":   BottomLeft,
	"bottom-right":  BottomRight,
	"top-center":    TopCenter,
	"bottom-center": BottomCenter,
	"center":        Center,
}

// ParsePosition parses names like "bottom-center".
func ParsePosition(s string) (Position, error) {
	p, ok := positions[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("image: unknown position %q", s)
	}
	return p, nil
}

// Stamp draws text over a copy of img with a shadow and a color that
// contrasts with the pixels underneath. An empty fontPath uses the bundled
// Go bold font.
func Stamp(img image.Image, text string, position Position, fontPath string) (image.Image, error) {
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	// Font size is 6% of the shorter dimension
	shorter := min(img.Bounds().Dx(), img.Bounds().Dy())
	face, err := loadFont(fontPath, float64(shorter)*6/100.0)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	drawLabel(rgba, text, face, position)
	return rgba, nil
}

func loadFont(path string, size float64) (font.Face, error) {
	b := gobold.TTF
	if path != "" {
		candidate, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("image: couldn't read font %s: %w", path, err)
		}
		b = candidate
	}
	f, err := opentype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("image: couldn't parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("image: couldn't create font face: %w", err)
	}
	return face, nil
}

// labelOrigin returns the baseline origin of the label for the position,
// keeping a 5% margin.
func labelOrigin(bounds image.Rectangle, face font.Face, label string, position Position) (int, int) {
	w, h := bounds.Dx(), bounds.Dy()
	tb, _ := font.BoundString(face, label)
	tw := (tb.Max.X - tb.Min.X).Ceil()
	th := (tb.Max.Y - tb.Min.Y).Ceil()
	mx, my := w*5/100, h*5/100

	var x, y int
	switch position {
	case TopLeft, BottomLeft:
		x = mx
	case TopRight, BottomRight:
		x = w - tw - mx
	default:
		x = (w - tw) / 2
	}
	switch position {
	case TopLeft, TopRight, TopCenter:
		y = my + th + face.Metrics().Ascent.Ceil()
	case Center:
		y = (h + th) / 2
	default:
		y = h - my
	}
	return bounds.Min.X + x, bounds.Min.Y + y - th
}

func drawLabel(img draw.Image, label string, face font.Face, position Position) {
	x, y := labelOrigin(img.Bounds(), face, label, position)
	textColor := contrasting(averageUnderText(img, x, y, label, face))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: face,
		Dot:  fixed.P(x+2, y+2),
	}
	d.DrawString(label)

	d.Src = image.NewUniform(textColor)
	d.Dot = fixed.P(x, y)
	d.DrawString(label)
}

// averageUnderText returns the average color of the pixels covered by the
// label glyphs.
func averageUnderText(img image.Image, x, y int, label string, face font.Face) color.Color {
	mask := image.NewAlpha(img.Bounds())
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(color.Alpha{A: 255}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)

	var r, g, b, n uint64
	bounds := mask.Bounds()
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			if mask.AlphaAt(i, j).A == 0 {
				continue
			}
			pr, pg, pb, _ := img.At(i, j).RGBA()
			r += uint64(pr)
			g += uint64(pg)
			b += uint64(pb)
			n++
		}
	}
	if n == 0 {
		return color.RGBA{0, 0, 0, 255}
	}
	return color.RGBA{
		R: uint8(r / n >> 8),
		G: uint8(g / n >> 8),
		B: uint8(b / n >> 8),
		A: 255,
	}
}

// contrasting picks black or white using the ITU-R BT.709 relative luminance.
func contrasting(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	l := 0.2126*linearize(float64(r)/65535) +
		0.7152*linearize(float64(g)/65535) +
		0.0722*linearize(float64(b)/65535)
	if l > 0.179 {
		return color.RGBA{0, 0, 0, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

// linearize converts an sRGB channel to linear space.
func linearize(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
