package image

import (
	"image"
	"image/draw"
)

// Overlay draws overlay centered over base and returns the composed image.
func Overlay(base, overlay image.Image) image.Image {
	out := image.NewRGBA(base.Bounds())
	draw.Draw(out, base.Bounds(), base, base.Bounds().Min, draw.Src)

	ob := overlay.Bounds()
	offset := image.Pt(
		base.Bounds().Min.X+(base.Bounds().Dx()-ob.Dx())/2,
		base.Bounds().Min.Y+(base.Bounds().Dy()-ob.Dy())/2,
	)
	draw.Draw(out, image.Rectangle{Min: offset, Max: offset.Add(ob.Size())}, overlay, ob.Min, draw.Over)
	return out
}
