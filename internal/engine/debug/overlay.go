package debug

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	overlayPad    = 4
	overlayLineH  = 14
	overlayShadow = 1
)

var (
	overlayFG = image.NewUniform(color.RGBA{R: 235, G: 240, B: 255, A: 255})
	overlayBG = image.NewUniform(color.RGBA{A: 160})
)

// DrawOverlay prints lines of text in the top-left corner of img on a
// translucent backing box.
func DrawOverlay(img draw.Image, lines []string) {
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13

	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}
	box := image.Rect(0, 0, width+2*overlayPad, len(lines)*overlayLineH+2*overlayPad)
	draw.Draw(img, box.Intersect(img.Bounds()), overlayBG, image.Point{}, draw.Over)

	d := &font.Drawer{Dst: img, Face: face}
	for i, l := range lines {
		baseline := overlayPad + (i+1)*overlayLineH - 3
		d.Src = image.Black
		d.Dot = fixed.P(overlayPad+overlayShadow, baseline+overlayShadow)
		d.DrawString(l)
		d.Src = overlayFG
		d.Dot = fixed.P(overlayPad, baseline)
		d.DrawString(l)
	}
}
