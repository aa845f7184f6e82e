package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Text colors and overlay opacity.
const (
	TextColor  uint32 = 0xdddddd
	ErrorColor uint32 = 0xff6b6b
	shadeAlpha        = 160
	barPadding        = 3
	textInset         = 6
)

var face font.Face = basicfont.Face7x13

// LineHeight is the pixel height of one line of overlay text.
func LineHeight() int {
	return face.Metrics().Height.Ceil()
}

// TextWidth returns the advance width of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// Text draws s with its top-left corner at (x, y).
func (c *Canvas) Text(x, y int, s string, col uint32) {
	d := &font.Drawer{
		Dst:  c,
		Src:  image.NewUniform(color.RGBA{R: uint8(col >> 16), G: uint8(col >> 8), B: uint8(col), A: 0xff}),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// StatusBar draws s on a shaded strip along the bottom edge.
func (c *Canvas) StatusBar(s string, col uint32) {
	h := LineHeight() + 2*barPadding
	y := c.Height - h
	w := min(TextWidth(s)+2*textInset, c.Width)
	c.Shade(image.Rect(0, y, w, c.Height), shadeAlpha)
	c.Text(textInset, y+barPadding, s, col)
}

// Toast draws s in a shaded box centered on the canvas.
func (c *Canvas) Toast(s string) {
	const pad = 10
	w := TextWidth(s) + 2*pad
	h := LineHeight() + 2*pad
	x := (c.Width - w) / 2
	y := (c.Height - h) / 2
	c.Shade(image.Rect(x, y, x+w, y+h), shadeAlpha)
	c.Text(x+pad, y+pad, s, TextColor)
}
