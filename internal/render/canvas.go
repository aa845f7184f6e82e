// Package render draws into XRGB8888 pixel buffers: scaling, compositing,
// cover-crop for backgrounds and text overlays.
package render

import (
	"image"
	"image/color"
)

// Background is the color behind letterboxed images and transparent pixels.
const Background uint32 = 0x1a1a1a

// Canvas is a draw.Image over packed 0x00RRGGBB pixels with stride Width.
type Canvas struct {
	Pix    []uint32
	Width  int
	Height int
}

// NewCanvas wraps pix, which must hold at least w*h pixels.
func NewCanvas(pix []uint32, w, h int) *Canvas {
	return &Canvas{Pix: pix[:w*h], Width: w, Height: h}
}

func (c *Canvas) ColorModel() color.Model { return color.RGBAModel }

func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.Width, c.Height) }

func (c *Canvas) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return color.RGBA{}
	}
	p := c.Pix[y*c.Width+x]
	return color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 0xff}
}

func (c *Canvas) Set(x, y int, col color.Color) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	rgba := color.RGBAModel.Convert(col).(color.RGBA)
	c.Pix[y*c.Width+x] = over(c.Pix[y*c.Width+x], rgba.R, rgba.G, rgba.B, rgba.A)
}

// Pack converts an opaque color to 0x00RRGGBB.
func Pack(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// over composites a premultiplied source pixel onto dst.
func over(dst uint32, r, g, b, a uint8) uint32 {
	switch a {
	case 0xff:
		return Pack(r, g, b)
	case 0:
		return dst
	}
	inv := 255 - uint32(a)
	dr := (dst >> 16) & 0xff
	dg := (dst >> 8) & 0xff
	db := dst & 0xff
	return (uint32(r)+dr*inv/255)<<16 | (uint32(g)+dg*inv/255)<<8 | (uint32(b) + db*inv/255)
}

// Clear fills the whole canvas.
func (c *Canvas) Clear(col uint32) {
	for i := range c.Pix {
		c.Pix[i] = col
	}
}

// FillRect fills r, clipped to the canvas.
func (c *Canvas) FillRect(r image.Rectangle, col uint32) {
	r = r.Intersect(c.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.Pix[y*c.Width : (y+1)*c.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = col
		}
	}
}

// StrokeRect draws a border of the given width just inside r.
func (c *Canvas) StrokeRect(r image.Rectangle, width int, col uint32) {
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), col)
	c.FillRect(image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), col)
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), col)
	c.FillRect(image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), col)
}

// Shade darkens r by blending black at alpha/255.
func (c *Canvas) Shade(r image.Rectangle, alpha uint8) {
	r = r.Intersect(c.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.Pix[y*c.Width : (y+1)*c.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = over(row[x], 0, 0, 0, alpha)
		}
	}
}

// Blit composites img with its top-left corner at at. Pixels outside the
// canvas are clipped.
func (c *Canvas) Blit(img *image.RGBA, at image.Point) {
	b := img.Bounds()
	dst := image.Rectangle{Min: at, Max: at.Add(b.Size())}.Intersect(c.Bounds())
	if dst.Empty() {
		return
	}
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		sy := b.Min.Y + y - at.Y
		row := c.Pix[y*c.Width : (y+1)*c.Width]
		for x := dst.Min.X; x < dst.Max.X; x++ {
			i := img.PixOffset(b.Min.X+x-at.X, sy)
			s := img.Pix[i : i+4 : i+4]
			row[x] = over(row[x], s[0], s[1], s[2], s[3])
		}
	}
}

// Centered composites img centered on the canvas, shifted by pan.
func (c *Canvas) Centered(img *image.RGBA, pan image.Point) {
	size := img.Bounds().Size()
	at := image.Pt((c.Width-size.X)/2+pan.X, (c.Height-size.Y)/2+pan.Y)
	c.Blit(img, at)
}
