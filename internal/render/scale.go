package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Resize scales src to exactly w x h with bilinear filtering.
func Resize(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	if sb := src.Bounds(); sb.Dx() == dst.Rect.Dx() && sb.Dy() == dst.Rect.Dy() {
		draw.Draw(dst, dst.Rect, src, sb.Min, draw.Src)
		return dst
	}
	draw.BiLinear.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return dst
}

// ScaleBy resizes src by factor, keeping at least one pixel per axis.
func ScaleBy(src image.Image, factor float64) *image.RGBA {
	b := src.Bounds()
	return Resize(src, scaled(b.Dx(), factor), scaled(b.Dy(), factor))
}

func scaled(n int, factor float64) int {
	return max(int(math.Round(float64(n)*factor)), 1)
}

// FitScale returns the factor that fits iw x ih inside tw x th with the
// aspect ratio preserved. Without upscale, small images keep their size.
func FitScale(iw, ih, tw, th int, upscale bool) float64 {
	if iw <= 0 || ih <= 0 || tw <= 0 || th <= 0 {
		return 1
	}
	s := math.Min(float64(tw)/float64(iw), float64(th)/float64(ih))
	if !upscale && s > 1 {
		return 1
	}
	return s
}

// Fit scales src to fit inside maxW x maxH.
func Fit(src image.Image, maxW, maxH int, upscale bool) *image.RGBA {
	b := src.Bounds()
	return ScaleBy(src, FitScale(b.Dx(), b.Dy(), maxW, maxH, upscale))
}

// Cover is the geometry of a cover-and-center-crop.
type Cover struct {
	Scale   float64
	ScaledW int
	ScaledH int
	// OffX and OffY are the pixels trimmed from the left and top edges of
	// the scaled image.
	OffX int
	OffY int
}

// CoverGeometry scales iw x ih by the larger axis ratio so that it covers
// tw x th, and centers the crop window. The crop is always exactly tw x th.
func CoverGeometry(iw, ih, tw, th int) Cover {
	s := math.Max(float64(tw)/float64(iw), float64(th)/float64(ih))
	sw := max(int(math.Round(float64(iw)*s)), tw)
	sh := max(int(math.Round(float64(ih)*s)), th)
	return Cover{
		Scale:   s,
		ScaledW: sw,
		ScaledH: sh,
		OffX:    (sw - tw) / 2,
		OffY:    (sh - th) / 2,
	}
}

// CoverCrop fills exactly tw x th with src, scaled uniformly and cropped
// symmetrically on the overflowing axis.
func CoverCrop(src image.Image, tw, th int) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, tw, th))
	if b.Empty() || tw <= 0 || th <= 0 {
		return out
	}
	g := CoverGeometry(b.Dx(), b.Dy(), tw, th)
	scaledImg := Resize(src, g.ScaledW, g.ScaledH)
	draw.Draw(out, out.Rect, scaledImg, image.Pt(g.OffX, g.OffY), draw.Src)
	return out
}

// Rotate90 returns img turned clockwise (cw) or counter-clockwise.
func Rotate90(img *image.RGBA, cw bool) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			var dx, dy int
			if cw {
				dx, dy = h-1-y, x
			} else {
				dx, dy = y, w-1-x
			}
			di := out.PixOffset(dx, dy)
			copy(out.Pix[di:di+4], img.Pix[si:si+4])
		}
	}
	return out
}
