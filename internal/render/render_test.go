package render

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func newCanvas(w, h int) *Canvas {
	c := NewCanvas(make([]uint32, w*h), w, h)
	c.Clear(Background)
	return c
}

func checkPixel(t *testing.T, c *Canvas, i int, want uint32) {
	t.Helper()
	if got := c.Pix[i]; got != want {
		t.Fatalf("Pix[%d] = %#06x; want %#06x", i, got, want)
	}
}

func TestCoverGeometry_WideImageOnTallerTarget(t *testing.T) {
	g := CoverGeometry(3840, 2160, 1920, 1200)
	if math.Abs(g.Scale-0.5556) > 0.0001 {
		t.Fatalf("Scale = %v; want about 0.5556", g.Scale)
	}
	want := Cover{Scale: g.Scale, ScaledW: 2133, ScaledH: 1200, OffX: 106}
	if g != want {
		t.Fatalf("CoverGeometry() = %+v; want %+v", g, want)
	}
}

func TestCoverGeometry_Identity(t *testing.T) {
	g := CoverGeometry(1920, 1080, 1920, 1080)
	if want := (Cover{Scale: 1, ScaledW: 1920, ScaledH: 1080}); g != want {
		t.Fatalf("CoverGeometry() = %+v; want %+v", g, want)
	}
}

func TestCoverGeometry_NeverStretches(t *testing.T) {
	cases := []struct{ iw, ih, tw, th int }{
		{3840, 2160, 1920, 1200},
		{1000, 3000, 2560, 1440},
		{640, 480, 3840, 2160},
		{7, 3, 1366, 768},
	}
	for _, tc := range cases {
		g := CoverGeometry(tc.iw, tc.ih, tc.tw, tc.th)
		if g.ScaledW < tc.tw || g.ScaledH < tc.th {
			t.Fatalf("%+v -> %+v leaves the target uncovered", tc, g)
		}
		// One axis is covered exactly, the other overflows.
		if g.ScaledW != tc.tw && g.ScaledH != tc.th {
			t.Fatalf("%+v -> %+v overflows both axes", tc, g)
		}
	}
}

func TestCoverCrop_ExactTargetSize(t *testing.T) {
	out := CoverCrop(solid(300, 100, color.RGBA{R: 255, A: 255}), 64, 48)
	if want := image.Rect(0, 0, 64, 48); out.Bounds() != want {
		t.Fatalf("Bounds() = %v; want %v", out.Bounds(), want)
	}
}

func TestCoverCrop_TrimsSymmetrically(t *testing.T) {
	// Left half red, right half blue; a 2x2 crop of the 4x2 image keeps
	// the middle two columns.
	red, blue := color.RGBA{R: 255, A: 255}, color.RGBA{B: 255, A: 255}
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			c := red
			if x >= 2 {
				c = blue
			}
			src.SetRGBA(x, y, c)
		}
	}
	out := CoverCrop(src, 2, 2)
	if out.RGBAAt(0, 0) != red || out.RGBAAt(1, 0) != blue {
		t.Fatalf("crop = %v %v; want red then blue", out.RGBAAt(0, 0), out.RGBAAt(1, 0))
	}
}

func TestFitScale(t *testing.T) {
	if got := FitScale(4000, 3000, 800, 600, false); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("downscale = %v; want 0.2", got)
	}
	tests := []struct {
		w, h    int
		upscale bool
		want    float64
	}{
		{100, 50, false, 1},
		{100, 50, true, 8},
		{0, 50, true, 1},
	}
	for _, tt := range tests {
		if got := FitScale(tt.w, tt.h, 800, 600, tt.upscale); got != tt.want {
			t.Fatalf("FitScale(%d, %d, upscale=%v) = %v; want %v", tt.w, tt.h, tt.upscale, got, tt.want)
		}
	}
}

func TestFit_PreservesAspect(t *testing.T) {
	out := Fit(solid(400, 100, color.RGBA{G: 255, A: 255}), 200, 200, false)
	if want := image.Rect(0, 0, 200, 50); out.Bounds() != want {
		t.Fatalf("Bounds() = %v; want %v", out.Bounds(), want)
	}
}

func TestCentered_LetterboxesOnBackground(t *testing.T) {
	c := newCanvas(10, 10)
	c.Centered(solid(4, 10, color.RGBA{R: 255, A: 255}), image.Point{})

	checkPixel(t, c, 0, Background)
	checkPixel(t, c, 3, 0xff0000)
	checkPixel(t, c, 6, 0xff0000)
	checkPixel(t, c, 7, Background)
}

func TestBlit_CompositesAlphaOverBackground(t *testing.T) {
	c := newCanvas(2, 1)
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 128, A: 128})
	src.SetRGBA(1, 0, color.RGBA{})
	c.Blit(src, image.Point{})

	checkPixel(t, c, 0, 0x8c0c0c)
	checkPixel(t, c, 1, Background)
}

func TestBlit_ClipsOutsideCanvas(t *testing.T) {
	c := newCanvas(4, 4)
	c.Blit(solid(4, 4, color.RGBA{B: 255, A: 255}), image.Pt(2, -2))
	checkPixel(t, c, 2, 0x0000ff)
	checkPixel(t, c, 2*4+2, Background)
}

func TestStrokeRect(t *testing.T) {
	c := newCanvas(6, 6)
	c.StrokeRect(image.Rect(0, 0, 6, 6), 1, 0xcccccc)
	checkPixel(t, c, 0, 0xcccccc)
	checkPixel(t, c, 5*6+5, 0xcccccc)
	checkPixel(t, c, 2*6+2, Background)
}

func TestRotate90(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(0, 0, red)

	cw := Rotate90(src, true)
	if want := image.Rect(0, 0, 2, 3); cw.Bounds() != want {
		t.Fatalf("cw Bounds() = %v; want %v", cw.Bounds(), want)
	}
	if cw.RGBAAt(1, 0) != red {
		t.Fatalf("cw corner = %v; want red", cw.RGBAAt(1, 0))
	}
	if ccw := Rotate90(src, false); ccw.RGBAAt(0, 2) != red {
		t.Fatalf("ccw corner = %v; want red", ccw.RGBAAt(0, 2))
	}
}

func TestStatusBar_DrawsText(t *testing.T) {
	c := newCanvas(200, 40)
	c.StatusBar("hello.png | 10x10", TextColor)

	bar := LineHeight() + 2*barPadding
	changed := 0
	for y := 40 - bar; y < 40; y++ {
		for x := 0; x < 200; x++ {
			if c.Pix[y*200+x] == TextColor {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Fatal("status bar drew no text pixels")
	}
	checkPixel(t, c, 0, Background)
}
