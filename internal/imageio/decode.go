// Package imageio loads images from disk: still and animated decoding,
// thumbnails, and expansion of command-line paths into image lists.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/1broseidon/wlview/internal/render"
)

const (
	// MaxPixels bounds decoded image size.
	MaxPixels = 256 * 1024 * 1024
	// MaxFileSize bounds the bytes read for one image.
	MaxFileSize = 512 * 1024 * 1024

	minFrameDelay = 10 * time.Millisecond
)

var (
	ErrUnsupported = errors.New("unsupported image format")
	ErrTooLarge    = errors.New("image too large")
)

// Image is a decoded still or animated image. Stills have one frame and no
// delays.
type Image struct {
	Frames []*image.RGBA
	Delays []time.Duration
}

// Animated reports whether the image has more than one frame.
func (img *Image) Animated() bool {
	return len(img.Frames) > 1
}

// Size returns the dimensions of the first frame.
func (img *Image) Size() (int, int) {
	if len(img.Frames) == 0 {
		return 0, 0
	}
	b := img.Frames[0].Bounds()
	return b.Dx(), b.Dy()
}

// Rotate turns every frame by 90 degrees.
func (img *Image) Rotate(cw bool) {
	for i, f := range img.Frames {
		img.Frames[i] = render.Rotate90(f, cw)
	}
}

// Load decodes the image at path. GIFs keep every frame with its delay.
func Load(path string) (*Image, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() > MaxFileSize {
		return nil, fmt.Errorf("%s: %w: %d bytes", filepath.Base(path), ErrTooLarge, st.Size())
	}

	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return loadGIF(f, path)
	}
	img, err := decodeStill(f, path)
	if err != nil {
		return nil, err
	}
	return &Image{Frames: []*image.RGBA{img}}, nil
}

func decodeStill(r io.ReadSeeker, path string) (*image.RGBA, error) {
	br := bufio.NewReader(r)
	cfg, _, err := image.DecodeConfig(br)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return ToRGBA(img), nil
}

func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("zero dimension %dx%d", w, h)
	}
	if int64(w)*int64(h) > MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}
	return nil
}

// ToRGBA returns img as an *image.RGBA anchored at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}

// loadGIF composes every frame onto the logical screen, honoring disposal.
func loadGIF(r io.Reader, path string) (*Image, error) {
	g, err := gif.DecodeAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%s: no frames", filepath.Base(path))
	}
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	if err := checkDimensions(w, h); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	screen := image.NewRGBA(image.Rect(0, 0, w, h))
	out := &Image{}
	for i, frame := range g.Image {
		var restore *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			restore = image.NewRGBA(screen.Rect)
			copy(restore.Pix, screen.Pix)
		}

		draw.Draw(screen, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		snapshot := image.NewRGBA(screen.Rect)
		copy(snapshot.Pix, screen.Pix)
		out.Frames = append(out.Frames, snapshot)

		delay := minFrameDelay
		if i < len(g.Delay) {
			delay = max(time.Duration(g.Delay[i])*10*time.Millisecond, minFrameDelay)
		}
		out.Delays = append(out.Delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(screen, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			screen = restore
		}
	}
	if len(out.Frames) == 1 {
		out.Delays = nil
	}
	return out, nil
}

// Thumbnail decodes path and scales its first frame to fit size x size.
func Thumbnail(path string, size int) (*image.RGBA, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return render.Fit(img.Frames[0], size, size, true), nil
}
