package viewer

import (
	"image"

	"github.com/1broseidon/wlview/internal/input"
	"github.com/1broseidon/wlview/internal/render"
	"github.com/1broseidon/wlview/internal/thumbs"
)

// Grid geometry and colors.
const (
	Gap              = 10
	Padding          = 10
	SelectionBorder  = 3
	SelectionColor   = 0xcccccc
	PlaceholderColor = 0x333333
)

// Gallery is the thumbnail grid: selection, scroll position and the
// thumbnails received so far, keyed by path. Paths whose thumbnail failed
// keep their placeholder and are not asked for again.
type Gallery struct {
	Selected int

	size   int
	cols   int
	scroll int
	thumbs map[string]*image.RGBA
	failed map[string]struct{}
}

// NewGallery returns a grid of size x size cells.
func NewGallery(size int) *Gallery {
	return &Gallery{
		size:   size,
		cols:   1,
		thumbs: map[string]*image.RGBA{},
		failed: map[string]struct{}{},
	}
}

func (g *Gallery) cell() int { return g.size + Gap }

// Columns returns how many cells fit across winW.
func (g *Gallery) Columns(winW int) int {
	return max((winW-(2*Padding+Gap))/g.cell(), 1)
}

// Scroll returns the vertical scroll offset in pixels.
func (g *Gallery) Scroll() int { return g.scroll }

// Layout recomputes the column count and scrolls the selection into view.
func (g *Gallery) Layout(winW, winH int) {
	g.cols = g.Columns(winW)
	row := g.Selected / g.cols
	top := Padding + row*g.cell()
	bottom := top + g.cell()
	if top < g.scroll {
		g.scroll = max(top-Padding, 0)
	}
	if bottom > g.scroll+winH {
		g.scroll = bottom - winH + Padding
	}
}

// Visible returns the index range [first, last) of cells on screen.
func (g *Gallery) Visible(winH, total int) (int, int) {
	firstRow := g.scroll / g.cell()
	lastRow := (g.scroll + max(winH, 1) - 1) / g.cell()
	return min(firstRow*g.cols, total), min((lastRow+1)*g.cols, total)
}

// Want lists the thumbnails to generate: the visible cells plus one row
// above and below, minus those already received or failed.
func (g *Gallery) Want(paths []string, winH int) []thumbs.Item {
	first, last := g.Visible(winH, len(paths))
	first = max(first-g.cols, 0)
	last = min(last+g.cols, len(paths))
	var items []thumbs.Item
	for i := first; i < last; i++ {
		if g.settled(paths[i]) {
			continue
		}
		items = append(items, thumbs.Item{Index: i, Path: paths[i]})
	}
	return items
}

func (g *Gallery) settled(path string) bool {
	if _, ok := g.thumbs[path]; ok {
		return true
	}
	_, ok := g.failed[path]
	return ok
}

// Store keeps the successful results and remembers the failed ones. It
// reports whether any thumbnail was new.
func (g *Gallery) Store(results []thumbs.Result) bool {
	stored := false
	for _, r := range results {
		if r.Err != nil || r.Image == nil {
			g.failed[r.Path] = struct{}{}
			continue
		}
		g.thumbs[r.Path] = r.Image
		stored = true
	}
	return stored
}

// Has reports whether a thumbnail for path was received.
func (g *Gallery) Has(path string) bool {
	_, ok := g.thumbs[path]
	return ok
}

// Move shifts the selection one cell, staying within [0, total).
func (g *Gallery) Move(dir input.Direction, total int) {
	switch dir {
	case input.Left:
		if g.Selected > 0 {
			g.Selected--
		}
	case input.Right:
		if g.Selected+1 < total {
			g.Selected++
		}
	case input.Up:
		if g.Selected >= g.cols {
			g.Selected -= g.cols
		}
	case input.Down:
		if g.Selected+g.cols < total {
			g.Selected += g.cols
		}
	}
}

func (g *Gallery) First() {
	g.Selected = 0
	g.scroll = 0
}

func (g *Gallery) Last(total int) {
	if total > 0 {
		g.Selected = total - 1
	}
}

// Draw paints the visible cells. Layout must have run for this canvas size.
func (g *Gallery) Draw(c *render.Canvas, paths []string, bg uint32) {
	cell := g.cell()
	gridW := 2*Padding + g.cols*cell - Gap
	xOff := Padding + max(c.Width-gridW, 0)/2

	first, last := g.Visible(c.Height, len(paths))
	for i := first; i < last; i++ {
		x := xOff + (i%g.cols)*cell
		y := Padding + (i/g.cols)*cell - g.scroll
		box := image.Rect(x, y, x+g.size, y+g.size)

		if i == g.Selected {
			c.FillRect(box.Inset(-SelectionBorder), SelectionColor)
		}
		thumb, ok := g.thumbs[paths[i]]
		if !ok {
			c.FillRect(box, PlaceholderColor)
			continue
		}
		c.FillRect(box, bg)
		size := thumb.Bounds().Size()
		c.Blit(thumb, image.Pt(x+(g.size-size.X)/2, y+(g.size-size.Y)/2))
	}
}
