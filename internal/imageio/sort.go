package imageio

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// SortMode orders the image list.
type SortMode int

const (
	SortName SortMode = iota
	SortSize
	SortModTime
)

// Next returns the following mode in the cycle Name, Size, ModTime.
func (m SortMode) Next() SortMode {
	return (m + 1) % 3
}

func (m SortMode) String() string {
	switch m {
	case SortSize:
		return "Size"
	case SortModTime:
		return "Mod Time"
	default:
		return "Name"
	}
}

// FileMeta is the stat data used for sorting and the status line.
type FileMeta struct {
	Size    int64
	ModTime time.Time
}

// MetaCache memoizes file metadata by path. Missing files report zero
// values.
type MetaCache map[string]FileMeta

// Get returns the metadata for path, statting it on first use.
func (c MetaCache) Get(path string) FileMeta {
	if m, ok := c[path]; ok {
		return m
	}
	var m FileMeta
	if st, err := os.Stat(path); err == nil {
		m = FileMeta{Size: st.Size(), ModTime: st.ModTime()}
	}
	c[path] = m
	return m
}

// SortPaths sorts paths in place. Ties fall back to the file name so the
// order is stable across runs. meta may be nil for SortName.
func SortPaths(paths []string, mode SortMode, meta MetaCache) {
	if meta == nil {
		meta = MetaCache{}
	}
	byName := func(a, b string) int {
		return cmp.Or(cmp.Compare(filepath.Base(a), filepath.Base(b)), cmp.Compare(a, b))
	}
	switch mode {
	case SortSize:
		slices.SortStableFunc(paths, func(a, b string) int {
			return cmp.Or(cmp.Compare(meta.Get(a).Size, meta.Get(b).Size), byName(a, b))
		})
	case SortModTime:
		slices.SortStableFunc(paths, func(a, b string) int {
			return cmp.Or(meta.Get(a).ModTime.Compare(meta.Get(b).ModTime), byName(a, b))
		})
	default:
		slices.SortStableFunc(paths, byName)
	}
}
