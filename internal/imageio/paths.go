package imageio

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var extensions = []string{"jpg", "jpeg", "png", "gif", "webp", "bmp", "tif", "tiff"}

// Extensions lists the supported file extensions without the dot.
func Extensions() []string {
	return slices.Clone(extensions)
}

// Supported reports whether path has a supported image extension.
func Supported(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return slices.Contains(extensions, ext)
}

// CollectPaths expands args into image files. Directories are scanned up to
// maxDepth levels deep without following symlinks; plain files are kept when
// their extension is supported. The result is sorted by file name.
func CollectPaths(args []string, maxDepth int, log *slog.Logger) []string {
	if log == nil {
		log = slog.Default()
	}
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			log.Warn("skipping path", "path", arg, "error", err)
			continue
		}
		if info.IsDir() {
			out = append(out, scanDir(arg, maxDepth, log)...)
			continue
		}
		if Supported(arg) {
			out = append(out, arg)
		}
	}
	SortPaths(out, SortName, nil)
	return out
}

func scanDir(root string, maxDepth int, log *slog.Logger) []string {
	var out []string
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug("scan error", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
			if depth > maxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if Supported(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		log.Warn("directory scan failed", "path", root, "error", err)
	}
	return out
}
