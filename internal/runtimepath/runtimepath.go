package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDisplay is used when WAYLAND_DISPLAY is unset.
const DefaultDisplay = "wayland-0"

// Dir returns the runtime directory that holds compositor sockets. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	runUserDir := fmt.Sprintf("/run/user/%d", os.Getuid())
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}
	return "", fmt.Errorf("XDG_RUNTIME_DIR is not set and %s does not exist", runUserDir)
}

// SocketPath returns the compositor socket path. An absolute WAYLAND_DISPLAY
// is used as-is; otherwise it is resolved inside Dir.
func SocketPath() (string, error) {
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = DefaultDisplay
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, display), nil
}
