package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the directory holding river-layouts runtime files such
// as control sockets. Priority:
// 1) $XDG_RUNTIME_DIR/river-layouts (created)
// 2) /run/user/<uid>/river-layouts (created, if the parent exists)
// 3) /tmp/river-layouts-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return ensureDir(filepath.Join(runtimeDir, "river-layouts"))
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return ensureDir(filepath.Join(runUserDir, "river-layouts"))
	}

	return ensureDir(fmt.Sprintf("/tmp/river-layouts-%d", uid))
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath returns the control socket path for one generator
// namespace, e.g. <runtime>/carousel.sock.
func SocketPath(namespace string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, namespace+".sock"), nil
}
