// Package filex contains local filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if needed and returns its absolute
// path. Relative paths are resolved against the working directory.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// WriteFile stores data as dir/name, creating dir first. The file is
// written to a temporary name and renamed so readers never see a partial file.
func WriteFile(dir, name string, data []byte) (string, error) {
	abs, err := EnsureDir(dir)
	if err != nil {
		return "", err
	}

	target := filepath.Join(abs, name)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", tmp, err)
	}

	return target, nil
}
