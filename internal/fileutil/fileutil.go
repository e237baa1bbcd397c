package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OutputExtension is appended to every converted file name.
const OutputExtension = ".mp3"

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}

// OutputPath returns the flat destination for source inside outputDir.
func OutputPath(source, outputDir string) string {
	return filepath.Join(outputDir, Stem(source)+OutputExtension)
}

// DuplicateStem reports the first pair of paths whose stems collide when
// compared case-insensitively. Such files would overwrite each other in a
// flat output directory.
func DuplicateStem(paths []string) (first, second string, found bool) {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		key := strings.ToLower(Stem(path))
		if prev, ok := seen[key]; ok {
			return prev, path, true
		}
		seen[key] = path
	}
	return "", "", false
}

// SameDirectory reports whether the parent of file is dir. Both paths are
// resolved through symlinks when they exist.
func SameDirectory(file, dir string) bool {
	parent := canonical(filepath.Dir(file))
	return parent == canonical(dir)
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// RemoveIfExists deletes path, treating a missing file as success.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
