package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// filler is plain text so that no audio sniffer mistakes the file for a
// supported source.
var filler = []byte("albumconv fixture, not audio\n")

// WriteFile creates path, and any missing parents, holding exactly size bytes
// of filler text. A size <= 0 still writes one byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	n := max(int(size), 1)
	data := bytes.Repeat(filler, n/len(filler)+1)[:n]
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
