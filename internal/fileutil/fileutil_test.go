package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		source string
		out    string
		want   string
	}{
		{source: "/x/Track 01.flac", out: "/out", want: "/out/Track 01.mp3"},
		{source: "/x/song.mp3", out: "/out", want: "/out/song.mp3"},
		{source: "/x/a.b.ogg", out: "/out/dir", want: "/out/dir/a.b.mp3"},
		{source: "/x/noext", out: "/out", want: "/out/noext.mp3"},
		{source: "/x/.hidden", out: "/out", want: "/out/.hidden.mp3"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.source, tt.out); got != tt.want {
			t.Fatalf("OutputPath(%q, %q) = %q, want %q", tt.source, tt.out, got, tt.want)
		}
	}
}

func TestDuplicateStem(t *testing.T) {
	first, second, found := DuplicateStem([]string{"/a/01.flac", "/a/02.flac", "/b/01.FLAC"})
	if !found {
		t.Fatal("expected duplicate stem")
	}
	if first != "/a/01.flac" || second != "/b/01.FLAC" {
		t.Fatalf("unexpected pair %q %q", first, second)
	}
	if _, _, found := DuplicateStem([]string{"/a/Track.ogg", "/a/Track 2.ogg"}); found {
		t.Fatal("did not expect duplicate")
	}
	if _, _, found := DuplicateStem([]string{"/a/Song.mp3", "/a/song.ogg"}); !found {
		t.Fatal("expected case-insensitive match across extensions")
	}
}

func TestSameDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "01.mp3")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !SameDirectory(src, dir) {
		t.Fatal("expected source to be inside dir")
	}
	if SameDirectory(src, filepath.Join(dir, "out")) {
		t.Fatal("did not expect match for sibling output dir")
	}

	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}
	if !SameDirectory(src, link) {
		t.Fatal("expected symlinked output dir to resolve to source dir")
	}
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.mp3")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists returned error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, stat err=%v", err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("second RemoveIfExists should succeed, got %v", err)
	}
}
