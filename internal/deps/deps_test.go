package deps

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckResolvesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	lame := filepath.Join(dir, "lame")
	if err := os.WriteFile(lame, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	status := Check(Requirement{Name: "lame", Command: " " + lame + " ", Description: " MP3 encoding "})
	if !status.Available || status.Path != lame {
		t.Fatalf("expected %s to resolve, got %#v", lame, status)
	}
	if status.Command != lame || status.Description != "MP3 encoding" {
		t.Fatalf("expected trimmed fields, got %#v", status.Requirement)
	}
	if status.Detail != "" {
		t.Fatalf("unexpected detail %q", status.Detail)
	}
}

func TestCheckBinariesReportsMissingAndBlank(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(file string) (string, error) {
		if file == "flac" {
			return "/usr/bin/flac", nil
		}
		return "", errors.New("not found")
	}

	results := CheckBinaries([]Requirement{
		{Name: "flac", Command: "flac"},
		{Name: "aacgain", Command: "aacgain"},
		{Name: "ogg123", Command: "   "},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Available || results[0].Path != "/usr/bin/flac" {
		t.Fatalf("flac: %#v", results[0])
	}
	if results[1].Available || !strings.Contains(results[1].Detail, "aacgain not found") {
		t.Fatalf("aacgain: %#v", results[1])
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("ogg123: %#v", results[2])
	}
}

func TestMissingRequiredSkipsOptional(t *testing.T) {
	statuses := []Status{
		{Requirement: Requirement{Name: "lame", Command: "lame"}, Available: true},
		{Requirement: Requirement{Name: "aacgain", Command: "/opt/aacgain"}},
		{Requirement: Requirement{Name: "extra", Command: "extra", Optional: true}},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0].Name != "aacgain" {
		t.Fatalf("unexpected missing set: %#v", missing)
	}
	if got := strings.Join(Commands(missing), ","); got != "/opt/aacgain" {
		t.Fatalf("commands = %q", got)
	}
}
