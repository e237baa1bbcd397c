package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestNewTeeHandlerCollapses(t *testing.T) {
	if _, ok := newTeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for all nil handlers")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newTeeHandler(nil, inner); h != inner {
		t.Fatal("expected single handler to be returned unwrapped")
	}
}

func TestTeeHandlerRoutesByLevel(t *testing.T) {
	var infoBuf, debugBuf bytes.Buffer
	h := newTeeHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug to be enabled through the second handler")
	}

	logger := slog.New(h).With("component", "test")
	logger.Debug("debug line")
	logger.Info("info line")

	if bytes.Contains(infoBuf.Bytes(), []byte("debug line")) {
		t.Fatal("info handler should not receive debug records")
	}
	if !bytes.Contains(infoBuf.Bytes(), []byte("info line")) || !bytes.Contains(debugBuf.Bytes(), []byte("debug line")) {
		t.Fatalf("records not routed: info=%q debug=%q", infoBuf.String(), debugBuf.String())
	}
	if !bytes.Contains(debugBuf.Bytes(), []byte(`"component":"test"`)) {
		t.Fatalf("expected WithAttrs to propagate: %q", debugBuf.String())
	}
}
