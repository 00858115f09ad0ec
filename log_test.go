package wgui_test

import (
	"log/slog"
	"testing"

	"github.com/go-theft-auto/wgui"
)

func TestResolveLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := wgui.ResolveLogLevel(in); got != want {
			t.Errorf("ResolveLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetLoggerNilRestoresDefault(t *testing.T) {
	custom := slog.New(slog.DiscardHandler)
	wgui.SetLogger(custom)
	if wgui.Logger() != custom {
		t.Fatal("SetLogger did not install the logger")
	}
	wgui.SetLogger(nil)
	if wgui.Logger() == nil || wgui.Logger() == custom {
		t.Error("SetLogger(nil) did not restore a default logger")
	}
}
