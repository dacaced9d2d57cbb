package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	def := NewDefaultConfig()
	if cfg.Editor != def.Editor || cfg.Logger.LogLevel != def.Logger.LogLevel || cfg.Theme != def.Theme {
		t.Fatalf("config = %+v, want defaults", cfg)
	}
}

func TestLoadFileOverridesAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[editor]
tab_width = 2
use_spaces = true
auto_close_quotes = false
max_undo_depth = -3
highlight_debounce_ms = 0

[theme]
path = "/tmp/dark.toml"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	e := cfg.Editor
	if e.TabWidth != 2 || !e.UseSpaces || e.AutoCloseQuotes {
		t.Fatalf("editor = %+v", e)
	}
	if !e.AutoIndent || !e.AutoCloseBrackets {
		t.Fatalf("unset booleans lost their defaults: %+v", e)
	}
	if e.MaxUndoDepth != DefaultMaxUndoDepth {
		t.Fatalf("MaxUndoDepth = %d, want default %d", e.MaxUndoDepth, DefaultMaxUndoDepth)
	}
	if e.HighlightDebounceMs != 0 {
		t.Fatalf("HighlightDebounceMs = %d, want 0", e.HighlightDebounceMs)
	}
	if cfg.Theme.Path != "/tmp/dark.toml" {
		t.Fatalf("Theme.Path = %q", cfg.Theme.Path)
	}

	ae := e.AutoEdit()
	if ae.TabWidth != 2 || !ae.UseSpaces || ae.AutoCloseQuotes {
		t.Fatalf("AutoEdit() = %+v", ae)
	}
}

func TestLoadFileParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[editor\ntab_width = ")
	cfg, err := LoadFile(path)
	if err == nil {
		t.Fatalf("LoadFile with broken TOML succeeded")
	}
	if cfg.Editor.TabWidth != DefaultTabWidth {
		t.Fatalf("config after parse error = %+v, want defaults", cfg.Editor)
	}
}

func TestFlagOverrides(t *testing.T) {
	f := NewFlags("tide")
	rest, err := f.Parse([]string{"-tabwidth", "8", "-use-spaces", "-auto-indent=false", "-log-tags", "history, find,", "file.go"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rest) != 1 || rest[0] != "file.go" {
		t.Fatalf("remaining args = %v", rest)
	}

	cfg := NewDefaultConfig()
	f.ApplyOverrides(cfg)
	if cfg.Editor.TabWidth != 8 || !cfg.Editor.UseSpaces || cfg.Editor.AutoIndent {
		t.Fatalf("editor = %+v", cfg.Editor)
	}
	if cfg.Editor.ScrollOff != DefaultScrollOff {
		t.Fatalf("unset scrolloff changed to %d", cfg.Editor.ScrollOff)
	}
	if tags := cfg.Logger.EnabledTags; len(tags) != 2 || tags[0] != "history" || tags[1] != "find" {
		t.Fatalf("EnabledTags = %v", tags)
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[editor]\ntab_width = 2\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, func(c *Config) { got <- c }) }()

	// The watch is registered asynchronously, so keep rewriting until a reload lands.
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(25 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case c := <-got:
			// A reload can observe the file mid-write; wait for the full content.
			if c.Editor.TabWidth != 6 {
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch returned %v", err)
			}
			return
		case <-tick.C:
			writeFile(t, path, "[editor]\ntab_width = 6\n")
		case <-deadline:
			t.Fatalf("no reload observed")
		}
	}
}
