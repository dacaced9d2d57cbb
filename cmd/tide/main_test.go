package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bethropolis/tidecore/internal/config"
)

func runScript(t *testing.T, script string, args ...string) string {
	t.Helper()
	flags := config.NewFlags("tide")
	rest, err := flags.Parse(args)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg := config.NewDefaultConfig()
	cfg.Editor.SystemClipboard = false
	flags.ApplyOverrides(cfg)

	var out bytes.Buffer
	if err := run(context.Background(), cfg, flags, rest, "", strings.NewReader(script), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestScriptHighlightsAfterWait(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		`insert 0 "package main\n"`,
		"wait",
		"spans 0 7",
		"quit",
		"print",
	}, "\n"), "-lang", "go")

	if !strings.Contains(out, "0 7 keyword\n") {
		t.Fatalf("output = %q, want a keyword span over 'package'", out)
	}
	if strings.Contains(out, "package main") {
		t.Fatalf("command after quit was executed: %q", out)
	}
}

func TestScriptReportsErrors(t *testing.T) {
	out := runScript(t, "bogus\nundo\nfind -regex (\nprint\n")
	if got := strings.Count(out, "error:"); got != 3 {
		t.Fatalf("output = %q, want 3 errors", out)
	}
}

func TestScriptPluginCommands(t *testing.T) {
	out := runScript(t, `type "one two\nthree"`+"\nwc\nautosave\n")
	if out != "lines=2 words=3 chars=13 bytes=13\n" {
		t.Fatalf("output = %q", out)
	}
}
