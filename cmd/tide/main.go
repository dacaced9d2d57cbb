// cmd/tide/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/commands"
	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/core"
	"github.com/bethropolis/tidecore/internal/core/highlight"
	"github.com/bethropolis/tidecore/internal/highlighter"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/plugin"
	"github.com/bethropolis/tidecore/internal/theme"
	"github.com/bethropolis/tidecore/plugins/autosave"
	"github.com/bethropolis/tidecore/plugins/wordcount"
)

const version = "0.3.0"

var errQuit = errors.New("quit")

func main() {
	flags := config.NewFlags("tide")
	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("tide %s\n", version)
		return
	}

	configPath := *flags.ConfigFilePath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, cfgErr := config.LoadConfig(configPath, flags)

	logOut, closeLog := openLog(cfg.Logger.LogFilePath)
	defer closeLog()
	logger.Init(cfg.Logger, logOut)
	defer logger.Sync()
	if cfgErr != nil {
		logger.Warnf("Config: %v (using defaults)", cfgErr)
	}
	logger.Infof("Starting tide %s", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, flags, args, configPath, os.Stdin, os.Stdout); err != nil {
		logger.Errorf("Exited with error: %v", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	logger.Infof("tide finished.")
}

// run drives one editor from the line protocol on in. The loop goroutine
// is the editor's owner: highlight results and config reloads are posted
// to it rather than applied from their own goroutines.
func run(ctx context.Context, cfg *config.Config, flags *config.Flags, args []string, configPath string, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	posts := make(chan func(), 16)
	post := func(f func()) {
		select {
		case posts <- f:
		case <-ctx.Done():
		}
	}

	opts := []core.Option{core.WithPost(post)}
	filePath := ""
	if len(args) > 0 {
		filePath = args[0]
	}
	if tok := pickTokenizer(*flags.Language, filePath); tok != nil {
		opts = append(opts, core.WithTokenizer(tok))
	}
	if cfg.Theme.Path != "" {
		t, err := theme.LoadThemeFromFile(cfg.Theme.Path)
		if err != nil {
			logger.Warnf("Theme: %v (using default)", err)
		} else {
			opts = append(opts, core.WithPalette(theme.NewPalette(t)))
		}
	}

	ed := core.NewEditor(buffer.NewSliceBuffer(), cfg.Editor, opts...)
	plugins := plugin.NewManager()
	defer func() {
		// Unblock workers waiting in post before waiting for them.
		cancel()
		plugins.ShutdownPlugins()
		ed.Close()
	}()
	if filePath != "" {
		if err := ed.LoadFile(filePath); err != nil {
			return err
		}
	}

	if *flags.Watch && configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, func(c *config.Config) {
				post(func() { ed.ApplyConfig(c.Editor, configPath) })
			})
			if err != nil {
				logger.Warnf("Config watch stopped: %v", err)
			}
		}()
	}

	registry := commands.NewRegistry()
	commands.RegisterEditorCommands(registry, ed, out)
	registry.Register("wait", "[timeout]", func(args []string) error {
		timeout := 5 * time.Second
		if len(args) > 0 {
			d, err := time.ParseDuration(args[0])
			if err != nil {
				return commands.ErrUsage
			}
			timeout = d
		}
		return drainUntilHighlighted(ctx, ed.GetHighlightManager(), posts, timeout)
	})
	registry.Register("quit", "", func([]string) error { return errQuit })
	registry.Register("help", "", func([]string) error {
		for _, name := range registry.Names() {
			fmt.Fprintf(out, "%s %s\n", name, registry.Usage(name))
		}
		return nil
	})

	for _, p := range []plugin.Plugin{wordcount.New(), autosave.New()} {
		if err := plugins.Register(p); err != nil {
			logger.Warnf("%v", err)
		}
	}
	plugins.InitializePlugins(plugin.NewHost(ed, registry, post, out, cfg.Plugins))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Warnf("Input: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-posts:
			f()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := registry.Execute(line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				logger.Debugf("Command %q failed: %v", line, err)
				fmt.Fprintln(out, "error:", err)
			}
		}
	}
}

// pickTokenizer prefers an explicit language name over file detection.
func pickTokenizer(lang, filePath string) highlight.Tokenizer {
	if lang != "" {
		if tok := highlighter.ForLanguage(lang); tok != nil {
			return tok
		}
		logger.Warnf("No highlighter for language %q", lang)
	}
	if filePath == "" {
		return nil
	}
	return highlighter.ForFile(filePath)
}

// drainUntilHighlighted runs posted functions until the latest highlight
// generation has been applied.
func drainUntilHighlighted(ctx context.Context, hl *highlight.Manager, posts <-chan func(), timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for hl.AppliedGeneration() < hl.Generation() {
		select {
		case f := <-posts:
			f()
		case <-deadline.C:
			return fmt.Errorf("highlight generation %d not applied within %s", hl.Generation(), timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// openLog resolves the configured log destination: "-" is stderr and an
// empty path is a file in the temp directory.
func openLog(path string) (io.Writer, func()) {
	if path == "-" {
		return os.Stderr, func() {}
	}
	if path == "" {
		path = filepath.Join(os.TempDir(), config.DefaultLogFileName)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		stlog.Printf("Failed to open log file '%s': %v", path, err)
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}
