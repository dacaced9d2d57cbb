// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/tidecore/internal/core/autoedit"
	"github.com/bethropolis/tidecore/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger logger.Config `toml:"logger"` // Embed logger config under [logger] table
	Editor EditorConfig  `toml:"editor"` // Editor-specific settings
	Theme  ThemeConfig   `toml:"theme"`

	// Plugins holds per-plugin settings under [plugins.<name>] tables.
	Plugins map[string]map[string]interface{} `toml:"plugins"`
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	TabWidth            int  `toml:"tab_width"`
	UseSpaces           bool `toml:"use_spaces"`
	AutoIndent          bool `toml:"auto_indent"`
	AutoCloseBrackets   bool `toml:"auto_close_brackets"`
	AutoCloseQuotes     bool `toml:"auto_close_quotes"`
	ScrollOff           int  `toml:"scroll_off"`
	SystemClipboard     bool `toml:"system_clipboard"`
	MaxUndoDepth        int  `toml:"max_undo_depth"`
	MaxEditSize         int  `toml:"max_edit_size"`
	HighlightDebounceMs int  `toml:"highlight_debounce_ms"` // 0 runs passes immediately
}

// ThemeConfig selects the color theme.
type ThemeConfig struct {
	Path string `toml:"path"` // TOML theme file; empty uses the built-in theme
}

// AutoEdit returns the rule settings for the auto-edit transformer.
func (e EditorConfig) AutoEdit() autoedit.Config {
	return autoedit.Config{
		AutoIndent:        e.AutoIndent,
		AutoCloseBrackets: e.AutoCloseBrackets,
		AutoCloseQuotes:   e.AutoCloseQuotes,
		TabWidth:          e.TabWidth,
		UseSpaces:         e.UseSpaces,
	}
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: "", // Empty logs to DefaultLogFileName in the temp directory
		},
		Editor: EditorConfig{
			TabWidth:            DefaultTabWidth,
			AutoIndent:          true,
			AutoCloseBrackets:   true,
			AutoCloseQuotes:     true,
			ScrollOff:           DefaultScrollOff,
			SystemClipboard:     SystemClipboard,
			MaxUndoDepth:        DefaultMaxUndoDepth,
			MaxEditSize:         DefaultMaxEditSize,
			HighlightDebounceMs: DefaultHighlightDebounceMs,
		},
	}
}

// LoadFile reads a TOML file over the defaults and validates the result.
// A missing file yields the defaults.
func LoadFile(filePath string) (*Config, error) {
	cfg := NewDefaultConfig()
	if filePath == "" {
		return cfg, nil
	}
	_, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("Config file not found: %s", filePath)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return NewDefaultConfig(), fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	cfg.validate()
	logger.Debugf("Loaded configuration from: %s", filePath)
	return cfg, nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Editor.ScrollOff < 0 { // Allow 0
		c.Editor.ScrollOff = defaults.Editor.ScrollOff
	}
	if c.Editor.MaxUndoDepth <= 0 {
		c.Editor.MaxUndoDepth = defaults.Editor.MaxUndoDepth
	}
	if c.Editor.MaxEditSize <= 0 {
		c.Editor.MaxEditSize = defaults.Editor.MaxEditSize
	}
	if c.Editor.HighlightDebounceMs < 0 {
		c.Editor.HighlightDebounceMs = defaults.Editor.HighlightDebounceMs
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// DefaultPath is the config file location used when no -config flag is given.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName)
}

// LoadConfig orchestrates loading defaults, file, applying flags, and validation.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		if configFilePath == "" {
			configFilePath = DefaultPath()
		}
		cfg, err := LoadFile(configFilePath)
		loadErr = err

		if flags != nil {
			flags.ApplyOverrides(cfg)
		}
		cfg.validate()
		loadedConfig = cfg
	})

	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
