package logger

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
)

const tagKey = "tag" // Field key used for filtering tags

// filterCore wraps a zapcore.Core and drops entries rejected by the
// package, file or tag filters of Config.
type filterCore struct {
	zapcore.Core
	cfg *Config
	tag string // Tag attached through With, lowercased
}

func newFilterCore(base zapcore.Core, cfg *Config) *filterCore {
	return &filterCore{Core: base, cfg: cfg}
}

// With keeps track of a tag field so Write can filter on it.
func (c *filterCore) With(fields []zapcore.Field) zapcore.Core {
	tag := c.tag
	if t, ok := tagFromFields(fields); ok {
		tag = t
	}
	return &filterCore{Core: c.Core.With(fields), cfg: c.cfg, tag: tag}
}

// Check only consults the level. Caller info is not resolved until after
// Check returns, so source filtering happens in Write.
func (c *filterCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *filterCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if c.cfg == nil {
		return c.Core.Write(ent, fields)
	}

	if ent.Caller.Defined {
		file := strings.ToLower(filepath.Base(ent.Caller.File))
		pkg := strings.ToLower(filepath.Base(filepath.Dir(ent.Caller.File)))
		if !allows(c.cfg.enabledPackagesSet, c.cfg.disabledPackagesSet, pkg) {
			return nil
		}
		if !allows(c.cfg.enabledFilesSet, c.cfg.disabledFilesSet, file) {
			return nil
		}
	}

	tag := c.tag
	if t, ok := tagFromFields(fields); ok {
		tag = t
	}
	if tag != "" {
		if !allows(c.cfg.enabledTagsSet, c.cfg.disabledTagsSet, tag) {
			return nil
		}
	} else if c.cfg.enabledTagsSet != nil {
		// Specific tags requested and this entry has none.
		return nil
	}

	return c.Core.Write(ent, fields)
}

func tagFromFields(fields []zapcore.Field) (string, bool) {
	for _, f := range fields {
		if f.Key == tagKey && f.Type == zapcore.StringType {
			return strings.ToLower(f.String), true
		}
	}
	return "", false
}
