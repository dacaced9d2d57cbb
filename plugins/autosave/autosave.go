package autosave

import (
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/plugin"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

const (
	defaultEnabled  = false
	defaultInterval = 1 * time.Minute
)

// AutoSave periodically writes the buffer back to its file when modified.
type AutoSave struct {
	api plugin.API

	mutex    sync.RWMutex // Protects the config fields below
	enabled  bool
	interval time.Duration
	saves    int

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new instance of the AutoSave plugin.
func New() plugin.Plugin {
	return &AutoSave{
		enabled:  defaultEnabled,
		interval: defaultInterval,
	}
}

func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads [plugins.autosave] and starts the saver loop if enabled.
// It also registers the autosave command, which saves immediately.
func (p *AutoSave) Initialize(api plugin.API) error {
	p.api = api
	name := p.Name()

	p.mutex.Lock()
	if v, ok := api.ConfigValue(name, "enabled"); ok {
		if b, isBool := v.(bool); isBool {
			p.enabled = b
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", name, v, p.enabled)
		}
	}
	if v, ok := api.ConfigValue(name, "interval"); ok {
		if s, isStr := v.(string); isStr {
			d, err := time.ParseDuration(s)
			switch {
			case err != nil:
				logger.Warnf("%s: Invalid format for 'interval' config ('%s'): %v. Using default (%v)", name, s, err, p.interval)
			case d <= 0:
				logger.Warnf("%s: 'interval' config must be positive ('%s'). Using default (%v)", name, s, p.interval)
			default:
				p.interval = d
			}
		} else {
			logger.Warnf("%s: Invalid type for 'interval' config (%T), using default (%v)", name, v, p.interval)
		}
	}
	enabled, interval := p.enabled, p.interval
	p.mutex.Unlock()

	if err := api.RegisterCommand(name, "", func([]string) error { return p.saveIfModified() }); err != nil {
		return fmt.Errorf("failed to register '%s' command: %w", name, err)
	}

	logger.Infof("%s initialized. Enabled: %v, Interval: %v", name, enabled, interval)
	if enabled {
		p.stopChan = make(chan struct{})
		p.wg.Add(1)
		go p.saverLoop(interval)
	}
	return nil
}

// Shutdown stops the saver loop and waits for it.
func (p *AutoSave) Shutdown() error {
	if p.stopChan != nil {
		close(p.stopChan)
		p.wg.Wait()
		p.stopChan = nil
		logger.Debugf("%s: Saver goroutine stopped.", p.Name())
	}
	return nil
}

// Saves is the number of successful saves so far.
func (p *AutoSave) Saves() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.saves
}

// saverLoop ticks on its own goroutine but performs each save on the
// editor's owner goroutine through Post.
func (p *AutoSave) saverLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.api.Post(func() {
				if err := p.saveIfModified(); err != nil {
					logger.Errorf("%s: %v", p.Name(), err)
				}
			})
		case <-p.stopChan:
			return
		}
	}
}

// saveIfModified writes the buffer to its current path. Unmodified
// buffers and buffers without a path are skipped.
func (p *AutoSave) saveIfModified() error {
	buf := p.api.Editor().GetBuffer()
	if !buf.IsModified() {
		logger.DebugTagf("autosave", "%s: Buffer not modified, skipping.", p.Name())
		return nil
	}
	path := buf.FilePath()
	if path == "" {
		logger.DebugTagf("autosave", "%s: Buffer is modified but has no name, skipping.", p.Name())
		return nil
	}

	if err := p.api.Editor().SaveBuffer(""); err != nil {
		return fmt.Errorf("auto-save failed for '%s': %w", path, err)
	}
	p.mutex.Lock()
	p.saves++
	p.mutex.Unlock()
	logger.Infof("%s: Saved %s", p.Name(), path)
	return nil
}
