// internal/plugin/manager.go
package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bethropolis/tidecore/internal/logger"
)

// Manager handles the registration, initialization, and lifecycle of plugins.
type Manager struct {
	mu          sync.RWMutex
	plugins     map[string]Plugin
	order       []string // Registration order; initialization follows it
	initialized []string
}

// NewManager creates a new plugin manager.
func NewManager() *Manager {
	return &Manager{
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin instance to the manager.
// This should be called before InitializePlugins.
func (m *Manager) Register(p Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := p.Name()
	if name == "" {
		return fmt.Errorf("plugin registration failed: plugin name cannot be empty")
	}
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin registration failed: plugin named '%s' already registered", name)
	}

	m.plugins[name] = p
	m.order = append(m.order, name)
	logger.Debugf("Plugin Manager: Registered plugin '%s'", name)
	return nil
}

// InitializePlugins calls Initialize on every registered plugin in
// registration order. A failing plugin is logged and skipped; the others
// still load. It returns the number of plugins initialized.
func (m *Manager) InitializePlugins(api API) int {
	m.mu.RLock()
	toInit := make([]Plugin, 0, len(m.order))
	for _, name := range m.order {
		toInit = append(toInit, m.plugins[name])
	}
	m.mu.RUnlock()

	logger.Debugf("Plugin Manager: Initializing %d plugins...", len(toInit))
	var ok []string
	for _, p := range toInit {
		if err := p.Initialize(api); err != nil {
			logger.Errorf("Plugin Manager: Error initializing plugin '%s': %v", p.Name(), err)
			continue
		}
		ok = append(ok, p.Name())
	}

	m.mu.Lock()
	m.initialized = ok
	m.mu.Unlock()
	logger.Infof("Plugin Manager: Initialized %d of %d plugins", len(ok), len(toInit))
	return len(ok)
}

// ShutdownPlugins calls Shutdown on initialized plugins in reverse order.
func (m *Manager) ShutdownPlugins() {
	m.mu.Lock()
	names := m.initialized
	m.initialized = nil
	m.mu.Unlock()

	for i := len(names) - 1; i >= 0; i-- {
		p, _ := m.GetPlugin(names[i])
		if err := p.Shutdown(); err != nil {
			logger.Errorf("Plugin Manager: Error shutting down plugin '%s': %v", p.Name(), err)
		}
	}
}

// GetPlugin returns a registered plugin by name.
func (m *Manager) GetPlugin(name string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.plugins[name]
	return p, exists
}

// Names lists the registered plugins alphabetically.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := append([]string(nil), m.order...)
	sort.Strings(names)
	return names
}
