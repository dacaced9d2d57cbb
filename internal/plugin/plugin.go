// internal/plugin/plugin.go
package plugin

import (
	"io"

	"github.com/bethropolis/tidecore/internal/commands"
	"github.com/bethropolis/tidecore/internal/core"
	"github.com/bethropolis/tidecore/internal/event"
)

// API is what plugins may use to interact with the editor core.
type API interface {
	// Editor returns the editor. Its methods must only be called from
	// command handlers, event handlers or functions passed to Post.
	Editor() *core.Editor

	// RegisterCommand exposes a command on the host's command line.
	RegisterCommand(name, usage string, fn commands.CommandFunc) error

	// SubscribeEvent registers handler on the editor's event bus.
	SubscribeEvent(eventType event.Type, handler event.Handler)

	// Post runs f on the goroutine that owns the editor.
	Post(f func())

	// Output is where command results are printed.
	Output() io.Writer

	// ConfigValue looks up a key from the [plugins.<plugin>] table.
	ConfigValue(plugin, key string) (interface{}, bool)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded. Plugins
	// register commands and subscribe to events here.
	Initialize(api API) error

	// Shutdown is called once when the editor is closing.
	Shutdown() error
}

// Host is the API implementation handed to plugins by the editor process.
type Host struct {
	editor   *core.Editor
	registry *commands.Registry
	post     func(func())
	out      io.Writer
	settings map[string]map[string]interface{}
}

var _ API = (*Host)(nil)

// NewHost creates an API over an editor and its command registry. post
// must run functions on the editor's owner goroutine; nil runs them inline.
func NewHost(ed *core.Editor, registry *commands.Registry, post func(func()), out io.Writer, settings map[string]map[string]interface{}) *Host {
	if post == nil {
		post = func(f func()) { f() }
	}
	if out == nil {
		out = io.Discard
	}
	return &Host{editor: ed, registry: registry, post: post, out: out, settings: settings}
}

func (h *Host) Editor() *core.Editor { return h.editor }

func (h *Host) RegisterCommand(name, usage string, fn commands.CommandFunc) error {
	return h.registry.Register(name, usage, fn)
}

func (h *Host) SubscribeEvent(eventType event.Type, handler event.Handler) {
	h.editor.GetEventManager().Subscribe(eventType, handler)
}

func (h *Host) Post(f func()) { h.post(f) }

func (h *Host) Output() io.Writer { return h.out }

func (h *Host) ConfigValue(plugin, key string) (interface{}, bool) {
	table, ok := h.settings[plugin]
	if !ok {
		return nil, false
	}
	v, ok := table[key]
	return v, ok
}
