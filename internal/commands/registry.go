// Package commands implements the line-oriented command set a host shell
// uses to drive the editor.
package commands

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/bethropolis/tidecore/internal/logger"
)

// CommandFunc runs one command with its parsed arguments.
type CommandFunc func(args []string) error

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Registry maps command names to their functions.
type Registry struct {
	commands map[string]CommandFunc
	usage    map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]CommandFunc), usage: make(map[string]string)}
}

// Register adds a command. usage is shown by Usage and in usage errors.
func (r *Registry) Register(name, usage string, cmdFunc CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	r.commands[name] = cmdFunc
	r.usage[name] = usage
	logger.DebugTagf("commands", "Registry: Registered command '%s'", name)
	return nil
}

// Names lists the registered commands in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage returns the usage line of a command.
func (r *Registry) Usage(name string) string {
	return r.usage[name]
}

// Execute parses line and runs the named command. Blank lines and lines
// starting with '#' are ignored.
func (r *Registry) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	parts, err := SplitArgs(line)
	if err != nil {
		return err
	}
	name, args := parts[0], parts[1:]

	cmdFunc, exists := r.commands[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	logger.DebugTagf("commands", "Registry: Executing '%s' with args %q", name, args)
	if err := cmdFunc(args); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%w: %s %s", ErrUsage, name, r.usage[name])
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// SplitArgs splits line on whitespace. An argument starting with a double
// quote is a Go string literal and may contain spaces and escapes.
func SplitArgs(line string) ([]string, error) {
	var args []string
	for i := 0; i < len(line); {
		if unicode.IsSpace(rune(line[i])) {
			i++
			continue
		}
		if line[i] == '"' {
			end := closingQuote(line, i)
			if end < 0 {
				return nil, fmt.Errorf("unterminated string at column %d", i+1)
			}
			s, err := strconv.Unquote(line[i : end+1])
			if err != nil {
				return nil, fmt.Errorf("bad string at column %d: %w", i+1, err)
			}
			args = append(args, s)
			i = end + 1
			continue
		}
		j := i
		for j < len(line) && !unicode.IsSpace(rune(line[j])) {
			j++
		}
		args = append(args, line[i:j])
		i = j
	}
	return args, nil
}

func closingQuote(s string, open int) int {
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
