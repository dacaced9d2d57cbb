package highlight

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/theme"
	"github.com/bethropolis/tidecore/internal/types"
)

// DefaultDebounce is the delay used by interactive hosts to coalesce bursts of edits.
const DefaultDebounce = 65 * time.Millisecond

// Manager owns the span overlay and runs tokenization passes in the
// background. Each request gets a new generation; a finished pass is
// applied only if its generation is still the latest one requested.
type Manager struct {
	mu        sync.Mutex
	tokenizer Tokenizer
	palette   *theme.Palette
	spans     []Span
	length    int
	latest    uint64
	applied   uint64
	cancel    context.CancelFunc
	timer     *time.Timer
	pending   []byte // Snapshot waiting for the debounce timer
	debounce  time.Duration
	post      func(func())
	events    *event.Manager
	closed    bool
	wg        sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithDebounce delays each pass until edits pause for d.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) { m.debounce = d }
}

// WithPost hands finished passes to post, which should run the function on
// the goroutine that owns the editor. Without it results are applied on
// the worker goroutine under the manager's lock.
func WithPost(post func(func())) Option {
	return func(m *Manager) { m.post = post }
}

// WithEventManager dispatches TypeHighlightCompleted after each applied pass.
func WithEventManager(em *event.Manager) Option {
	return func(m *Manager) { m.events = em }
}

// NewManager creates a highlight manager. A nil tokenizer disables passes.
func NewManager(tokenizer Tokenizer, palette *theme.Palette, opts ...Option) *Manager {
	if palette == nil {
		palette = theme.NewPalette(nil)
	}
	m := &Manager{tokenizer: tokenizer, palette: palette}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetTokenizer swaps the tokenizer used by future passes.
func (m *Manager) SetTokenizer(tokenizer Tokenizer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenizer = tokenizer
}

// SetPalette swaps the palette used by future passes.
func (m *Manager) SetPalette(palette *theme.Palette) {
	if palette == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.palette = palette
}

// Palette returns the palette used to resolve span styles.
func (m *Manager) Palette() *theme.Palette {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.palette
}

// SetDebounce changes the debounce delay for future requests.
func (m *Manager) SetDebounce(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debounce = d
}

// Reset drops all spans for a freshly loaded document and requests a pass.
func (m *Manager) Reset(text []byte) uint64 {
	m.mu.Lock()
	m.spans = nil
	m.length = len(text)
	m.mu.Unlock()
	return m.Request(text)
}

// OnEdit shifts the current spans across edit, then supersedes any running
// pass with a new one over text, the full post-edit document.
func (m *Manager) OnEdit(edit types.EditInfo, text []byte) uint64 {
	m.mu.Lock()
	m.spans = shiftSpans(m.spans, edit)
	m.length += edit.Delta()
	m.mu.Unlock()
	return m.Request(text)
}

// Request cancels any in-flight pass and schedules a new generation over
// a copy of text. It returns the new generation.
func (m *Manager) Request(text []byte) uint64 {
	snapshot := append([]byte(nil), text...)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return m.latest
	}
	m.latest++
	m.length = len(snapshot)
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if m.debounce <= 0 {
		m.startLocked(snapshot)
		return m.latest
	}

	m.pending = snapshot
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, m.fire)
	return m.latest
}

// fire runs when the debounce timer expires.
func (m *Manager) fire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.pending == nil {
		return
	}
	text := m.pending
	m.pending = nil
	m.timer = nil
	m.startLocked(text)
}

// startLocked launches the worker for the latest generation. m.mu must be held.
func (m *Manager) startLocked(text []byte) {
	if m.tokenizer == nil {
		m.spans = nil
		m.applied = m.latest
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	gen := m.latest
	tokenizer, palette := m.tokenizer, m.palette

	m.wg.Add(1)
	go m.run(ctx, gen, tokenizer, palette, text)
	logger.DebugTagf("highlight", "Highlight: Started generation %d over %d bytes", gen, len(text))
}

func (m *Manager) run(ctx context.Context, gen uint64, tokenizer Tokenizer, palette *theme.Palette, text []byte) {
	defer m.wg.Done()

	spans, err := safeTokenize(ctx, tokenizer, text, palette)
	if ctx.Err() != nil {
		logger.DebugTagf("highlight", "Highlight: Generation %d cancelled", gen)
		return
	}
	if err != nil {
		logger.Warnf("Highlight: Tokenizer failed for generation %d: %v", gen, err)
		spans = nil
	}

	deliver := func() { m.complete(gen, spans, len(text)) }
	if m.post != nil {
		m.post(deliver)
		return
	}
	deliver()
}

// complete installs the result of generation gen unless it is stale.
func (m *Manager) complete(gen uint64, spans []Span, length int) {
	m.mu.Lock()
	if gen != m.latest || m.closed {
		m.mu.Unlock()
		logger.DebugTagf("highlight", "Highlight: Discarding stale generation %d", gen)
		return
	}
	m.spans = normalize(spans, length, gen)
	m.applied = gen
	count := len(m.spans)
	em := m.events
	m.mu.Unlock()

	logger.DebugTagf("highlight", "Highlight: Applied generation %d with %d spans", gen, count)
	if em != nil {
		em.Dispatch(event.TypeHighlightCompleted, event.HighlightCompletedData{Generation: gen, SpanCount: count})
	}
}

// safeTokenize converts tokenizer panics into errors.
func safeTokenize(ctx context.Context, tokenizer Tokenizer, text []byte, palette *theme.Palette) (spans []Span, err error) {
	defer func() {
		if r := recover(); r != nil {
			spans = nil
			err = fmt.Errorf("tokenizer panic: %v", r)
		}
	}()
	return tokenizer.Tokenize(ctx, text, palette)
}

// VisibleSpans returns the spans intersecting [start, end), clipped to it.
func (m *Manager) VisibleSpans(start, end int) []Span {
	m.mu.Lock()
	defer m.mu.Unlock()

	start, end = clampRange(start, end, m.length)
	var out []Span
	for _, s := range m.spans {
		if s.Start < 0 || s.End > m.length || s.Start > s.End {
			continue
		}
		if s.End <= start || s.Start >= end {
			continue
		}
		if s.Start < start {
			s.Start = start
		}
		if s.End > end {
			s.End = end
		}
		out = append(out, s)
	}
	return out
}

// Spans returns a copy of the whole overlay.
func (m *Manager) Spans() []Span {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Span, len(m.spans))
	copy(out, m.spans)
	return out
}

// Generation is the latest requested generation.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

// AppliedGeneration is the generation whose spans are currently installed.
func (m *Manager) AppliedGeneration() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}

// Wait blocks until no worker is running. Passes still waiting on the
// debounce timer are not waited for.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// ErrClosed is returned by WaitFor once the manager is shut down.
var ErrClosed = errors.New("highlight manager closed")

// WaitFor polls until generation gen (or a later one) has been applied or ctx ends.
func (m *Manager) WaitFor(ctx context.Context, gen uint64) error {
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for {
		m.mu.Lock()
		applied, closed := m.applied, m.closed
		m.mu.Unlock()
		if applied >= gen {
			return nil
		}
		if closed {
			return ErrClosed
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Shutdown cancels pending and running passes. Later requests are ignored.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	if m.cancel != nil {
		logger.DebugTagf("highlight", "Highlight: Shutting down, cancelling running pass.")
		m.cancel()
		m.cancel = nil
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.pending = nil
	m.mu.Unlock()
	m.wg.Wait()
}

func clampRange(start, end, length int) (int, int) {
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if start > length {
		start = length
	}
	if end < start {
		end = start
	}
	return start, end
}
