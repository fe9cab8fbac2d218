package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/aledsdavies/pyjs/pkgs/ast"
	"github.com/aledsdavies/pyjs/pkgs/parser"
	"github.com/aledsdavies/pyjs/pkgs/scope"
)

const defaultCacheSize = 256

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger; it is also handed to the parser
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTabWidth sets the indentation width of a tab
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		e.tabWidth = width
	}
}

// WithCacheSize bounds the number of cached programs. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxEntries = n
		}
	}
}

// WithDebug turns on parser path tracing through the logger
func WithDebug() Option {
	return func(e *Engine) {
		e.debug = true
	}
}

// Engine compiles sources and caches the resulting programs by the
// fingerprint of (source, rules). It is safe for concurrent use.
type Engine struct {
	logger     *slog.Logger
	tabWidth   int
	maxEntries int
	debug      bool

	mu    sync.RWMutex
	cache map[[32]byte]*Program
	order [][32]byte // insertion order, oldest first
	stats Stats
}

// New creates an engine
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:     slog.New(slog.DiscardHandler),
		maxEntries: defaultCacheSize,
		cache:      make(map[[32]byte]*Program),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile returns the program for source under rules, compiling it on a
// cache miss. Failed compilations are not cached.
func (e *Engine) Compile(source string, rules ...scope.Rule) (*Program, error) {
	fp, err := e.Fingerprint(source, rules...)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint source: %w", err)
	}

	e.mu.RLock()
	prog, ok := e.cache[fp]
	e.mu.RUnlock()
	if ok {
		e.mu.Lock()
		e.stats.Hits++
		e.mu.Unlock()
		e.logger.Debug("cache hit", "program", FormatFingerprint(fp))
		return prog, nil
	}

	opts := []parser.ParserOpt{
		parser.WithRules(rules...),
		parser.WithLogger(e.logger),
		parser.WithTabWidth(e.tabWidth),
	}
	if e.debug {
		opts = append(opts, parser.WithDebugPaths())
	}
	res, err := parser.Parse(source, opts...)
	if err != nil {
		e.mu.Lock()
		e.stats.Failures++
		e.mu.Unlock()
		return nil, err
	}

	prog = &Program{
		Source:      source,
		Rules:       append([]scope.Rule(nil), rules...),
		Fingerprint: fp,
		AST:         res.Program,
		Scope:       res.Root,
	}
	e.store(prog)
	e.logger.Debug("compiled", "program", prog.ID(), "statements", len(prog.AST.Statements))
	return prog, nil
}

// Fingerprint returns the cache key Compile would use for source
func (e *Engine) Fingerprint(source string, rules ...scope.Rule) ([32]byte, error) {
	return canonicalize(source, e.tabWidth, rules).Hash()
}

// Render compiles source and returns JavaScript
func (e *Engine) Render(source string, rules ...scope.Rule) (string, error) {
	prog, err := e.Compile(source, rules...)
	if err != nil {
		return "", err
	}
	return prog.Render(), nil
}

// Evaluate compiles source and interprets it
func (e *Engine) Evaluate(source string, rules ...scope.Rule) ([]ast.Value, error) {
	prog, err := e.Compile(source, rules...)
	if err != nil {
		return nil, err
	}
	return prog.Evaluate()
}

// Stats returns a snapshot of cache counters
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.stats
	s.Entries = len(e.cache)
	return s
}

// Reset drops every cached program
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[[32]byte]*Program)
	e.order = nil
}

func (e *Engine) store(prog *Program) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats.Misses++
	if e.maxEntries == 0 {
		return
	}
	if _, exists := e.cache[prog.Fingerprint]; exists {
		return
	}
	for len(e.order) >= e.maxEntries {
		oldest := e.order[0]
		e.order = e.order[1:]
		delete(e.cache, oldest)
		e.stats.Evictions++
	}
	e.cache[prog.Fingerprint] = prog
	e.order = append(e.order, prog.Fingerprint)
}
