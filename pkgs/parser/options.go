package parser

import (
	"log/slog"
	"time"

	"github.com/aledsdavies/pyjs/pkgs/lexer"
	"github.com/aledsdavies/pyjs/pkgs/scope"
)

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Token and statement counts
	TelemetryTiming                      // Counts + total parse time
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff      DebugLevel = iota // No debug info (default)
	DebugPaths                      // Statement-level tracing
	DebugDetailed                   // Statement tracing plus every lexer token
)

const defaultMaxDepth = 200

// ParserConfig holds parser configuration
type ParserConfig struct {
	rules     *scope.RuleSet
	logger    *slog.Logger
	tabWidth  int
	maxDepth  int
	telemetry TelemetryMode
	debug     DebugLevel
}

// WithRules applies compilation policies
func WithRules(rules ...scope.Rule) ParserOpt {
	return func(c *ParserConfig) {
		c.rules = scope.NewRuleSet(rules...)
	}
}

// WithRuleSet applies a prebuilt, shareable rule set
func WithRuleSet(rs *scope.RuleSet) ParserOpt {
	return func(c *ParserConfig) {
		c.rules = rs
	}
}

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTabWidth sets the indentation width of a tab
func WithTabWidth(width int) ParserOpt {
	return func(c *ParserConfig) {
		c.tabWidth = width
	}
}

// WithMaxDepth bounds expression and block nesting
func WithMaxDepth(depth int) ParserOpt {
	return func(c *ParserConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithTelemetryBasic enables basic telemetry (counts only)
func WithTelemetryBasic() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + parse time)
func WithTelemetryTiming() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithDebugPaths enables statement-level debug tracing
func WithDebugPaths() ParserOpt {
	return func(c *ParserConfig) {
		c.debug = DebugPaths
	}
}

// WithDebugDetailed enables statement and token debug tracing
func WithDebugDetailed() ParserOpt {
	return func(c *ParserConfig) {
		c.debug = DebugDetailed
	}
}

// ParseTelemetry holds parser metrics (production-safe)
type ParseTelemetry struct {
	TokenCount     int
	StatementCount int
	ScopeCount     int
	MaxBlockDepth  int
	TotalTime      time.Duration
}

func (c *ParserConfig) lexerOpts() []lexer.LexerOpt {
	opts := []lexer.LexerOpt{lexer.WithLogger(c.logger)}
	if c.tabWidth > 0 {
		opts = append(opts, lexer.WithTabWidth(c.tabWidth))
	}
	if c.telemetry >= TelemetryBasic {
		opts = append(opts, lexer.WithTelemetryBasic())
	}
	if c.debug >= DebugDetailed {
		opts = append(opts, lexer.WithDebug(lexer.DebugDetailed))
	}
	return opts
}
