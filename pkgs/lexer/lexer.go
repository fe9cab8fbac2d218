package lexer

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
)

// ASCII character lookup tables for fast classification
var (
	isWhitespace [256]bool // inline whitespace only, newlines are structural
	isDigit      [256]bool
	isIdentStart [256]bool
	isIdentPart  [256]bool
	isBracket    [256]bool
	delimiters   [256]Subtype
)

func init() {
	for i := 0; i < utf8.RuneSelf; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
		isBracket[i] = ch == '(' || ch == ')' || ch == '[' || ch == ']' || ch == '{' || ch == '}'
	}

	delimiters[','] = Comma
	delimiters[':'] = Colon
	delimiters['.'] = Dot
	delimiters[';'] = Semicolon
}

// DefaultTabWidth is the indentation width of a tab unless configured
const DefaultTabWidth = 4

// LexerOpt represents a lexer configuration option
type LexerOpt func(*LexerConfig)

// TelemetryMode controls telemetry collection
type TelemetryMode int

const (
	TelemetryOff   TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                      // Token counts only
)

// DebugLevel controls debug tracing through the configured logger
type DebugLevel int

const (
	DebugOff      DebugLevel = iota // No debug info (default)
	DebugTokens                     // One event per emitted token
	DebugDetailed                   // Token events plus indentation decisions
)

// LexerConfig holds lexer configuration
type LexerConfig struct {
	tabWidth  int
	logger    *slog.Logger
	telemetry TelemetryMode
	debug     DebugLevel
}

// WithTabWidth sets the column a tab advances indentation to a multiple of
func WithTabWidth(width int) LexerOpt {
	return func(c *LexerConfig) {
		if width > 0 {
			c.tabWidth = width
		}
	}
}

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *slog.Logger) LexerOpt {
	return func(c *LexerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTelemetryBasic enables basic telemetry (token counts only)
func WithTelemetryBasic() LexerOpt {
	return func(c *LexerConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithDebug enables debug tracing at the given level
func WithDebug(level DebugLevel) LexerOpt {
	return func(c *LexerConfig) {
		c.debug = level
	}
}

// Stats holds token counts collected under TelemetryBasic
type Stats struct {
	Tokens   int
	Lines    int
	MaxDepth int
	Counts   map[Kind]int
}

// Lexer turns source text into tokens on demand. It synthesizes NEWLINE,
// INDENT and DEDENT from line boundaries and leading whitespace.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int

	indent      *IndentState
	atLineStart bool
	lineContent bool // a non-structural token was emitted on the current logical line
	done        bool

	// Produced but not yet consumed tokens, front first
	queue []Token

	config LexerConfig
	stats  *Stats
}

// New creates a new lexer instance with optional configuration
func New(input string, opts ...LexerOpt) *Lexer {
	config := LexerConfig{
		tabWidth: DefaultTabWidth,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	l := &Lexer{
		input:       input,
		line:        1,
		column:      1,
		indent:      NewIndentState(),
		atLineStart: true,
		config:      config,
	}
	if config.telemetry == TelemetryBasic {
		l.stats = &Stats{Counts: make(map[Kind]int)}
	}
	return l
}

// Next consumes and returns the next token
func (l *Lexer) Next() (Token, error) {
	if err := l.ensure(); err != nil {
		return Token{}, err
	}
	tok := l.queue[0]
	l.queue = l.queue[1:]
	return tok, nil
}

// Peek returns the next token without consuming it
func (l *Lexer) Peek() (Token, error) {
	if err := l.ensure(); err != nil {
		return Token{}, err
	}
	return l.queue[0], nil
}

// Tokenize lexes the whole input, including the trailing EOF
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

// Stats returns collected telemetry, or nil when telemetry is off
func (l *Lexer) Stats() *Stats {
	if l.stats == nil {
		return nil
	}
	out := *l.stats
	out.Counts = make(map[Kind]int, len(l.stats.Counts))
	for k, v := range l.stats.Counts {
		out.Counts[k] = v
	}
	return &out
}

func (l *Lexer) ensure() error {
	for len(l.queue) == 0 {
		if l.done {
			l.queue = append(l.queue, Token{Kind: EOF, Line: l.line, Column: l.column})
			return nil
		}
		if err := l.fill(); err != nil {
			return err
		}
	}
	return nil
}

// fill scans until at least one token is queued or input ends
func (l *Lexer) fill() error {
	for len(l.queue) == 0 && !l.done {
		if l.atLineStart && !l.indent.Joined() {
			if err := l.lexIndentation(); err != nil {
				return err
			}
			continue
		}

		l.skipWhitespace()
		if l.pos >= len(l.input) {
			l.finish()
			return nil
		}

		ch := l.input[l.pos]
		switch {
		case ch == '\n' || ch == '\r':
			line, col := l.line, l.column
			l.consumeNewline()
			if l.indent.Joined() {
				continue
			}
			l.emit(NEWLINE, "\n", "", line, col)
			l.atLineStart = true
		case ch == '#':
			l.skipComment()
		case isDigit[ch] || (ch == '.' && l.peekIsDigit(1)):
			l.lexNumber()
		case isIdentStart[ch]:
			l.lexIdentifier()
		case ch == '\'' || ch == '"':
			if err := l.lexString(); err != nil {
				return err
			}
		case isBracket[ch]:
			if err := l.lexBracket(); err != nil {
				return err
			}
		case delimiters[ch] != "":
			l.emit(DELIMITER, string(ch), delimiters[ch], l.line, l.column)
			l.advance()
		default:
			if err := l.lexOperator(); err != nil {
				return err
			}
		}
	}
	return nil
}

// lexIndentation measures the leading whitespace of a logical line.
// Blank and comment-only lines are consumed without producing tokens.
func (l *Lexer) lexIndentation() error {
	width := 0
scan:
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ':
			width++
		case '\t':
			width += l.config.tabWidth - width%l.config.tabWidth
		case '\f', '\v':
		default:
			break scan
		}
		l.advance()
	}

	if l.pos >= len(l.input) {
		l.atLineStart = false
		return nil
	}
	switch l.input[l.pos] {
	case '#':
		l.skipComment()
		fallthrough
	case '\n', '\r':
		if l.pos < len(l.input) {
			l.consumeNewline()
		}
		return nil
	}

	l.atLineStart = false
	kinds, err := l.indent.Measure(width)
	if l.config.debug >= DebugDetailed {
		l.config.logger.Debug("indentation", "line", l.line, "width", width, "emit", len(kinds), "state", l.indent.String())
	}
	for _, k := range kinds {
		l.emit(k, "", "", l.line, l.column)
	}
	if err != nil {
		return cerrors.NewIndentationError("unindent does not match any outer indentation level",
			"", l.line, l.column).WithContext("width", width)
	}
	if l.stats != nil && l.indent.Depth() > l.stats.MaxDepth {
		l.stats.MaxDepth = l.indent.Depth()
	}
	return nil
}

// finish terminates the last logical line, closes open blocks and marks
// the lexer exhausted.
func (l *Lexer) finish() {
	if l.lineContent {
		l.emit(NEWLINE, "", "", l.line, l.column)
	}
	for n := l.indent.Flush(); n > 0; n-- {
		l.emit(DEDENT, "", "", l.line, l.column)
	}
	l.emit(EOF, "", "", l.line, l.column)
	l.done = true
}

func (l *Lexer) lexNumber() {
	start, line, col := l.pos, l.line, l.column
	subtype := Integer

	for l.pos < len(l.input) && isDigit[l.input[l.pos]] {
		l.advance()
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		subtype = Float
		l.advance()
		for l.pos < len(l.input) && isDigit[l.input[l.pos]] {
			l.advance()
		}
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		offset := 1
		if l.peekIs(1, '+') || l.peekIs(1, '-') {
			offset = 2
		}
		if l.peekIsDigit(offset) {
			subtype = Float
			for i := 0; i < offset; i++ {
				l.advance()
			}
			for l.pos < len(l.input) && isDigit[l.input[l.pos]] {
				l.advance()
			}
		}
	}

	l.emit(NUMBER, l.input[start:l.pos], subtype, line, col)
}

func (l *Lexer) lexIdentifier() {
	start, line, col := l.pos, l.line, l.column
	for l.pos < len(l.input) && isIdentPart[l.input[l.pos]] {
		l.advance()
	}
	text := l.input[start:l.pos]

	if kw, ok := keywords[text]; ok {
		l.emit(kw.Kind, text, kw.Subtype, line, col)
		return
	}
	l.emit(IDENTIFIER, text, "", line, col)
}

// lexString scans a quoted literal. Escapes are not processed and a
// literal may not span lines.
func (l *Lexer) lexString() error {
	quote := l.input[l.pos]
	line, col := l.line, l.column
	subtype := SingleQuote
	if quote == '"' {
		subtype = DoubleQuote
	}

	l.advance()
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == quote {
			text := l.input[start:l.pos]
			l.advance()
			l.emit(STRING, text, subtype, line, col)
			return nil
		}
		if ch == '\n' || ch == '\r' {
			break
		}
		l.advance()
	}
	return cerrors.NewSyntaxError("EOL while scanning string literal",
		l.input[start-1:l.pos], line, col)
}

func (l *Lexer) lexBracket() error {
	ch := l.input[l.pos]
	subtype, err := LookupBracket(ch)
	if err != nil {
		if e, ok := cerrors.As(err); ok {
			e.At(l.line, l.column)
		}
		return err
	}
	if subtype.IsOpening() {
		l.indent.OpenBracket()
	} else {
		l.indent.CloseBracket()
	}
	l.emit(BRACKET, string(ch), subtype, l.line, l.column)
	l.advance()
	return nil
}

func (l *Lexer) lexOperator() error {
	line, col := l.line, l.column
	ch := l.input[l.pos]

	var subtype Subtype
	width := 1
	switch ch {
	case '+':
		subtype = Add
	case '-':
		subtype = Subtract
	case '*':
		subtype = Multiply
		if l.peekIs(1, '*') {
			subtype, width = Power, 2
		}
	case '/':
		subtype = Divide
	case '%':
		subtype = Modulo
	case '<':
		subtype = Lesser
		if l.peekIs(1, '=') {
			subtype, width = LesserEquals, 2
		}
	case '>':
		subtype = Greater
		if l.peekIs(1, '=') {
			subtype, width = GreaterEquals, 2
		}
	case '=':
		subtype = Assign
		if l.peekIs(1, '=') {
			subtype, width = Equals, 2
		}
	case '!':
		if l.peekIs(1, '=') {
			subtype, width = NotEquals, 2
		}
	}

	if subtype == "" {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		return cerrors.NewUnknownTokenError(fmt.Sprintf("unrecognized character '%c'", r),
			string(r), line, col)
	}

	text := l.input[l.pos : l.pos+width]
	for i := 0; i < width; i++ {
		l.advance()
	}
	l.emit(OPERATOR, text, subtype, line, col)
	return nil
}

func (l *Lexer) emit(kind Kind, literal string, subtype Subtype, line, col int) {
	tok := Token{Kind: kind, Literal: literal, Subtype: subtype, Line: line, Column: col}
	l.queue = append(l.queue, tok)

	switch kind {
	case NEWLINE:
		l.lineContent = false
	case INDENT, DEDENT, EOF:
	default:
		l.lineContent = true
	}

	if l.stats != nil {
		l.stats.Tokens++
		l.stats.Counts[kind]++
		if kind == NEWLINE {
			l.stats.Lines++
		}
	}
	if l.config.debug >= DebugTokens {
		l.config.logger.Debug("token", "kind", kind.String(), "subtype", string(subtype),
			"literal", literal, "line", line, "column", col)
	}
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

// consumeNewline accepts "\n", "\r\n" or a lone "\r"
func (l *Lexer) consumeNewline() {
	if l.input[l.pos] == '\r' {
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '\n' {
			l.pos++
		}
		l.line++
		l.column = 1
		return
	}
	l.advance()
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && isWhitespace[l.input[l.pos]] {
		l.advance()
	}
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' && l.input[l.pos] != '\r' {
		l.advance()
	}
}

func (l *Lexer) peekIs(offset int, ch byte) bool {
	return l.pos+offset < len(l.input) && l.input[l.pos+offset] == ch
}

func (l *Lexer) peekIsDigit(offset int) bool {
	return l.pos+offset < len(l.input) && isDigit[l.input[l.pos+offset]]
}
