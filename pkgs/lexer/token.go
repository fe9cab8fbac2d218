package lexer

import (
	"fmt"

	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
)

// Kind represents the category of a token
type Kind int

const (
	// Structural tokens
	EOF Kind = iota
	NEWLINE
	INDENT
	DEDENT

	// Language tokens
	KEYWORD
	OPERATOR
	DELIMITER
	BRACKET

	// Literals
	STRING
	NUMBER
	IDENTIFIER
)

// Pre-computed token name lookup for fast debugging
var kindNames = [...]string{
	EOF:        "EOF",
	NEWLINE:    "NEWLINE",
	INDENT:     "INDENT",
	DEDENT:     "DEDENT",
	KEYWORD:    "KEYWORD",
	OPERATOR:   "OPERATOR",
	DELIMITER:  "DELIMITER",
	BRACKET:    "BRACKET",
	STRING:     "STRING",
	NUMBER:     "NUMBER",
	IDENTIFIER: "IDENTIFIER",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && int(k) >= 0 {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsStructural reports whether the kind is synthesized from layout
func (k Kind) IsStructural() bool {
	return k <= DEDENT
}

// Subtype refines a Kind: which keyword, operator, delimiter or bracket
// a token is, or which literal form it was written in.
type Subtype string

// Keywords
const (
	Def    Subtype = "def"
	For    Subtype = "for"
	While  Subtype = "while"
	If     Subtype = "if"
	Elif   Subtype = "elif"
	Else   Subtype = "else"
	True   Subtype = "True"
	False  Subtype = "False"
	None   Subtype = "None"
	Return Subtype = "return"
	Print  Subtype = "print"
	Len    Subtype = "len"
	Range  Subtype = "range"
)

// Operators
const (
	Add           Subtype = "add"
	Subtract      Subtype = "subtract"
	Multiply      Subtype = "multiply"
	Divide        Subtype = "divide"
	Modulo        Subtype = "modulo"
	Power         Subtype = "power"
	Lesser        Subtype = "lesser"
	Greater       Subtype = "greater"
	LesserEquals  Subtype = "lesser_equals"
	GreaterEquals Subtype = "greater_equals"
	Equals        Subtype = "equals"
	NotEquals     Subtype = "not_equals"
	Assign        Subtype = "assign"
	And           Subtype = "and"
	Or            Subtype = "or"
	Not           Subtype = "not"
	In            Subtype = "in"
)

// Delimiters
const (
	Comma     Subtype = "comma"
	Colon     Subtype = "colon"
	Dot       Subtype = "dot"
	Semicolon Subtype = "semicolon"
)

// Brackets
const (
	RoundOpen   Subtype = "round_open"
	RoundClose  Subtype = "round_close"
	SquareOpen  Subtype = "square_open"
	SquareClose Subtype = "square_close"
	CurlyOpen   Subtype = "curly_open"
	CurlyClose  Subtype = "curly_close"
)

// Literal forms
const (
	Integer     Subtype = "integer"
	Float       Subtype = "float"
	SingleQuote Subtype = "single"
	DoubleQuote Subtype = "double"
)

// Keyword and word-operator lookup by identifier text
var keywords = map[string]Token{
	"def":    {Kind: KEYWORD, Subtype: Def},
	"for":    {Kind: KEYWORD, Subtype: For},
	"while":  {Kind: KEYWORD, Subtype: While},
	"if":     {Kind: KEYWORD, Subtype: If},
	"elif":   {Kind: KEYWORD, Subtype: Elif},
	"else":   {Kind: KEYWORD, Subtype: Else},
	"True":   {Kind: KEYWORD, Subtype: True},
	"False":  {Kind: KEYWORD, Subtype: False},
	"None":   {Kind: KEYWORD, Subtype: None},
	"return": {Kind: KEYWORD, Subtype: Return},
	"print":  {Kind: KEYWORD, Subtype: Print},
	"len":    {Kind: KEYWORD, Subtype: Len},
	"range":  {Kind: KEYWORD, Subtype: Range},
	"and":    {Kind: OPERATOR, Subtype: And},
	"or":     {Kind: OPERATOR, Subtype: Or},
	"not":    {Kind: OPERATOR, Subtype: Not},
	"in":     {Kind: OPERATOR, Subtype: In},
}

// Token represents a lexical token. Tokens are values and never change
// after the lexer produces them.
type Token struct {
	Kind    Kind
	Literal string
	Subtype Subtype
	Line    int
	Column  int
}

// Is reports whether the token has the given kind and subtype
func (t Token) Is(kind Kind, subtype Subtype) bool {
	return t.Kind == kind && t.Subtype == subtype
}

// IsKeyword reports whether the token is the given keyword
func (t Token) IsKeyword(sub Subtype) bool {
	return t.Is(KEYWORD, sub)
}

// IsOperator reports whether the token is the given operator
func (t Token) IsOperator(sub Subtype) bool {
	return t.Is(OPERATOR, sub)
}

// IsDelimiter reports whether the token is the given delimiter
func (t Token) IsDelimiter(sub Subtype) bool {
	return t.Is(DELIMITER, sub)
}

// IsBracket reports whether the token is the given bracket
func (t Token) IsBracket(sub Subtype) bool {
	return t.Is(BRACKET, sub)
}

// Text returns a printable form of the token for error messages
func (t Token) Text() string {
	switch t.Kind {
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case INDENT:
		return "INDENT"
	case DEDENT:
		return "DEDENT"
	}
	return t.Literal
}

func (t Token) String() string {
	if t.Subtype != "" {
		return fmt.Sprintf("%s(%s %q) at %d:%d", t.Kind, t.Subtype, t.Literal, t.Line, t.Column)
	}
	return fmt.Sprintf("%s(%q) at %d:%d", t.Kind, t.Literal, t.Line, t.Column)
}

// LookupBracket classifies a bracket character
func LookupBracket(ch byte) (Subtype, error) {
	switch ch {
	case '(':
		return RoundOpen, nil
	case ')':
		return RoundClose, nil
	case '[':
		return SquareOpen, nil
	case ']':
		return SquareClose, nil
	case '{':
		return CurlyOpen, nil
	case '}':
		return CurlyClose, nil
	}
	return "", cerrors.New(cerrors.UnknownTokenError,
		fmt.Sprintf("Token '%c' is not a BracketSymbol.", ch)).WithToken(string(ch))
}

// IsOpening reports whether a bracket subtype opens a group
func (s Subtype) IsOpening() bool {
	return s == RoundOpen || s == SquareOpen || s == CurlyOpen
}
