package lang

import (
	"log/slog"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind uint8

const (
	KindEOF        Kind = iota // end of input
	KindNewline                // newline
	KindNumber                 // number
	KindString                 // string
	KindIdentifier             // identifier
	KindGlobalRef              // global reference
	KindKeyword                // keyword
	KindOperator               // operator
	KindAssign                 // '='
	KindComma                  // ','
	KindLParen                 // '('
	KindRParen                 // ')'
	KindLBracket               // '['
	KindRBracket               // ']'
)

var kindName = [...]string{
	KindEOF:        "end of input",
	KindNewline:    "newline",
	KindNumber:     "number",
	KindString:     "string",
	KindIdentifier: "identifier",
	KindGlobalRef:  "global reference",
	KindKeyword:    "keyword",
	KindOperator:   "operator",
	KindAssign:     "'='",
	KindComma:      "','",
	KindLParen:     "'('",
	KindRParen:     "')'",
	KindLBracket:   "'['",
	KindRBracket:   "']'",
}

func (k Kind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// keywordLet introduces a binding statement.
const keywordLet = "let"

// Position identifies a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte offset.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements [slog.LogValuer].
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Token is a single lexical unit produced by [Tokenize].
//
// For [KindGlobalRef] tokens, Text holds the name without its '$' sigil.
// For [KindString] tokens, Text holds the unescaped contents.
type Token struct {
	Text string
	Pos  Position
	Kind Kind
}

// String returns a compact description of the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case KindEOF, KindNewline:
		return t.Kind.String()

	case KindString:
		return t.Kind.String() + " " + strconv.Quote(t.Text)

	case KindGlobalRef:
		return t.Kind.String() + " $" + t.Text

	default:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	}
}

// is reports whether t has kind k and, if text is non-empty, the given text.
func (t Token) is(k Kind, text string) bool {
	return t.Kind == k && (text == "" || t.Text == text)
}
