package lang

import (
	"strings"
)

// lexer scans source text into tokens.
type lexer struct {
	input  string
	tokens []Token
	pos    int
	line   int
	col    int
}

// Tokenize converts source into a sequence of tokens terminated by a single
// [KindEOF] token. It fails with a [*LexError] on an unrecognized character,
// a malformed number, or an unterminated string literal.
func Tokenize(source string) ([]Token, error) {
	lx := &lexer{input: source, line: 1, col: 1}

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		lx.tokens = append(lx.tokens, tok)

		if tok.Kind == KindEOF {
			return lx.tokens, nil
		}
	}
}

func (lx *lexer) position() Position {
	return Position{Offset: lx.pos, Line: lx.line, Column: lx.col}
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.input) }

func (lx *lexer) peek() byte {
	if lx.eof() {
		return 0
	}

	return lx.input[lx.pos]
}

func (lx *lexer) peekN(n int) byte {
	if lx.pos+n >= len(lx.input) {
		return 0
	}

	return lx.input[lx.pos+n]
}

func (lx *lexer) advance() byte {
	ch := lx.input[lx.pos]
	lx.pos++

	if ch == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	return ch
}

func (lx *lexer) errorf(pos Position, msg string) error {
	return &LexError{Pos: pos, Msg: msg, Source: lx.input}
}

// skipBlank consumes spaces, tabs, carriage returns, and comments. Newlines
// are significant and left in place.
func (lx *lexer) skipBlank() {
	for !lx.eof() {
		switch ch := lx.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v':
			lx.advance()

		case ch == '#':
			for !lx.eof() && lx.peek() != '\n' {
				lx.advance()
			}

		default:
			return
		}
	}
}

func (lx *lexer) next() (Token, error) {
	lx.skipBlank()

	start := lx.position()

	if lx.eof() {
		return Token{Kind: KindEOF, Pos: start}, nil
	}

	ch := lx.peek()

	switch {
	case ch == '\n':
		lx.advance()

		return Token{Kind: KindNewline, Text: "\n", Pos: start}, nil

	case isDigit(ch) || (ch == '.' && isDigit(lx.peekN(1))):
		return lx.number(start)

	case isIdentStart(ch):
		text := lx.identifier()
		if text == keywordLet {
			return Token{Kind: KindKeyword, Text: text, Pos: start}, nil
		}

		return Token{Kind: KindIdentifier, Text: text, Pos: start}, nil

	case ch == '$':
		lx.advance()

		if !isIdentStart(lx.peek()) {
			return Token{}, lx.errorf(start, "expected identifier after '$'")
		}

		return Token{Kind: KindGlobalRef, Text: lx.identifier(), Pos: start}, nil

	case ch == '"':
		return lx.str(start)
	}

	lx.advance()

	kind, ok := punctuation[ch]
	if !ok {
		return Token{}, lx.errorf(start, "unexpected character "+quoteChar(ch))
	}

	return Token{Kind: kind, Text: string(ch), Pos: start}, nil
}

var punctuation = map[byte]Kind{
	'+': KindOperator,
	'-': KindOperator,
	'*': KindOperator,
	'/': KindOperator,
	'^': KindOperator,
	'=': KindAssign,
	',': KindComma,
	'(': KindLParen,
	')': KindRParen,
	'[': KindLBracket,
	']': KindRBracket,
}

func (lx *lexer) identifier() string {
	begin := lx.pos
	for !lx.eof() && isIdentPart(lx.peek()) {
		lx.advance()
	}

	return lx.input[begin:lx.pos]
}

// number scans a decimal integer or float with optional fraction and
// exponent. The numeric value is parsed later by the parser.
func (lx *lexer) number(start Position) (Token, error) {
	begin := lx.pos

	for isDigit(lx.peek()) {
		lx.advance()
	}

	if lx.peek() == '.' {
		lx.advance()

		for isDigit(lx.peek()) {
			lx.advance()
		}
	}

	if ch := lx.peek(); ch == 'e' || ch == 'E' {
		lx.advance()

		if ch := lx.peek(); ch == '+' || ch == '-' {
			lx.advance()
		}

		if !isDigit(lx.peek()) {
			return Token{}, lx.errorf(lx.position(), "malformed exponent in number")
		}

		for isDigit(lx.peek()) {
			lx.advance()
		}
	}

	if isIdentStart(lx.peek()) {
		return Token{}, lx.errorf(lx.position(), "unexpected character "+
			quoteChar(lx.peek())+" after number")
	}

	return Token{Kind: KindNumber, Text: lx.input[begin:lx.pos], Pos: start}, nil
}

// str scans a double-quoted string literal.
func (lx *lexer) str(start Position) (Token, error) {
	lx.advance() // opening quote

	var sb strings.Builder

	for {
		if lx.eof() || lx.peek() == '\n' {
			return Token{}, lx.errorf(start, "unterminated string")
		}

		ch := lx.advance()

		switch ch {
		case '"':
			return Token{Kind: KindString, Text: sb.String(), Pos: start}, nil

		case '\\':
			if lx.eof() {
				return Token{}, lx.errorf(start, "unterminated string")
			}

			esc := lx.position()

			switch e := lx.advance(); e {
			case '"', '\\':
				sb.WriteByte(e)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				return Token{}, lx.errorf(esc, "unknown escape sequence \\"+string(e))
			}

		default:
			sb.WriteByte(ch)
		}
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

func quoteChar(ch byte) string {
	if ch < 0x20 || ch >= 0x7f {
		const hex = "0123456789abcdef"

		return "'\\x" + string(hex[ch>>4]) + string(hex[ch&0xf]) + "'"
	}

	return "'" + string(ch) + "'"
}

// quoteString renders s as a string literal accepted by [Tokenize].
func quoteString(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for i := range len(s) {
		switch ch := s[i]; ch {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(ch)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
