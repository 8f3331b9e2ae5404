package lang

import (
	"errors"
	"log/slog"
	"strconv"
)

// parser is a recursive-descent parser over a token slice.
//
// Grammar, loosest binding first:
//
//	Program    → Newline* (Statement (Newline+ Statement)*)? Newline* EOF
//	Statement  → 'let' Identifier '=' Expr | Expr
//	Expr       → Term (('+' | '-') Term)*
//	Term       → Power (('*' | '/') Power)*
//	Power      → Unary ('^' Power)?
//	Unary      → '-' Unary | Primary
//	Primary    → Number | String | GlobalRef | '(' Expr ')'
//	           | Identifier ('[' (Expr (',' Expr)*)? ']')?
type parser struct {
	source string
	tokens []Token
	cfg    config
	pos    int
	depth  int
}

// Parse builds a [Program] from tokens produced by [Tokenize]. It fails with
// a [*ParseError] on malformed input.
func Parse(tokens []Token, opts ...Option) (*Program, error) {
	return parse(tokens, "", makeConfig(opts...))
}

func parse(tokens []Token, source string, cfg config) (*Program, error) {
	p := &parser{source: source, tokens: tokens, cfg: cfg}

	return p.program()
}

func (p *parser) peek() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}

	var end Position
	if n := len(p.tokens); n > 0 {
		end = p.tokens[n-1].Pos
	}

	return Token{Kind: KindEOF, Pos: end}
}

func (p *parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}

	return t
}

func (p *parser) expect(k Kind, msg string) (Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, p.unexpected(t, msg)
	}

	return p.advance(), nil
}

func (p *parser) errorf(t Token, msg string) *ParseError {
	return &ParseError{Pos: t.Pos, Msg: msg, Source: p.source}
}

// unexpected reports t as the wrong token, appending what was expected.
func (p *parser) unexpected(t Token, expected string) *ParseError {
	return p.errorf(t, "unexpected "+t.String()+", expected "+expected)
}

// enter increments the nesting depth, failing once it exceeds the bound.
func (p *parser) enter(t Token) error {
	p.depth++

	if p.cfg.exceeds(p.depth) {
		err := p.errorf(t, "nesting deeper than "+strconv.Itoa(p.cfg.maxDepth))
		err.err = ErrMaxDepthExceeded.With(slog.Int("max_depth", p.cfg.maxDepth))

		return err
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) skipNewlines() {
	for p.peek().Kind == KindNewline {
		p.advance()
	}
}

func (p *parser) program() (*Program, error) {
	prog := &Program{}

	for {
		p.skipNewlines()

		if p.peek().Kind == KindEOF {
			return prog, nil
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)

		if t := p.peek(); t.Kind != KindNewline && t.Kind != KindEOF {
			return nil, p.unexpected(t, "newline")
		}
	}
}

func (p *parser) statement() (Node, error) {
	if !p.peek().is(KindKeyword, keywordLet) {
		return p.expression()
	}

	start := p.advance()

	name, err := p.expect(KindIdentifier, "identifier after 'let'")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindAssign, "'=' after "+strconv.Quote(name.Text)); err != nil {
		return nil, err
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &LetBinding{Name: name.Text, Value: value, Start: start.Pos}, nil
}

func (p *parser) expression() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		if !op.is(KindOperator, "+") && !op.is(KindOperator, "-") {
			return left, nil
		}

		p.advance()

		right, err := p.term()
		if err != nil {
			return nil, err
		}

		left = &BinaryOp{Op: op.Text, Left: left, Right: right, Start: op.Pos}
	}
}

func (p *parser) term() (Node, error) {
	left, err := p.power()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		if !op.is(KindOperator, "*") && !op.is(KindOperator, "/") {
			return left, nil
		}

		p.advance()

		right, err := p.power()
		if err != nil {
			return nil, err
		}

		left = &BinaryOp{Op: op.Text, Left: left, Right: right, Start: op.Pos}
	}
}

func (p *parser) power() (Node, error) {
	base, err := p.unary()
	if err != nil {
		return nil, err
	}

	op := p.peek()
	if !op.is(KindOperator, "^") {
		return base, nil
	}

	p.advance()

	if err := p.enter(op); err != nil {
		return nil, err
	}
	defer p.leave()

	exp, err := p.power()
	if err != nil {
		return nil, err
	}

	return &BinaryOp{Op: op.Text, Left: base, Right: exp, Start: op.Pos}, nil
}

func (p *parser) unary() (Node, error) {
	t := p.peek()

	if err := p.enter(t); err != nil {
		return nil, err
	}
	defer p.leave()

	if !t.is(KindOperator, "-") {
		return p.primary()
	}

	p.advance()

	operand, err := p.unary()
	if err != nil {
		return nil, err
	}

	return &UnaryOp{Op: t.Text, Operand: operand, Start: t.Pos}, nil
}

func (p *parser) primary() (Node, error) {
	t := p.peek()

	switch t.Kind {
	case KindNumber:
		p.advance()

		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, p.errorf(t, "number out of range "+strconv.Quote(t.Text))
			}

			return nil, p.errorf(t, "invalid number "+strconv.Quote(t.Text))
		}

		return &NumberLiteral{Text: t.Text, Value: f, Start: t.Pos}, nil

	case KindString:
		p.advance()

		return &StringLiteral{Value: t.Text, Start: t.Pos}, nil

	case KindGlobalRef:
		p.advance()

		return &GlobalRef{Name: t.Text, Start: t.Pos}, nil

	case KindIdentifier:
		p.advance()

		if p.peek().Kind == KindLBracket {
			return p.call(t)
		}

		return &Identifier{Name: t.Text, Start: t.Pos}, nil

	case KindLParen:
		p.advance()

		inner, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(KindRParen, "')'"); err != nil {
			return nil, err
		}

		return inner, nil

	default:
		return nil, p.unexpected(t, "expression")
	}
}

// call parses a bracketed argument list following the callee identifier.
func (p *parser) call(name Token) (Node, error) {
	p.advance() // '['

	c := &Call{Name: name.Text, Start: name.Pos}

	if p.peek().Kind == KindRBracket {
		p.advance()

		return c, nil
	}

	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}

		c.Args = append(c.Args, arg)

		switch t := p.peek(); t.Kind {
		case KindRBracket:
			p.advance()

			return c, nil

		case KindComma:
			p.advance()

			if next := p.peek(); next.Kind == KindRBracket {
				return nil, p.errorf(next, "trailing comma in arguments to "+
					strconv.Quote(name.Text))
			}

		default:
			return nil, p.unexpected(t, "',' or ']'")
		}
	}
}
