package pctl

import "fmt"

// ParseError is returned for any PCTL source that fails to parse. It is
// never partial: Parse either returns a complete AST or a ParseError.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pctl: parse error at offset %d: %s", e.Pos, e.Message)
}

// Parser implements the recursive-descent grammar of spec.md §4.1:
//
//	formula   := iff
//	iff       := implies ( '<->' implies )?            // non-associative
//	implies   := or ( '->' implies )?                  // right-associative
//	or        := and ( '|' and )*                       // left-associative
//	and       := unary ( '&' unary )*                   // left-associative
//	unary     := '!' unary | temporal
//	temporal  := ( EY | AY | EP | AP | EH | AH ) temporal | primary
//	primary   := TRUE | FALSE | IDENT
//	           | '(' formula ')'
//	           | 'A' '(' formula 'S' formula ')'
//	           | 'E' '(' formula 'S' formula ')'
type Parser struct {
	lex  *Lexer
	cur  Token
	b    *Builder
	fail error
}

// Parse parses src into a Formula AST, or returns a *ParseError.
func Parse(src string) (*Node, error) {
	p := &Parser{lex: NewLexer(src), b: NewBuilder()}
	if err := p.advance(); err != nil {
		return nil, err
	}
	f := p.parseIff()
	if p.fail != nil {
		return nil, p.fail
	}
	if p.cur.Kind != TokEOF {
		return nil, &ParseError{Pos: p.cur.Pos, Message: fmt.Sprintf("unexpected trailing input %q", p.cur.Text)}
	}
	return f, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		if le, ok := err.(*LexError); ok {
			p.fail = &ParseError{Pos: le.Pos, Message: le.Message}
		} else {
			p.fail = err
		}
		return p.fail
	}
	p.cur = tok
	return nil
}

func (p *Parser) errorf(pos int, format string, args ...interface{}) *Node {
	if p.fail == nil {
		p.fail = &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
	}
	return &Node{}
}

func (p *Parser) expect(k TokenKind, what string) (Token, bool) {
	if p.fail != nil {
		return Token{}, false
	}
	if p.cur.Kind != k {
		p.errorf(p.cur.Pos, "expected %s, found %q", what, p.cur.Text)
		return Token{}, false
	}
	tok := p.cur
	_ = p.advance()
	return tok, true
}

func (p *Parser) parseIff() *Node {
	lhs := p.parseImplies()
	if p.fail != nil || p.cur.Kind != TokDArrow {
		return lhs
	}
	_ = p.advance()
	rhs := p.parseImplies()
	if p.fail != nil {
		return lhs
	}
	if p.cur.Kind == TokDArrow {
		return p.errorf(p.cur.Pos, "'<->' is non-associative; use parentheses to chain")
	}
	return p.b.Iff(lhs, rhs)
}

func (p *Parser) parseImplies() *Node {
	lhs := p.parseOr()
	if p.fail != nil || p.cur.Kind != TokArrow {
		return lhs
	}
	_ = p.advance()
	rhs := p.parseImplies() // right-associative
	if p.fail != nil {
		return lhs
	}
	return p.b.Implies(lhs, rhs)
}

func (p *Parser) parseOr() *Node {
	lhs := p.parseAnd()
	for p.fail == nil && p.cur.Kind == TokOr {
		_ = p.advance()
		rhs := p.parseAnd()
		if p.fail != nil {
			return lhs
		}
		lhs = p.b.Or(lhs, rhs)
	}
	return lhs
}

func (p *Parser) parseAnd() *Node {
	lhs := p.parseUnary()
	for p.fail == nil && p.cur.Kind == TokAnd {
		_ = p.advance()
		rhs := p.parseUnary()
		if p.fail != nil {
			return lhs
		}
		lhs = p.b.And(lhs, rhs)
	}
	return lhs
}

func (p *Parser) parseUnary() *Node {
	if p.fail != nil {
		return &Node{}
	}
	if p.cur.Kind == TokNot {
		_ = p.advance()
		f := p.parseUnary()
		if p.fail != nil {
			return f
		}
		return p.b.Not(f)
	}
	return p.parseTemporal()
}

func (p *Parser) parseTemporal() *Node {
	if p.fail != nil {
		return &Node{}
	}
	switch p.cur.Kind {
	case TokEY:
		_ = p.advance()
		return p.b.EY(p.parseTemporal())
	case TokAY:
		_ = p.advance()
		return p.b.AY(p.parseTemporal())
	case TokEP:
		_ = p.advance()
		return p.b.EP(p.parseTemporal())
	case TokAP:
		_ = p.advance()
		return p.b.AP(p.parseTemporal())
	case TokEH:
		_ = p.advance()
		return p.b.EH(p.parseTemporal())
	case TokAH:
		_ = p.advance()
		return p.b.AH(p.parseTemporal())
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() *Node {
	if p.fail != nil {
		return &Node{}
	}
	switch p.cur.Kind {
	case TokTrue:
		_ = p.advance()
		return p.b.True()
	case TokFalse:
		_ = p.advance()
		return p.b.False()
	case TokIdent:
		name := p.cur.Text
		_ = p.advance()
		return p.b.Atom(name)
	case TokLParen:
		_ = p.advance()
		f := p.parseIff()
		if p.fail != nil {
			return f
		}
		if _, ok := p.expect(TokRParen, "')'"); !ok {
			return f
		}
		return f
	case TokA:
		return p.parseSince(true)
	case TokE:
		return p.parseSince(false)
	default:
		return p.errorf(p.cur.Pos, "unexpected token %q", p.cur.Text)
	}
}

// parseSince parses "'A' '(' formula 'S' formula ')'" or the E-quantified
// equivalent. universal selects which of A(.. S ..)/E(.. S ..) was seen.
func (p *Parser) parseSince(universal bool) *Node {
	_ = p.advance() // consume A or E
	if _, ok := p.expect(TokLParen, "'('"); !ok {
		return &Node{}
	}
	lhs := p.parseIff()
	if p.fail != nil {
		return lhs
	}
	if _, ok := p.expect(TokS, "'S'"); !ok {
		return lhs
	}
	rhs := p.parseIff()
	if p.fail != nil {
		return rhs
	}
	if _, ok := p.expect(TokRParen, "')'"); !ok {
		return rhs
	}
	if universal {
		return p.b.AS(lhs, rhs)
	}
	return p.b.ES(lhs, rhs)
}
