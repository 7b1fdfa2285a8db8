package parser

import (
	"fmt"

	"waccc/internal/diag"
	"waccc/internal/parsetree"
	"waccc/internal/token"
)

// Уровни приоритета бинарных операторов, от слабого к сильному.
var binaryLevels = [][]token.Kind{
	{token.OrOr},
	{token.AndAnd},
	{token.EqEq, token.BangEq},
	{token.Gt, token.GtEq, token.Lt, token.LtEq},
	{token.Plus, token.Minus},
	{token.Star, token.Slash, token.Percent},
}

func (p *Parser) parseExpr() *parsetree.Node {
	return p.parseBinary(0)
}

// parseBinary: левоассоциативный разбор уровня level.
func (p *Parser) parseBinary(level int) *parsetree.Node {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left := p.parseBinary(level + 1)
	for left != nil {
		op, ok := p.matchOp(binaryLevels[level])
		if !ok {
			break
		}
		right := p.parseBinary(level + 1)
		if right == nil {
			return nil
		}
		left = parsetree.New(parsetree.Binary, op.Text, left.Span, left, right)
	}
	return left
}

func (p *Parser) matchOp(kinds []token.Kind) (token.Token, bool) {
	tok := p.peek()
	for _, k := range kinds {
		if tok.Kind == k {
			return p.advance(), true
		}
	}
	return tok, false
}

// parseUnary: ('!' | '-' | 'len' | 'ord' | 'chr') unary | atom
// Минус перед целым литералом сворачивается в литерал, иначе -2147483648
// не поместился бы в диапазон.
func (p *Parser) parseUnary() *parsetree.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.Minus:
		if next := p.peekAt(1); next.Kind == token.IntLit {
			p.advance()
			p.advance()
			return parsetree.New(parsetree.IntLit, "-"+next.Text, tok.Span.Cover(next.Span))
		}
		fallthrough
	case token.Bang, token.KwLen, token.KwOrd, token.KwChr:
		p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return parsetree.New(parsetree.Unary, tok.Text, tok.Span, operand)
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() *parsetree.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return parsetree.New(parsetree.IntLit, tok.Text, tok.Span)
	case token.KwTrue, token.KwFalse:
		p.advance()
		return parsetree.New(parsetree.BoolLit, tok.Text, tok.Span)
	case token.CharLit:
		p.advance()
		return parsetree.New(parsetree.CharLit, tok.Text, tok.Span)
	case token.StringLit:
		p.advance()
		return parsetree.New(parsetree.StrLit, tok.Text, tok.Span)
	case token.KwNull:
		p.advance()
		return parsetree.New(parsetree.PairLit, tok.Text, tok.Span)
	case token.Ident:
		return p.parseIdentOrArrayElem()
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		closing, ok := p.expect(token.RParen, diag.SynUnexpectedToken)
		if inner == nil || !ok {
			return nil
		}
		return parsetree.New(parsetree.Paren, "", tok.Span.Cover(closing.Span), inner)
	}
	p.err(diag.SynExpectExpression, fmt.Sprintf("expected expression, got %s", describe(tok)))
	return nil
}

// parseIdentOrArrayElem: IDENT ('[' expr ']')*
func (p *Parser) parseIdentOrArrayElem() *parsetree.Node {
	name := p.parseIdent()
	if name == nil || !p.at(token.LBracket) {
		return name
	}
	elem := parsetree.New(parsetree.ArrayElem, "", name.Span, name)
	for p.at(token.LBracket) {
		p.advance()
		idx := p.parseExpr()
		closing, ok := p.expect(token.RBracket, diag.SynUnexpectedToken)
		if idx == nil || !ok {
			return nil
		}
		elem.Children = append(elem.Children, idx)
		elem.Span = elem.Span.Cover(closing.Span)
	}
	return elem
}
