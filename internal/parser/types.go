package parser

import (
	"fmt"

	"waccc/internal/diag"
	"waccc/internal/parsetree"
	"waccc/internal/token"
)

// parseType: (base | pair '(' elem ',' elem ')') ('[' ']')*
func (p *Parser) parseType() *parsetree.Node {
	var typ *parsetree.Node
	switch tok := p.peek(); {
	case tok.Kind.IsBaseType():
		p.advance()
		typ = parsetree.New(parsetree.BaseType, tok.Text, tok.Span)
	case tok.Kind == token.KwPair:
		typ = p.parsePairType()
	default:
		p.err(diag.SynExpectType, fmt.Sprintf("expected type, got %s", describe(tok)))
		return nil
	}
	if typ == nil {
		return nil
	}
	return p.parseArraySuffix(typ)
}

func (p *Parser) parseArraySuffix(typ *parsetree.Node) *parsetree.Node {
	for p.at(token.LBracket) && p.peekAt(1).Kind == token.RBracket {
		p.advance()
		closing := p.advance()
		typ = parsetree.New(parsetree.ArrayType, "", closing.Span, typ)
	}
	return typ
}

func (p *Parser) parsePairType() *parsetree.Node {
	kw := p.advance() // 'pair'
	if _, ok := p.expect(token.LParen, diag.SynExpectType); !ok {
		return nil
	}
	fst := p.parsePairElemType()
	p.expect(token.Comma, diag.SynUnexpectedToken)
	snd := p.parsePairElemType()
	closing, ok := p.expect(token.RParen, diag.SynUnexpectedToken)
	if !ok || fst == nil || snd == nil {
		return nil
	}
	return parsetree.New(parsetree.PairType, "", kw.Span.Cover(closing.Span), fst, snd)
}

// parsePairElemType: base ('[' ']')* | pair-type '[' ']'+ | 'pair'
// Вложенные пары без скобок стираются до 'pair'.
func (p *Parser) parsePairElemType() *parsetree.Node {
	if p.at(token.KwPair) && p.peekAt(1).Kind != token.LParen {
		kw := p.advance()
		return p.parseArraySuffix(parsetree.New(parsetree.BarePair, kw.Text, kw.Span))
	}
	if p.at(token.KwPair) {
		typ := p.parsePairType()
		if typ == nil {
			return nil
		}
		if !p.at(token.LBracket) {
			p.report(diag.SynExpectType, typ.Span, "a pair type nested in a pair must be written as 'pair'")
			return nil
		}
		return p.parseArraySuffix(typ)
	}
	return p.parseType()
}
