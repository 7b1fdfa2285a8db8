package parser

import (
	"fmt"

	"waccc/internal/diag"
	"waccc/internal/parsetree"
	"waccc/internal/source"
	"waccc/internal/token"
)

// parseStatSeq: stat (';' stat)*
func (p *Parser) parseStatSeq() *parsetree.Node {
	var stats []*parsetree.Node
	for {
		mark := p.opts.CurrentErrors
		st := p.parseStat()
		if p.failed(mark) {
			p.resync()
		} else if st != nil {
			stats = append(stats, st)
		}
		if !p.at(token.Semicolon) {
			break
		}
		p.advance()
	}
	switch len(stats) {
	case 0:
		return nil
	case 1:
		return stats[0]
	}
	return parsetree.New(parsetree.Seq, "", source.Span{}, stats...)
}

func (p *Parser) parseStat() *parsetree.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.KwSkip:
		p.advance()
		return parsetree.New(parsetree.Skip, "", tok.Span)
	case token.KwRead:
		p.advance()
		return p.wrap(parsetree.Read, tok, p.parseLHS())
	case token.KwFree:
		p.advance()
		return p.wrap(parsetree.Free, tok, p.parseExpr())
	case token.KwReturn:
		p.advance()
		return p.wrap(parsetree.Return, tok, p.parseExpr())
	case token.KwExit:
		p.advance()
		return p.wrap(parsetree.Exit, tok, p.parseExpr())
	case token.KwPrint:
		p.advance()
		return p.wrap(parsetree.Print, tok, p.parseExpr())
	case token.KwPrintln:
		p.advance()
		return p.wrap(parsetree.Println, tok, p.parseExpr())
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwBegin:
		p.advance()
		body := p.parseStatSeq()
		end, _ := p.expect(token.KwEnd, diag.SynExpectKeyword)
		return p.wrap(parsetree.Block, tok, body, end)
	case token.Ident, token.KwFst, token.KwSnd:
		return p.parseAssign()
	}
	if tok.Kind.IsBaseType() || tok.Kind == token.KwPair {
		return p.parseDeclare()
	}
	p.err(diag.SynExpectStatement, fmt.Sprintf("expected statement, got %s", describe(tok)))
	return nil
}

// wrap builds a node from a keyword token and its parsed parts; a nil part
// means an error was already reported.
func (p *Parser) wrap(kind parsetree.Kind, kw token.Token, parts ...any) *parsetree.Node {
	span := kw.Span
	var children []*parsetree.Node
	for _, part := range parts {
		switch v := part.(type) {
		case *parsetree.Node:
			if v == nil {
				return nil
			}
			children = append(children, v)
		case token.Token:
			span = span.Cover(v.Span)
		}
	}
	return parsetree.New(kind, "", span, children...)
}

func (p *Parser) parseDeclare() *parsetree.Node {
	typ := p.parseType()
	name := p.parseIdent()
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken); !ok {
		return nil
	}
	rhs := p.parseRHS()
	if typ == nil || name == nil || rhs == nil {
		return nil
	}
	return parsetree.New(parsetree.Declare, "", source.Span{}, typ, name, rhs)
}

func (p *Parser) parseAssign() *parsetree.Node {
	lhs := p.parseLHS()
	if lhs == nil {
		return nil
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken); !ok {
		return nil
	}
	rhs := p.parseRHS()
	if rhs == nil {
		return nil
	}
	return parsetree.New(parsetree.Assign, "", source.Span{}, lhs, rhs)
}

// parseIf: 'if' expr 'then' stat ('else' stat)? 'fi'
func (p *Parser) parseIf() *parsetree.Node {
	kw := p.advance()
	cond := p.parseExpr()
	p.expect(token.KwThen, diag.SynExpectKeyword)
	then := p.parseStatSeq()
	var els *parsetree.Node
	hasElse := false
	if p.at(token.KwElse) {
		p.advance()
		hasElse = true
		els = p.parseStatSeq()
	}
	fi, _ := p.expect(token.KwFi, diag.SynExpectKeyword)
	if hasElse {
		return p.wrap(parsetree.If, kw, cond, then, els, fi)
	}
	return p.wrap(parsetree.If, kw, cond, then, fi)
}

// parseWhile: 'while' expr 'do' stat 'done'
func (p *Parser) parseWhile() *parsetree.Node {
	kw := p.advance()
	cond := p.parseExpr()
	p.expect(token.KwDo, diag.SynExpectKeyword)
	body := p.parseStatSeq()
	done, _ := p.expect(token.KwDone, diag.SynExpectKeyword)
	return p.wrap(parsetree.While, kw, cond, body, done)
}

// parseFor: 'for' '(' stat ';' expr ';' stat ')' 'do' stat 'done'
func (p *Parser) parseFor() *parsetree.Node {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
		return nil
	}
	init := p.parseStat()
	p.expect(token.Semicolon, diag.SynUnexpectedToken)
	cond := p.parseExpr()
	p.expect(token.Semicolon, diag.SynUnexpectedToken)
	step := p.parseStat()
	p.expect(token.RParen, diag.SynUnexpectedToken)
	p.expect(token.KwDo, diag.SynExpectKeyword)
	body := p.parseStatSeq()
	done, _ := p.expect(token.KwDone, diag.SynExpectKeyword)
	return p.wrap(parsetree.For, kw, init, cond, step, body, done)
}

// parseLHS: IDENT ('[' expr ']')* | ('fst'|'snd') lhs
func (p *Parser) parseLHS() *parsetree.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.KwFst, token.KwSnd:
		return p.parsePairElem()
	case token.Ident:
		return p.parseIdentOrArrayElem()
	}
	p.err(diag.SynBadAssignTarget, fmt.Sprintf("expected assignable expression, got %s", describe(tok)))
	return nil
}

func (p *Parser) parsePairElem() *parsetree.Node {
	kw := p.advance()
	inner := p.parseLHS()
	if inner == nil {
		return nil
	}
	return parsetree.New(parsetree.PairElem, kw.Text, kw.Span, inner)
}

// parseRHS: expr | array-lit | newpair | pair-elem | call
func (p *Parser) parseRHS() *parsetree.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.LBracket:
		return p.parseArrayLit()
	case token.KwNewpair:
		p.advance()
		if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
			return nil
		}
		fst := p.parseExpr()
		p.expect(token.Comma, diag.SynUnexpectedToken)
		snd := p.parseExpr()
		closing, _ := p.expect(token.RParen, diag.SynUnexpectedToken)
		return p.wrap(parsetree.NewPair, tok, fst, snd, closing)
	case token.KwFst, token.KwSnd:
		return p.parsePairElem()
	case token.KwCall:
		p.advance()
		name := p.parseIdent()
		args := p.parseArgs()
		return p.wrap(parsetree.Call, tok, name, args)
	}
	return p.parseExpr()
}

func (p *Parser) parseArrayLit() *parsetree.Node {
	open := p.advance() // '['
	var elems []*parsetree.Node
	ok := true
	if !p.at(token.RBracket) {
		for {
			var e *parsetree.Node
			if p.at(token.LBracket) {
				e = p.parseArrayLit()
			} else {
				e = p.parseExpr()
			}
			if e == nil {
				ok = false
			}
			elems = append(elems, e)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	closing, closed := p.expect(token.RBracket, diag.SynUnexpectedToken)
	if !ok || !closed {
		return nil
	}
	return parsetree.New(parsetree.ArrayLit, "", open.Span.Cover(closing.Span), elems...)
}

func (p *Parser) parseArgs() *parsetree.Node {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken)
	if !ok {
		return nil
	}
	args := parsetree.New(parsetree.ArgList, "", open.Span)
	valid := true
	if !p.at(token.RParen) {
		for {
			e := p.parseExpr()
			if e == nil {
				valid = false
			} else {
				args.Children = append(args.Children, e)
			}
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	closing, closed := p.expect(token.RParen, diag.SynUnexpectedToken)
	if !valid || !closed {
		return nil
	}
	args.Span = args.Span.Cover(closing.Span)
	return args
}
