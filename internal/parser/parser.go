package parser

import (
	"fmt"

	"waccc/internal/diag"
	"waccc/internal/lexer"
	"waccc/internal/parsetree"
	"waccc/internal/source"
	"waccc/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Result of parsing one file. Tree is nil when any lexical or syntax error
// was reported.
type Result struct {
	Tree   *parsetree.Node
	Errors uint
}

// Parser хранит состояние разбора одного файла.
type Parser struct {
	toks     []token.Token
	pos      int
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile разбирает один файл.
func ParseFile(file *source.File, opts Options) Result {
	counter := &countingReporter{next: opts.Reporter}
	lx := lexer.New(file, lexer.Options{Reporter: counter})
	p := Parser{
		toks:     lx.All(),
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
	p.opts.CurrentErrors += counter.errors

	tree := p.parseProgram()
	if p.opts.CurrentErrors > 0 {
		return Result{Errors: p.opts.CurrentErrors}
	}
	return Result{Tree: tree}
}

// countingReporter forwards lexer diagnostics and counts the errors.
type countingReporter struct {
	next   diag.Reporter
	errors uint
}

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevError {
		r.errors++
	}
	if r.next != nil {
		r.next.Report(code, sev, sp, msg, notes)
	}
}

func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1] // EOF
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan: для EOF указываем на позицию сразу после последнего токена.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect ждёт конкретный токен; иначе репортит и возвращает false.
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, fmt.Sprintf("expected '%s', got %s", k, describe(p.peek())))
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter != nil && !p.opts.Enough() {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
	p.opts.CurrentErrors++
}

// failed reports whether errors were seen since mark.
func (p *Parser) failed(mark uint) bool {
	return p.opts.CurrentErrors > mark
}

// resync пропускает токены до ';' или до ключевого слова, закрывающего блок.
// Ошибки лексера уже учтены, Invalid токены просто пропускаются.
func (p *Parser) resync() {
	for {
		switch p.peek().Kind {
		case token.EOF, token.Semicolon, token.KwEnd, token.KwFi, token.KwDone,
			token.KwElse, token.KwThen, token.KwDo:
			return
		}
		p.advance()
	}
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.CharLit, token.StringLit:
		return fmt.Sprintf("%s %s", t.Kind, t.Text)
	}
	return fmt.Sprintf("'%s'", t.Text)
}

// parseProgram: 'begin' func* stat 'end' EOF
func (p *Parser) parseProgram() *parsetree.Node {
	begin, ok := p.expect(token.KwBegin, diag.SynExpectKeyword)
	if !ok {
		return nil
	}
	var children []*parsetree.Node
	for p.isFuncStart() {
		if fn := p.parseFunc(); fn != nil {
			children = append(children, fn)
		}
	}
	body := p.parseStatSeq()
	end, _ := p.expect(token.KwEnd, diag.SynExpectKeyword)
	if !p.at(token.EOF) {
		p.err(diag.SynTrailingInput, fmt.Sprintf("unexpected %s after end of program", describe(p.peek())))
	}
	children = append(children, body)
	return parsetree.New(parsetree.Program, "", begin.Span.Cover(end.Span), children...)
}

// isFuncStart смотрит вперёд: type IDENT '('.
func (p *Parser) isFuncStart() bool {
	n, ok := p.skipType(0)
	if !ok {
		return false
	}
	return p.peekAt(n).Kind == token.Ident && p.peekAt(n+1).Kind == token.LParen
}

// skipType returns the number of tokens a type starting at offset n spans.
func (p *Parser) skipType(n int) (int, bool) {
	start := n
	switch k := p.peekAt(n).Kind; {
	case k.IsBaseType():
		n++
	case k == token.KwPair:
		n++
		if p.peekAt(n).Kind != token.LParen {
			return 0, false
		}
		depth := 0
		for {
			switch p.peekAt(n).Kind {
			case token.LParen:
				depth++
			case token.RParen:
				depth--
			case token.EOF:
				return 0, false
			}
			n++
			if depth == 0 {
				break
			}
		}
	default:
		return 0, false
	}
	for p.peekAt(n).Kind == token.LBracket && p.peekAt(n+1).Kind == token.RBracket {
		n += 2
	}
	return n - start, true
}

// parseFunc: type IDENT '(' params? ')' 'is' stat 'end'
func (p *Parser) parseFunc() *parsetree.Node {
	mark := p.opts.CurrentErrors
	typ := p.parseType()
	name := p.parseIdent()
	params := p.parseParams()
	p.expect(token.KwIs, diag.SynExpectKeyword)
	body := p.parseStatSeq()
	end, _ := p.expect(token.KwEnd, diag.SynExpectKeyword)
	if p.failed(mark) {
		return nil
	}
	return parsetree.New(parsetree.Func, "", end.Span, typ, name, params, body)
}

func (p *Parser) parseParams() *parsetree.Node {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken)
	if !ok {
		return nil
	}
	list := parsetree.New(parsetree.ParamList, "", open.Span)
	if !p.at(token.RParen) {
		for {
			typ := p.parseType()
			name := p.parseIdent()
			list.Children = append(list.Children, parsetree.New(parsetree.Param, "", source.Span{}, typ, name))
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	closing, _ := p.expect(token.RParen, diag.SynUnexpectedToken)
	list.Span = list.Span.Cover(closing.Span)
	return list
}

// parseIdent ожидает Ident, иначе SynExpectIdentifier.
func (p *Parser) parseIdent() *parsetree.Node {
	if p.at(token.Ident) {
		tok := p.advance()
		return parsetree.New(parsetree.Ident, tok.Text, tok.Span)
	}
	p.err(diag.SynExpectIdentifier, fmt.Sprintf("expected identifier, got %s", describe(p.peek())))
	return nil
}
