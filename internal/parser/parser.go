package parser

import (
	"slices"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/lexer"
	"safethunk/internal/source"
	"safethunk/internal/token"
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

type Result struct {
	File *ast.File
	// Errors is the number of error diagnostics reported while parsing.
	Errors uint
}

// Parser — состояние парсера на один файл или один диапазон
type Parser struct {
	lx       *lexer.Lexer // поток токенов (Peek/Next)
	fileID   source.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

func newParser(lx *lexer.Lexer, fileID source.FileID, opts Options) *Parser {
	return &Parser{
		lx:       lx,
		fileID:   fileID,
		opts:     opts,
		lastSpan: source.Span{File: fileID},
	}
}

// ParseFile — входная точка для разбора одного интерфейсного файла.
// Тела функций пропускаются: генератору нужны только сигнатуры.
func ParseFile(src *source.File, opts Options) Result {
	lx := lexer.New(src, lexer.Options{Reporter: opts.Reporter})
	p := newParser(lx, src.ID, opts)
	file := &ast.File{ID: src.ID}
	start := p.lx.Peek().Span

	for !p.at(token.EOF) {
		item, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		file.Items = append(file.Items, item)
	}
	file.Span = start.Cover(p.lx.Peek().Span)
	return Result{File: file, Errors: p.opts.CurrentErrors}
}

// ParseExprInRange parses the bytes of span as one expression. Spans of the
// result point into the original file, so a count expression written inside
// a string literal gets diagnostics at the right column.
func ParseExprInRange(file *source.File, span source.Span, opts Options) (ast.Expr, bool) {
	lx := lexer.NewInRange(file, span, lexer.Options{Reporter: opts.Reporter})
	p := newParser(lx, file.ID, opts)
	p.lastSpan = span.ZeroideToStart()
	e, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if !p.at(token.EOF) {
		p.err(diag.SynTrailingInput, "unexpected \""+p.lx.Peek().Text+"\" after expression")
		return nil, false
	}
	return e, true
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}
