package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/lexer"
	"safethunk/internal/source"
	"safethunk/internal/token"
)

// ParseType parses a standalone type such as "std.span<const CInt>".
// It uses a private FileSet, so it is safe to call concurrently; spans of the
// result do not refer to any caller file and must not be used for diagnostics.
func ParseType(text string) (*ast.Type, error) {
	var ty *ast.Type
	err := parseText(text, func(p *Parser) bool {
		var ok bool
		ty, ok = p.parseType()
		return ok
	})
	return ty, err
}

// ParseExpr parses a standalone expression; see ParseType for the
// caveats about spans.
func ParseExpr(text string) (ast.Expr, error) {
	var e ast.Expr
	err := parseText(text, func(p *Parser) bool {
		var ok bool
		e, ok = p.parseExpr()
		return ok
	})
	return e, err
}

func parseText(text string, parse func(*Parser) bool) error {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("<text>", []byte(text)))
	bag := diag.NewBag(4)
	opts := Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 1}
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	p := newParser(lx, file.ID, opts)

	ok := parse(p)
	if ok && !p.at(token.EOF) {
		p.err(diag.SynTrailingInput, "unexpected \""+p.lx.Peek().Text+"\" after end of input")
		ok = false
	}
	if ok && !bag.HasErrors() {
		return nil
	}
	if bag.Len() == 0 {
		return fmt.Errorf("cannot parse %q", text)
	}
	return fmt.Errorf("cannot parse %q: %s", text, bag.Items()[0].Message)
}

var errBadEscape = errors.New("invalid escape sequence in string literal")

// Unquote returns the value of a quoted string literal as produced by the lexer.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("malformed string literal %s", raw)
	}
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errBadEscape
		}
		switch body[i] {
		case '"', '\\':
			b.WriteByte(body[i])
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if i+1 >= len(body) || body[i+1] != '{' || end < 0 {
				return "", errBadEscape
			}
			code, err := strconv.ParseUint(body[i+2:i+end], 16, 32)
			if err != nil {
				return "", errBadEscape
			}
			b.WriteRune(rune(code))
			i += end
		default:
			return "", errBadEscape
		}
	}
	return b.String(), nil
}

// Quote renders s as a string literal accepted by the lexer.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
