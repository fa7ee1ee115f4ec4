package thunk

import (
	"strconv"
	"strings"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/format"
	"safethunk/internal/parser"
	"safethunk/internal/source"
)

// Annotations is the raw input of one run: annotation calls in source order
// and the optional type mapping table.
type Annotations struct {
	Exprs    []ast.Expr
	Mappings *ast.Dict
}

// FromAttr splits the arguments of an `@safethunk(...)` attribute.
func FromAttr(attr *ast.Attr) (Annotations, error) {
	var ann Annotations
	for i, arg := range attr.Args {
		if arg.Label != "" {
			return Annotations{}, structural(PhaseParse, diag.ThkAnnotationShape, arg, "unexpected label '%s' in @%s", arg.Label, attr.Name)
		}
		if dict, ok := arg.Value.(*ast.Dict); ok {
			if i != len(attr.Args)-1 {
				return Annotations{}, structural(PhaseParse, diag.ThkForeignMapping, dict, "type mapping table must be the last argument")
			}
			ann.Mappings = dict
			continue
		}
		ann.Exprs = append(ann.Exprs, arg.Value)
	}
	return ann, nil
}

// parsed is the output of the annotation parser.
type parsed struct {
	infos []ParamInfo
	// nonescaping maps every non-escaping position to the annotation that
	// made it so.
	nonescaping map[Position]ast.Node
	lifetimes   map[Position][]LifetimeDependence
	mappings    map[string]string
}

type annotationParser struct {
	dc    *DeclContext
	files *source.FileSet
	out   *parsed
}

func parseAnnotations(dc *DeclContext, ann Annotations, files *source.FileSet) (*parsed, error) {
	ap := &annotationParser{
		dc:    dc,
		files: files,
		out: &parsed{
			nonescaping: make(map[Position]ast.Node),
			lifetimes:   make(map[Position][]LifetimeDependence),
		},
	}
	if ann.Mappings != nil {
		if err := ap.parseMappings(ann.Mappings); err != nil {
			return nil, err
		}
	}
	for _, e := range ann.Exprs {
		if err := ap.parseAnnotation(e); err != nil {
			return nil, err
		}
	}
	ap.foreignSpans()
	return ap.out, nil
}

func (ap *annotationParser) parseMappings(dict *ast.Dict) error {
	ap.out.mappings = make(map[string]string, len(dict.Entries))
	for _, en := range dict.Entries {
		key, ok := en.Key.(*ast.StringLit)
		if !ok {
			return structural(PhaseParse, diag.ThkForeignMapping, en.Key, "type mapping keys must be string literals")
		}
		value, ok := en.Value.(*ast.StringLit)
		if !ok {
			return structural(PhaseParse, diag.ThkForeignMapping, en.Value, "type mapping values must be string literals")
		}
		ap.out.mappings[key.Value] = value.Value
	}
	return nil
}

func (ap *annotationParser) parseAnnotation(e ast.Expr) error {
	call, ok := e.(*ast.Call)
	if !ok {
		return ap.shapeError(e)
	}
	fun, ok := call.Fun.(*ast.Ident)
	if !ok || call.Trailing != nil {
		return ap.shapeError(e)
	}
	switch fun.Name {
	case "countedBy":
		return ap.parseCounted(call, "count", false)
	case "sizedBy":
		return ap.parseCounted(call, "size", true)
	case "endedBy":
		return ap.parseEndedBy(call)
	case "nonescaping":
		args, err := labeledArgs(call, "pointer")
		if err != nil {
			return err
		}
		pos, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		ap.markNonescaping(pos, call)
		return nil
	case "lifetimeDependence":
		return ap.parseLifetime(call)
	default:
		return ap.shapeError(e)
	}
}

func (ap *annotationParser) shapeError(e ast.Expr) error {
	return structural(PhaseParse, diag.ThkAnnotationShape, e,
		"expected countedBy, sizedBy, endedBy, nonescaping or lifetimeDependence, got '%s'", format.Expr(e))
}

func (ap *annotationParser) parseCounted(call *ast.Call, countLabel string, sizedBy bool) error {
	args, err := labeledArgs(call, "pointer", countLabel)
	if err != nil {
		return err
	}
	pos, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	lit, ok := args[1].(*ast.StringLit)
	if !ok {
		return structural(PhaseParse, diag.ThkCountExpression, args[1], "%s must be a string literal containing an expression", countLabel)
	}
	count, err := ap.parseCount(lit)
	if err != nil {
		return err
	}
	info := &CountedBy{
		Site:    Site{Pointer: pos, Original: call},
		Count:   count,
		SizedBy: sizedBy,
	}
	if id, ok := count.(*ast.Ident); ok {
		// простая ссылка на параметр проверяется сразу, ошибка — на литерале
		idx, err := ap.dc.LookupParam(id.Name, lit)
		if err != nil {
			return err
		}
		info.CountParam = idx
	}
	ap.out.infos = append(ap.out.infos, info)
	return nil
}

// parseCount parses the expression inside lit. Without escapes the literal
// interior is parsed in place so diagnostics land on the right column.
func (ap *annotationParser) parseCount(lit *ast.StringLit) (ast.Expr, error) {
	if ap.files != nil && !lit.Span.Empty() && !strings.Contains(lit.Raw, `\`) {
		if file := ap.files.Get(lit.Span.File); file != nil {
			bag := diag.NewBag(1)
			opts := parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 1}
			e, ok := parser.ParseExprInRange(file, lit.Span.Shrink(1), opts)
			if ok {
				return e, nil
			}
			err := structural(PhaseParse, diag.ThkCountExpression, lit, "invalid count expression %s", lit.Raw)
			if bag.Len() > 0 {
				d := bag.Items()[0]
				err.Span = d.Primary
				err.Msg += ": " + d.Message
			}
			return nil, err
		}
	}
	e, perr := parser.ParseExpr(lit.Value)
	if perr != nil {
		return nil, structural(PhaseParse, diag.ThkCountExpression, lit, "invalid count expression %s: %v", lit.Raw, perr)
	}
	return e, nil
}

func (ap *annotationParser) parseEndedBy(call *ast.Call) error {
	args, err := labeledArgs(call, "start", "end")
	if err != nil {
		return unimplemented(call, "endedBy is not yet implemented")
	}
	start, errStart := intArg(args[0])
	end, errEnd := intArg(args[1])
	if errStart != nil || errEnd != nil {
		return unimplemented(call, "endedBy is not yet implemented")
	}
	return unimplemented(call, "endedBy(start: %d, end: %d) is not yet implemented", start, end)
}

func (ap *annotationParser) parseLifetime(call *ast.Call) error {
	args, err := labeledArgs(call, "dependsOn", "pointer", "type")
	if err != nil {
		return err
	}
	dependsOn, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	pointer, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	kind, err := parseDependenceKind(args[2])
	if err != nil {
		return err
	}
	if dependsOn == Return {
		return structural(PhaseParse, diag.ThkLifetimeOnReturn, args[0], "lifetime dependence on return value is not supported")
	}
	ap.out.lifetimes[pointer] = append(ap.out.lifetimes[pointer], LifetimeDependence{DependsOn: dependsOn, Kind: kind, Node: call})
	if kind == Copy && dependsOn != Self {
		ap.markNonescaping(dependsOn, call)
	}
	ap.markNonescaping(pointer, call)
	return nil
}

func (ap *annotationParser) markNonescaping(pos Position, by ast.Node) {
	if _, ok := ap.out.nonescaping[pos]; !ok {
		ap.out.nonescaping[pos] = by
	}
}

// foreignSpans synthesizes a ForeignSpan record for every parameter and
// result whose type the mapping table desugars to a span template.
func (ap *annotationParser) foreignSpans() {
	if len(ap.out.mappings) == 0 {
		return
	}
	for i, p := range ap.dc.Params {
		if ap.isForeignSpan(p.Type) {
			ap.out.infos = append(ap.out.infos, &ForeignSpan{
				Site:         Site{Pointer: Param(i + 1), Original: p},
				TypeMappings: ap.out.mappings,
			})
		}
	}
	if r := ap.dc.Result; r != nil && ap.isForeignSpan(r) {
		ap.out.infos = append(ap.out.infos, &ForeignSpan{
			Site:         Site{Pointer: Return, Original: r},
			TypeMappings: ap.out.mappings,
		})
	}
}

func (ap *annotationParser) isForeignSpan(t *ast.Type) bool {
	desugared, ok := ap.out.mappings[mappingKey(t)]
	return ok && isSpanTemplate(desugared)
}

// mappingKey is the printed type without `inout`/`const`; `?` is kept.
func mappingKey(t *ast.Type) string {
	return t.StripSpecifiers().String()
}

func isSpanTemplate(desugared string) bool {
	return strings.HasPrefix(desugared, "std.span<") || strings.HasPrefix(desugared, "std.__1.span<")
}

// labeledArgs checks that call has exactly the given labels, in order.
func labeledArgs(call *ast.Call, labels ...string) ([]ast.Expr, error) {
	fun := format.Expr(call.Fun)
	want := fun + "(" + strings.Join(labels, ":, ") + ":)"
	if len(call.Args) != len(labels) {
		return nil, structural(PhaseParse, diag.ThkAnnotationShape, call, "expected %s, got %d argument(s)", want, len(call.Args))
	}
	out := make([]ast.Expr, len(labels))
	for i, arg := range call.Args {
		if arg.Label != labels[i] {
			return nil, structural(PhaseParse, diag.ThkAnnotationShape, arg, "expected argument label '%s' in %s", labels[i], want)
		}
		out[i] = arg.Value
	}
	return out, nil
}

// parsePosition reads `.param(N)`, `.return` or `.self`.
func parsePosition(e ast.Expr) (Position, error) {
	switch e := e.(type) {
	case *ast.ImplicitMember:
		switch e.Name {
		case "return":
			return Return, nil
		case "self":
			return Self, nil
		}
	case *ast.Call:
		m, ok := e.Fun.(*ast.ImplicitMember)
		if ok && m.Name == "param" && len(e.Args) == 1 && e.Args[0].Label == "" && e.Trailing == nil {
			i, err := intArg(e.Args[0].Value)
			if err != nil {
				return Position{}, err
			}
			return Param(i), nil
		}
	}
	return Position{}, structural(PhaseParse, diag.ThkAnnotationShape, e, "expected .param(N), .return or .self, got '%s'", format.Expr(e))
}

// intArg accepts an integer literal, optionally negated; range checks are
// left to validation.
func intArg(e ast.Expr) (int, error) {
	sign := 1
	if u, ok := e.(*ast.Unary); ok && u.Op == ast.OpNeg {
		sign, e = -1, u.X
	}
	lit, ok := e.(*ast.IntLit)
	if !ok {
		return 0, structural(PhaseParse, diag.ThkAnnotationShape, e, "expected an integer literal, got '%s'", format.Expr(e))
	}
	n, err := strconv.Atoi(lit.Text)
	if err != nil {
		return 0, structural(PhaseParse, diag.ThkIndexOutOfRange, lit, "pointer index out of bounds")
	}
	return sign * n, nil
}

func parseDependenceKind(e ast.Expr) (DependenceKind, error) {
	if m, ok := e.(*ast.ImplicitMember); ok {
		switch m.Name {
		case "borrow":
			return Borrow, nil
		case "copy":
			return Copy, nil
		}
	}
	return 0, structural(PhaseParse, diag.ThkAnnotationShape, e, "expected .borrow or .copy, got '%s'", format.Expr(e))
}
