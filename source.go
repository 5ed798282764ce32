package artdeco

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Source is a Target read from a Go function or method declaration.
//
// Parameters map to positional-or-keyword parameters in order. A leading
// context.Context is skipped, a final ...T parameter is var-positional and
// a final artdeco.Kwargs parameter is var-keyword. Unnamed and blank
// parameters are named argN after their position.
type Source struct {
	pattern  string
	name     string
	dir      string
	receiver bool
	defaults map[string]any

	once   sync.Once
	loaded *sourceFunc
	err    error
}

type sourceFunc struct {
	pkg   *packages.Package
	decl  *ast.FuncDecl
	sig   *types.Signature
	decls []Decl
	spans []span // Source span of each decl's type expression
}

type span struct {
	pos, end token.Pos
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// IncludeReceiver makes a method's receiver the leading positional-only parameter.
func IncludeReceiver() SourceOption {
	return func(s *Source) {
		s.receiver = true
	}
}

// InDir loads the package pattern relative to dir.
func InDir(dir string) SourceOption {
	return func(s *Source) {
		s.dir = dir
	}
}

// WithDefaults gives parameters default values. Go declarations carry none.
func WithDefaults(defaults map[string]any) SourceOption {
	return func(s *Source) {
		for k, v := range defaults {
			s.defaults[k] = v
		}
	}
}

// FromSource returns the Target of function name in the package matching
// pattern. Methods are named Type.Method; receivers are excluded unless
// IncludeReceiver is given.
func FromSource(pattern, name string, opts ...SourceOption) *Source {
	s := &Source{
		pattern:  pattern,
		name:     name,
		defaults: make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Target.
func (s *Source) Name() string {
	return s.name
}

// Decls implements Target.
func (s *Source) Decls() ([]Decl, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return append([]Decl(nil), f.decls...), nil
}

// Raw returns the *types.Signature of the function, nil when it did not load.
func (s *Source) Raw() any {
	f, err := s.load()
	if err != nil || f.sig == nil {
		return nil
	}
	return f.sig
}

// ResolveTypes implements TypeResolver using the type checker's view of the
// package. A type error inside a parameter's type fails resolution.
func (s *Source) ResolveTypes(_ Target, decls []Decl) (map[string]any, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, terr := range f.pkg.TypeErrors {
		for i, sp := range f.spans {
			if terr.Pos >= sp.pos && terr.Pos < sp.end {
				return nil, &TypeResolutionError{
					Target: s.name,
					Param:  f.decls[i].Name,
					Type:   f.decls[i].TypeText,
					Cause:  errors.New(terr.Msg),
				}
			}
		}
	}

	out := make(map[string]any, len(decls))
	for _, d := range decls {
		if d.Type == nil {
			continue
		}
		if t, ok := d.Type.(types.Type); ok && !valid(t) {
			return nil, &TypeResolutionError{Target: s.name, Param: d.Name, Type: d.TypeText, Cause: errors.New("invalid type")}
		}
		out[d.Name] = d.Type
	}
	return out, nil
}

func valid(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return !ok || b.Kind() != types.Invalid
}

func (s *Source) load() (*sourceFunc, error) {
	s.once.Do(func() {
		s.loaded, s.err = s.doLoad()
	})
	return s.loaded, s.err
}

func (s *Source) doLoad() (*sourceFunc, error) {
	cfg := &packages.Config{Mode: loadMode, Dir: s.dir}
	pkgs, err := packages.Load(cfg, s.pattern)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.pattern, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("load %s: matched %d packages, want 1", s.pattern, len(pkgs))
	}
	pkg := pkgs[0]
	if len(pkg.Syntax) == 0 {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("load %s: %v", s.pattern, pkg.Errors[0])
		}
		return nil, fmt.Errorf("load %s: no Go files", s.pattern)
	}

	recv, fn, isMethod := strings.Cut(s.name, ".")
	if !isMethod {
		fn, recv = recv, ""
	}
	decl := findFunc(pkg.Syntax, recv, fn)
	if decl == nil {
		return nil, fmt.Errorf("%s: function %s not found", s.pattern, s.name)
	}

	f := &sourceFunc{pkg: pkg, decl: decl}
	if pkg.TypesInfo != nil {
		if obj, ok := pkg.TypesInfo.Defs[decl.Name].(*types.Func); ok {
			f.sig, _ = obj.Type().(*types.Signature)
		}
	}

	if s.receiver && decl.Recv != nil && len(decl.Recv.List) == 1 {
		field := decl.Recv.List[0]
		name := "recv"
		if len(field.Names) == 1 && field.Names[0].Name != "_" {
			name = field.Names[0].Name
		}
		d := Decl{Name: name, Kind: PositionalOnly, TypeText: types.ExprString(field.Type)}
		if f.sig != nil && f.sig.Recv() != nil {
			d.Type = f.sig.Recv().Type()
		}
		f.add(d, field.Type)
	}

	var ptypes *types.Tuple
	if f.sig != nil {
		ptypes = f.sig.Params()
	}
	fields := decl.Type.Params.List
	idx := 0
	for fi, field := range fields {
		names := field.Names
		if len(names) == 0 {
			names = []*ast.Ident{nil}
		}
		last := fi == len(fields)-1
		for _, id := range names {
			pos := idx
			idx++
			var typ types.Type
			if ptypes != nil && pos < ptypes.Len() {
				typ = ptypes.At(pos).Type()
			}
			if pos == 0 && isContext(typ, field.Type) {
				continue
			}

			d := Decl{Kind: PositionalOrKeyword, TypeText: types.ExprString(field.Type)}
			if id == nil || id.Name == "_" {
				d.Name = fmt.Sprintf("arg%d", pos)
			} else {
				d.Name = id.Name
			}
			if typ != nil {
				d.Type = typ
			}
			switch {
			case last && isEllipsis(field.Type):
				d.Kind = VarPositional
				d.TypeText = types.ExprString(field.Type.(*ast.Ellipsis).Elt)
				if sl, ok := typ.(*types.Slice); ok {
					d.Type = sl.Elem()
				}
			case last && isKwargs(typ, field.Type):
				d.Kind = VarKeyword
				d.TypeText = ""
				d.Type = nil
			}
			if v, ok := s.defaults[d.Name]; ok && !d.Kind.IsVariadic() {
				d.Default = Some(v)
			}
			f.add(d, field.Type)
		}
	}
	return f, nil
}

func (f *sourceFunc) add(d Decl, typeExpr ast.Expr) {
	f.decls = append(f.decls, d)
	f.spans = append(f.spans, span{pos: typeExpr.Pos(), end: typeExpr.End()})
}

func findFunc(files []*ast.File, recv, name string) *ast.FuncDecl {
	for _, file := range files {
		for _, d := range file.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Name.Name != name {
				continue
			}
			if recvName(fd) == recv {
				return fd
			}
		}
	}
	return nil
}

func recvName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	expr := fd.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch x := expr.(type) {
	case *ast.IndexExpr:
		expr = x.X
	case *ast.IndexListExpr:
		expr = x.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func isEllipsis(expr ast.Expr) bool {
	_, ok := expr.(*ast.Ellipsis)
	return ok
}

func isContext(t types.Type, expr ast.Expr) bool {
	if named, ok := t.(*types.Named); ok {
		obj := named.Obj()
		return obj.Pkg() != nil && obj.Pkg().Path() == "context" && obj.Name() == "Context"
	}
	return types.ExprString(expr) == "context.Context"
}

func isKwargs(t types.Type, expr ast.Expr) bool {
	if named, ok := t.(*types.Named); ok {
		obj := named.Obj()
		return obj.Pkg() != nil && obj.Pkg().Path() == modulePath && obj.Name() == "Kwargs"
	}
	text := types.ExprString(expr)
	return text == "artdeco.Kwargs" || text == "Kwargs"
}

const modulePath = "github.com/zoobzio/artdeco"
