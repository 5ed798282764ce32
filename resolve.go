package artdeco

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
)

// builtinScope holds Go's predeclared type names.
var builtinScope = map[string]reflect.Type{
	"bool":       reflect.TypeFor[bool](),
	"string":     reflect.TypeFor[string](),
	"int":        reflect.TypeFor[int](),
	"int8":       reflect.TypeFor[int8](),
	"int16":      reflect.TypeFor[int16](),
	"int32":      reflect.TypeFor[int32](),
	"int64":      reflect.TypeFor[int64](),
	"uint":       reflect.TypeFor[uint](),
	"uint8":      reflect.TypeFor[uint8](),
	"uint16":     reflect.TypeFor[uint16](),
	"uint32":     reflect.TypeFor[uint32](),
	"uint64":     reflect.TypeFor[uint64](),
	"uintptr":    reflect.TypeFor[uintptr](),
	"float32":    reflect.TypeFor[float32](),
	"float64":    reflect.TypeFor[float64](),
	"complex64":  reflect.TypeFor[complex64](),
	"complex128": reflect.TypeFor[complex128](),
	"byte":       reflect.TypeFor[byte](),
	"rune":       reflect.TypeFor[rune](),
	"any":        reflect.TypeFor[any](),
	"error":      reflect.TypeFor[error](),
}

// ScopeResolver resolves textual Go type expressions to reflect.Types.
// Identifiers are looked up in Names first, then in Go's predeclared types.
// Pointer, slice, array, map and empty interface expressions are composed
// from their resolved parts.
type ScopeResolver struct {
	Names map[string]reflect.Type
}

// ResolveTypes implements TypeResolver.
// Declarations that already carry a type keep it.
func (r ScopeResolver) ResolveTypes(t Target, decls []Decl) (map[string]any, error) {
	out := make(map[string]any, len(decls))
	for _, d := range decls {
		if d.Type != nil {
			out[d.Name] = d.Type
			continue
		}
		if d.TypeText == "" {
			continue
		}
		rt, err := r.Resolve(d.TypeText)
		if err != nil {
			return nil, &TypeResolutionError{Target: t.Name(), Param: d.Name, Type: d.TypeText, Cause: err}
		}
		out[d.Name] = rt
	}
	return out, nil
}

// Resolve resolves a single type expression.
func (r ScopeResolver) Resolve(text string) (reflect.Type, error) {
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return nil, fmt.Errorf("parse type: %w", err)
	}
	return r.typeOf(expr)
}

func (r ScopeResolver) lookup(name string) (reflect.Type, error) {
	if t, ok := r.Names[name]; ok {
		return t, nil
	}
	if t, ok := builtinScope[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("undefined: %s", name)
}

func (r ScopeResolver) typeOf(expr ast.Expr) (reflect.Type, error) {
	switch x := expr.(type) {
	case *ast.Ident:
		return r.lookup(x.Name)

	case *ast.SelectorExpr:
		pkg, ok := x.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("unsupported qualifier in %s", types.ExprString(x))
		}
		return r.lookup(pkg.Name + "." + x.Sel.Name)

	case *ast.ParenExpr:
		return r.typeOf(x.X)

	case *ast.StarExpr:
		elem, err := r.typeOf(x.X)
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil

	case *ast.ArrayType:
		elem, err := r.typeOf(x.Elt)
		if err != nil {
			return nil, err
		}
		if x.Len == nil {
			return reflect.SliceOf(elem), nil
		}
		lit, ok := x.Len.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return nil, fmt.Errorf("unsupported array length in %s", types.ExprString(x))
		}
		n, err := strconv.Atoi(lit.Value)
		if err != nil {
			return nil, fmt.Errorf("array length: %w", err)
		}
		return reflect.ArrayOf(n, elem), nil

	case *ast.MapType:
		key, err := r.typeOf(x.Key)
		if err != nil {
			return nil, err
		}
		if !key.Comparable() {
			return nil, fmt.Errorf("invalid map key type %s", key)
		}
		val, err := r.typeOf(x.Value)
		if err != nil {
			return nil, err
		}
		return reflect.MapOf(key, val), nil

	case *ast.InterfaceType:
		if x.Methods == nil || len(x.Methods.List) == 0 {
			return builtinScope["any"], nil
		}
	}
	return nil, fmt.Errorf("unsupported type expression %s", types.ExprString(expr))
}
