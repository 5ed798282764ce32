package artdeco

import (
	"reflect"
	"sync"
)

// Declared is a Target built from an explicit parameter list.
// It is the declarative way to describe a callable whose parameters cannot
// be read from Go source or a params struct.
type Declared struct {
	name  string
	decls []Decl

	mu    sync.RWMutex
	scope map[string]reflect.Type
}

// DeclOption configures a declared parameter.
type DeclOption func(*Decl)

// Declare builds a Target named name from decls.
func Declare(name string, decls ...Decl) *Declared {
	return &Declared{
		name:  name,
		decls: decls,
		scope: make(map[string]reflect.Type),
	}
}

// Scope makes a type name visible to ResolvedTypes for this target.
// Returns the target for chaining.
func (d *Declared) Scope(name string, t reflect.Type) *Declared {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scope[name] = t
	return d
}

// Name implements Target.
func (d *Declared) Name() string {
	return d.name
}

// Decls implements Target.
func (d *Declared) Decls() ([]Decl, error) {
	return append([]Decl(nil), d.decls...), nil
}

// Raw returns the declared parameter list.
func (d *Declared) Raw() any {
	return d.decls
}

// ResolveTypes resolves textual types against Go's builtin names and the target's scope.
func (d *Declared) ResolveTypes(t Target, decls []Decl) (map[string]any, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return ScopeResolver{Names: d.scope}.ResolveTypes(t, decls)
}

func decl(name string, kind Kind, opts []DeclOption) Decl {
	d := Decl{Name: name, Kind: kind}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Pos declares a positional-or-keyword parameter.
func Pos(name string, opts ...DeclOption) Decl {
	return decl(name, PositionalOrKeyword, opts)
}

// PosOnly declares a positional-only parameter.
func PosOnly(name string, opts ...DeclOption) Decl {
	return decl(name, PositionalOnly, opts)
}

// KwOnly declares a keyword-only parameter.
func KwOnly(name string, opts ...DeclOption) Decl {
	return decl(name, KeywordOnly, opts)
}

// VarArgs declares the var-positional parameter.
func VarArgs(name string, opts ...DeclOption) Decl {
	return decl(name, VarPositional, opts)
}

// VarKwargs declares the var-keyword parameter.
func VarKwargs(name string, opts ...DeclOption) Decl {
	return decl(name, VarKeyword, opts)
}

// Default sets the parameter's default value. A nil default is a real default.
func Default(v any) DeclOption {
	return func(d *Decl) {
		d.Default = Some(v)
	}
}

// TypeName declares the parameter's type by name only, leaving resolution to the policy.
func TypeName(text string) DeclOption {
	return func(d *Decl) {
		d.TypeText = text
	}
}

// Typed declares the parameter's type as T.
func Typed[T any]() DeclOption {
	return func(d *Decl) {
		t := reflect.TypeFor[T]()
		d.TypeText = t.String()
		d.Type = t
	}
}

// With attaches metadata to the parameter. Markers produced by Hacker,
// SpecHacker and WideValidator are picked up by HackArgs.
func With(meta ...any) DeclOption {
	return func(d *Decl) {
		d.Meta = append(d.Meta, meta...)
	}
}
