package artdeco

import (
	"context"
	"time"
)

// Decl is a parameter as a Target declares it, before a TypePolicy decides
// which form of its type ends up in the Signature.
type Decl struct {
	Name     string
	Kind     Kind
	TypeText string // Textual type as written, empty when undeclared
	Type     any    // Type already known to the target, nil when it must be resolved
	Default  Option[any]
	Meta     []any // Attached metadata (markers, validators, arbitrary values)
}

// Target is a callable whose parameter list can be introspected.
type Target interface {
	// Name identifies the callable in errors and signals.
	Name() string

	// Decls returns the declared parameters in declaration order.
	Decls() ([]Decl, error)

	// Raw returns the low-level object the declarations came from.
	Raw() any
}

// TypeResolver resolves the declared types of a target's parameters.
// Names missing from the result have no declared type.
type TypeResolver interface {
	ResolveTypes(t Target, decls []Decl) (map[string]any, error)
}

// TypeResolverFunc adapts a function to TypeResolver.
type TypeResolverFunc func(t Target, decls []Decl) (map[string]any, error)

// ResolveTypes calls f.
func (f TypeResolverFunc) ResolveTypes(t Target, decls []Decl) (map[string]any, error) {
	return f(t, decls)
}

// TypePolicy selects how declared types appear in a Signature.
type TypePolicy struct {
	resolve  bool
	resolver TypeResolver
	extras   bool
}

var (
	// RawTypes keeps declared types as their textual form.
	RawTypes = TypePolicy{}

	// ResolvedTypes resolves declared types with the target's own resolver.
	// Targets that do not provide one are resolved against Go's builtin type names.
	ResolvedTypes = TypePolicy{resolve: true}
)

// CustomTypes resolves declared types with r.
func CustomTypes(r TypeResolver) TypePolicy {
	return TypePolicy{resolve: true, resolver: r}
}

// WithExtras returns a copy of the policy that keeps parameter metadata.
func (p TypePolicy) WithExtras() TypePolicy {
	p.extras = true
	return p
}

// Extras reports whether parameter metadata is kept.
func (p TypePolicy) Extras() bool {
	return p.extras
}

func (p TypePolicy) String() string {
	s := "raw"
	switch {
	case p.resolver != nil:
		s = "custom"
	case p.resolve:
		s = "resolved"
	}
	if p.extras {
		s += "+extras"
	}
	return s
}

// Analyze builds the static Signature of t.
// Resolver errors are returned unchanged.
func Analyze(ctx context.Context, t Target, policy TypePolicy) (sig *Signature, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if sig != nil {
			n = sig.Len()
		}
		emitSignatureAnalyzed(ctx, t.Name(), policy.String(), n, time.Since(start), err)
	}()

	decls, err := t.Decls()
	if err != nil {
		return nil, err
	}

	var resolved map[string]any
	if policy.resolve {
		resolved, err = resolverFor(t, policy).ResolveTypes(t, decls)
		if err != nil {
			return nil, err
		}
	}

	params := make([]Param, len(decls))
	for i, d := range decls {
		p := Param{
			Name:    d.Name,
			Kind:    d.Kind,
			Default: d.Default,
		}
		if policy.resolve {
			if v, ok := resolved[d.Name]; ok && v != nil {
				p.Annotation = Some(v)
			}
		} else if d.TypeText != "" {
			p.Annotation = Some[any](d.TypeText)
		}
		if policy.extras && len(d.Meta) > 0 {
			p.Meta = append([]any(nil), d.Meta...)
		}
		params[i] = p
	}

	return NewSignature(t.Name(), params, t.Raw())
}

func resolverFor(t Target, policy TypePolicy) TypeResolver {
	if policy.resolver != nil {
		return policy.resolver
	}
	if r, ok := t.(TypeResolver); ok {
		return r
	}
	return ScopeResolver{}
}
