package artdeco

import (
	"go/token"
	"strings"
)

// Param is the call-independent description of one declared parameter.
// Params are immutable once a Signature is built and are shared by pointer
// between the Signature and every Arg bound against them.
type Param struct {
	Name       string
	Kind       Kind
	Annotation Option[any] // Declared type in the form chosen by the TypePolicy
	Default    Option[any]
	Meta       []any // Attached metadata, populated only by policies WithExtras
}

// HasDefault reports whether the parameter declares a default value.
func (p *Param) HasDefault() bool {
	return p.Default.IsSome()
}

// HasAnnotation reports whether the parameter declares a type.
func (p *Param) HasAnnotation() bool {
	return p.Annotation.IsSome()
}

// IsVariadic reports whether the parameter is *args or **kwargs.
func (p *Param) IsVariadic() bool {
	return p.Kind.IsVariadic()
}

// IsPositionable reports whether the parameter may be filled positionally
// without being part of a var-positional group.
func (p *Param) IsPositionable() bool {
	return p.Kind.IsPositionable()
}

// Signature is the static description of a callable's parameters.
// It is read-only after construction and safe for concurrent use.
type Signature struct {
	name   string
	params []*Param
	byName map[string]*Param
	varPos *Param
	varKw  *Param
	raw    any
}

// NewSignature validates params and builds a Signature.
// raw is the low-level introspected object and is passed through untouched.
func NewSignature(name string, params []Param, raw any) (*Signature, error) {
	s := &Signature{
		name:   name,
		params: make([]*Param, 0, len(params)),
		byName: make(map[string]*Param, len(params)),
		raw:    raw,
	}

	for i := range params {
		p := params[i]
		if !token.IsIdentifier(p.Name) {
			return nil, structuralError("invalid parameter name %q", p.Name)
		}
		if _, dup := s.byName[p.Name]; dup {
			return nil, structuralError("duplicate parameter %q", p.Name)
		}

		switch p.Kind {
		case VarPositional:
			if s.varPos != nil {
				return nil, structuralError("at most one var-positional parameter allowed, got %s and %s", s.varPos.Name, p.Name)
			}
			s.varPos = &p
		case VarKeyword:
			if s.varKw != nil {
				return nil, structuralError("at most one var-keyword parameter allowed, got %s and %s", s.varKw.Name, p.Name)
			}
			s.varKw = &p
		case PositionalOnly, PositionalOrKeyword, KeywordOnly:
		default:
			return nil, structuralError("parameter %s has unknown kind %d", p.Name, int(p.Kind))
		}

		s.params = append(s.params, &p)
		s.byName[p.Name] = &p
	}

	return s, nil
}

// Name returns the name of the callable the signature describes.
func (s *Signature) Name() string {
	return s.name
}

// Params returns the parameters in declaration order.
func (s *Signature) Params() []*Param {
	return append([]*Param(nil), s.params...)
}

// Param looks up a parameter by name.
func (s *Signature) Param(name string) (*Param, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// ByName returns a name to parameter mapping.
func (s *Signature) ByName() map[string]*Param {
	out := make(map[string]*Param, len(s.byName))
	for k, v := range s.byName {
		out[k] = v
	}
	return out
}

// VarPositional returns the *args parameter, or nil.
func (s *Signature) VarPositional() *Param {
	return s.varPos
}

// VarKeyword returns the **kwargs parameter, or nil.
func (s *Signature) VarKeyword() *Param {
	return s.varKw
}

// VariadicNames lists the names of the variadic parameters.
func (s *Signature) VariadicNames() []string {
	var names []string
	if s.varPos != nil {
		names = append(names, s.varPos.Name)
	}
	if s.varKw != nil {
		names = append(names, s.varKw.Name)
	}
	return names
}

// Positionable returns the non-variadic parameters that may be filled
// positionally, in declaration order.
func (s *Signature) Positionable() []*Param {
	var out []*Param
	for _, p := range s.params {
		if p.IsPositionable() {
			out = append(out, p)
		}
	}
	return out
}

// Raw returns the introspected object the signature was built from.
func (s *Signature) Raw() any {
	return s.raw
}

// Len returns the number of declared parameters.
func (s *Signature) Len() int {
	return len(s.params)
}

func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString(s.name)
	b.WriteByte('(')
	for i, p := range s.params {
		if i > 0 {
			b.WriteString(", ")
		}
		switch p.Kind {
		case VarPositional:
			b.WriteByte('*')
		case VarKeyword:
			b.WriteString("**")
		}
		b.WriteString(p.Name)
		if a, ok := p.Annotation.Get(); ok {
			b.WriteString(": ")
			b.WriteString(annotationString(a))
		}
		if d, ok := p.Default.Get(); ok {
			b.WriteString(" = ")
			b.WriteString(valueString(d))
		}
	}
	b.WriteByte(')')
	return b.String()
}
