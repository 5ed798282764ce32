package artdeco

import (
	"fmt"
	"reflect"
	"strings"
)

// Arg is one argument of a single invocation, bound against a declared Param.
// Value is the only mutable part and is rewritten in place by processors.
type Arg struct {
	Name    string
	Value   any
	Keyword bool   // Replayed as a keyword argument on reconstruction
	Param   *Param // Originating parameter, shared by all members of a variadic group
}

// IsDefault reports whether Value is identical to the parameter's default.
// Comparable values compare with ==, reference values (slices, maps, pointers,
// funcs, chans) compare by identity.
func (a *Arg) IsDefault() bool {
	d, ok := a.Param.Default.Get()
	if !ok {
		return false
	}
	return identical(a.Value, d)
}

func (a *Arg) String() string {
	style := "positional"
	if a.Keyword {
		style = "keyword"
	}
	return fmt.Sprintf("%s = %s (%s, param %s)", a.Name, valueString(a.Value), style, a.Param.Name)
}

// identical approximates object identity for Go values.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	}
	if ra.Comparable() && rb.Comparable() {
		return ra.Equal(rb)
	}
	return false
}

// Bound is the binding of one invocation's values onto a Signature.
// Args are kept in construction order, which reconstructs the call.
// A Bound is owned by a single invocation and is not safe for concurrent use.
type Bound struct {
	sig       *Signature
	args      []*Arg
	index     map[string]int
	varArgs   *VariadicGroup
	varKwargs *VariadicGroup
}

func newBound(sig *Signature, capacity int) *Bound {
	return &Bound{
		sig:   sig,
		args:  make([]*Arg, 0, capacity),
		index: make(map[string]int, capacity),
	}
}

// add appends an argument, keeping names injective and recording group membership.
func (b *Bound) add(arg *Arg) error {
	if _, dup := b.index[arg.Name]; dup {
		return fmt.Errorf("%w: %q bound twice", ErrNameCollision, arg.Name)
	}
	pos := len(b.args)
	b.args = append(b.args, arg)
	b.index[arg.Name] = pos

	switch arg.Param.Kind {
	case VarPositional:
		if b.varArgs == nil {
			b.varArgs = &VariadicGroup{Param: arg.Param, bound: b}
		}
		b.varArgs.members = append(b.varArgs.members, pos)
	case VarKeyword:
		if b.varKwargs == nil {
			b.varKwargs = &VariadicGroup{Param: arg.Param, bound: b}
		}
		b.varKwargs.members = append(b.varKwargs.members, pos)
	}
	return nil
}

// Signature returns the static signature the call was bound against.
func (b *Bound) Signature() *Signature {
	return b.sig
}

// Args returns the bound arguments in construction order.
func (b *Bound) Args() []*Arg {
	return append([]*Arg(nil), b.args...)
}

// Len returns the number of bound arguments.
func (b *Bound) Len() int {
	return len(b.args)
}

// Arg looks up a bound argument by name.
func (b *Bound) Arg(name string) (*Arg, bool) {
	i, ok := b.index[name]
	if !ok {
		return nil, false
	}
	return b.args[i], true
}

// ByName returns a name to argument mapping.
func (b *Bound) ByName() map[string]*Arg {
	out := make(map[string]*Arg, len(b.args))
	for _, a := range b.args {
		out[a.Name] = a
	}
	return out
}

// CalledAsKeyword lists the names replayed as keyword arguments.
func (b *Bound) CalledAsKeyword() []string {
	var names []string
	for _, a := range b.args {
		if a.Keyword {
			names = append(names, a.Name)
		}
	}
	return names
}

// VarArgs returns the var-positional group, or nil when no values were collected.
func (b *Bound) VarArgs() *VariadicGroup {
	return b.varArgs
}

// VarKwargs returns the var-keyword group, or nil when no values were collected.
func (b *Bound) VarKwargs() *VariadicGroup {
	return b.varKwargs
}

// Reconstruct rebuilds positional and keyword arguments from the current values.
func (b *Bound) Reconstruct() ([]any, Kwargs) {
	args := make([]any, 0, len(b.args))
	var kwargs Kwargs
	for _, a := range b.args {
		if a.Keyword {
			kwargs = append(kwargs, Kwarg{Name: a.Name, Value: a.Value})
		} else {
			args = append(args, a.Value)
		}
	}
	return args, kwargs
}

func (b *Bound) String() string {
	var sb strings.Builder
	for _, a := range b.args {
		sb.WriteString(a.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// VariadicGroup ties the components collected by a variadic parameter to
// the single Param they originate from.
type VariadicGroup struct {
	Param   *Param
	members []int
	bound   *Bound
}

// Components returns the member arguments in call order.
func (g *VariadicGroup) Components() []*Arg {
	out := make([]*Arg, len(g.members))
	for i, m := range g.members {
		out[i] = g.bound.args[m]
	}
	return out
}

// Len returns the number of components.
func (g *VariadicGroup) Len() int {
	return len(g.members)
}

// Combined returns a synthesized argument named after the variadic parameter.
// Its value is a []any for *args and Kwargs for **kwargs.
func (g *VariadicGroup) Combined() *Arg {
	comps := g.Components()
	if g.Param.Kind == VarPositional {
		values := make([]any, len(comps))
		for i, c := range comps {
			values[i] = c.Value
		}
		return &Arg{Name: g.Param.Name, Value: values, Param: g.Param}
	}
	kwargs := make(Kwargs, len(comps))
	for i, c := range comps {
		kwargs[i] = Kwarg{Name: c.Name, Value: c.Value}
	}
	return &Arg{Name: g.Param.Name, Value: kwargs, Keyword: true, Param: g.Param}
}

// Distribute writes a processed combined value back onto the components.
// *args groups accept any slice or array of matching length; **kwargs groups
// accept Kwargs or a string-keyed map holding exactly the component names.
func (g *VariadicGroup) Distribute(v any) error {
	comps := g.Components()
	if g.Param.Kind == VarPositional {
		values, ok := sliceValues(v)
		if !ok {
			return fmt.Errorf("%w: %s expects a sequence, got %T", ErrVariadicShape, g.Param.Name, v)
		}
		if len(values) != len(comps) {
			return fmt.Errorf("%w: %s has %d components, processor returned %d", ErrVariadicShape, g.Param.Name, len(comps), len(values))
		}
		for i, c := range comps {
			c.Value = values[i]
		}
		return nil
	}

	mapped, ok := keyedValues(v)
	if !ok {
		return fmt.Errorf("%w: %s expects a mapping, got %T", ErrVariadicShape, g.Param.Name, v)
	}
	if len(mapped) != len(comps) {
		return fmt.Errorf("%w: %s has %d components, processor returned %d", ErrVariadicShape, g.Param.Name, len(comps), len(mapped))
	}
	for _, c := range comps {
		nv, ok := mapped[c.Name]
		if !ok {
			return fmt.Errorf("%w: %s result is missing %q", ErrVariadicShape, g.Param.Name, c.Name)
		}
		c.Value = nv
	}
	return nil
}

func sliceValues(v any) ([]any, bool) {
	if vs, ok := v.([]any); ok {
		return vs, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func keyedValues(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case Kwargs:
		return x.Map(), true
	case map[string]any:
		return x, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
