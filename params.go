package artdeco

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/zoobzio/sentinel"
	"gopkg.in/yaml.v3"
)

func init() {
	sentinel.Tag("arg")
	sentinel.Tag("default")
	sentinel.Tag("hack")
	sentinel.Tag("check")
	sentinel.Tag("hash")
	sentinel.Tag("mask")
	sentinel.Tag("redact")
}

// paramField maps a declared parameter to the struct field holding it.
type paramField struct {
	name  string
	kind  Kind
	index []int
	typ   reflect.Type // Field type
}

// Params is a Target read from the exported fields of a params struct.
//
// Field tags:
//
//	arg:"name[,posonly|kwonly|varargs|varkw]"  parameter name and kind, "-" skips the field
//	default:"<yaml>"                           default value, decoded into the field type
//	hack:"upper,trim"                          registered transforms, applied in order
//	check:"ordered"                            registered validators
//	hash:"sha256"                              built-in Hash transform
//	mask:"email"                               built-in Mask transform
//	redact:"***"                               built-in Redact transform
//
// Untagged fields are positional-or-keyword parameters named after the
// field with a lower-case initial. varargs fields must be slices, varkw
// fields Kwargs or string-keyed maps.
type Params[P any] struct {
	once   sync.Once
	meta   sentinel.Metadata
	decls  []Decl
	fields []paramField
	err    error
}

// ParamsOf returns the Target of params struct P.
// Repeated calls return the same target, so signatures built from it are cached.
func ParamsOf[P any]() *Params[P] {
	key := reflect.TypeFor[P]()
	paramsMu.Lock()
	defer paramsMu.Unlock()
	if t, ok := paramsTargets[key]; ok {
		return t.(*Params[P])
	}
	t := &Params[P]{}
	paramsTargets[key] = t
	return t
}

var (
	paramsTargets = make(map[reflect.Type]any)
	paramsMu      sync.Mutex
)

func (t *Params[P]) load() error {
	t.once.Do(func() {
		if reflect.TypeFor[P]().Kind() != reflect.Struct {
			t.err = fmt.Errorf("%w: %s is not a struct", ErrInvalidTag, reflect.TypeFor[P]())
			return
		}
		t.meta = sentinel.Scan[P]()
		for _, field := range t.meta.Fields {
			d, pf, skip, err := declFromField(reflect.TypeFor[P](), field)
			if err != nil {
				t.err = err
				return
			}
			if skip {
				continue
			}
			t.decls = append(t.decls, d)
			t.fields = append(t.fields, pf)
		}
	})
	return t.err
}

// Name implements Target.
func (t *Params[P]) Name() string {
	return reflect.TypeFor[P]().String()
}

// Decls implements Target.
func (t *Params[P]) Decls() ([]Decl, error) {
	if err := t.load(); err != nil {
		return nil, err
	}
	return append([]Decl(nil), t.decls...), nil
}

// Raw returns the sentinel metadata of P.
func (t *Params[P]) Raw() any {
	_ = t.load()
	return t.meta
}

// ResolveTypes implements TypeResolver. Field types are always known.
func (t *Params[P]) ResolveTypes(_ Target, decls []Decl) (map[string]any, error) {
	out := make(map[string]any, len(decls))
	for _, d := range decls {
		if d.Type != nil {
			out[d.Name] = d.Type
		}
	}
	return out, nil
}

// New builds a P from a call bound against the target's signature.
func (t *Params[P]) New(b *Bound) (P, error) {
	var p P
	if err := t.load(); err != nil {
		return p, err
	}
	byName := make(map[string]paramField, len(t.fields))
	for _, f := range t.fields {
		byName[f.name] = f
	}

	rv := reflect.ValueOf(&p).Elem()
	for _, a := range b.args {
		f, ok := byName[a.Param.Name]
		if !ok {
			return p, fmt.Errorf("%w: %q has no field", ErrUnknownArgument, a.Param.Name)
		}
		field := rv.FieldByIndex(f.index)
		var err error
		switch f.kind {
		case VarPositional:
			elem := reflect.New(f.typ.Elem()).Elem()
			if err = assign(elem, a.Value); err == nil {
				field.Set(reflect.Append(field, elem))
			}
		case VarKeyword:
			err = assignKeyword(field, a.Name, a.Value)
		default:
			err = assign(field, a.Value)
		}
		if err != nil {
			return p, &ArgError{Arg: a.Name, Cause: err}
		}
	}
	return p, nil
}

func declFromField(owner reflect.Type, field sentinel.FieldMetadata) (Decl, paramField, bool, error) {
	name := lowerInitial(field.Name)
	kind := PositionalOrKeyword

	if tag, ok := field.Tags["arg"]; ok {
		if tag == "-" {
			return Decl{}, paramField{}, true, nil
		}
		n, opt, _ := strings.Cut(tag, ",")
		if n != "" {
			name = n
		}
		k, ok := parseKind(opt)
		if !ok {
			return Decl{}, paramField{}, false, newConfigError(ErrInvalidTag, field.Name, tag)
		}
		kind = k
	}

	d := Decl{
		Name:     name,
		Kind:     kind,
		TypeText: field.Type,
		Type:     field.ReflectType,
	}
	pf := paramField{name: name, kind: kind, index: field.Index, typ: field.ReflectType}

	switch kind {
	case VarPositional:
		if field.ReflectType.Kind() != reflect.Slice {
			return Decl{}, paramField{}, false, newConfigError(ErrInvalidTag, field.Name, "varargs needs a slice")
		}
		d.Type = field.ReflectType.Elem()
		d.TypeText = d.Type.(reflect.Type).String()
	case VarKeyword:
		rt := field.ReflectType
		if rt != kwargsType && (rt.Kind() != reflect.Map || rt.Key().Kind() != reflect.String) {
			return Decl{}, paramField{}, false, newConfigError(ErrInvalidTag, field.Name, "varkw needs Kwargs or a string-keyed map")
		}
		if rt != kwargsType {
			d.Type = rt.Elem()
			d.TypeText = rt.Elem().String()
		}
	}

	// sentinel drops empty tag values, and default:"" is a real default.
	if raw, ok := owner.FieldByIndex(field.Index).Tag.Lookup("default"); ok {
		if kind.IsVariadic() {
			return Decl{}, paramField{}, false, newConfigError(ErrInvalidTag, field.Name, "variadic parameters take no default")
		}
		v := reflect.New(field.ReflectType)
		if err := yaml.Unmarshal([]byte(raw), v.Interface()); err != nil {
			return Decl{}, paramField{}, false, fmt.Errorf("%w: %w", newConfigError(ErrInvalidTag, field.Name, raw), err)
		}
		d.Default = Some(v.Elem().Interface())
	}

	meta, err := tagMeta(field)
	if err != nil {
		return Decl{}, paramField{}, false, err
	}
	d.Meta = meta
	return d, pf, false, nil
}

// tagMeta turns transform and check tags into markers.
func tagMeta(field sentinel.FieldMetadata) ([]any, error) {
	var meta []any
	var hacks []*Hack

	if names, ok := field.Tags["hack"]; ok {
		for _, n := range splitList(names) {
			h, ok := lookupHack(n)
			if !ok {
				return nil, newConfigError(ErrUnknownHack, field.Name, n)
			}
			hacks = append(hacks, h)
		}
	}
	if v, ok := field.Tags["hash"]; ok {
		if !IsValidHashAlgo(HashAlgo(v)) {
			return nil, newConfigError(ErrInvalidTag, field.Name, v)
		}
		hacks = append(hacks, Hash(HashAlgo(v)))
	}
	if v, ok := field.Tags["mask"]; ok {
		if !IsValidMaskType(MaskType(v)) {
			return nil, newConfigError(ErrInvalidTag, field.Name, v)
		}
		hacks = append(hacks, Mask(MaskType(v)))
	}
	if v, ok := field.Tags["redact"]; ok {
		hacks = append(hacks, Redact(v))
	}
	switch len(hacks) {
	case 0:
	case 1:
		meta = append(meta, hacks[0])
	default:
		meta = append(meta, Chain(hacks...))
	}

	if names, ok := field.Tags["check"]; ok {
		for _, n := range splitList(names) {
			v, ok := lookupValidator(n)
			if !ok {
				return nil, newConfigError(ErrUnknownHack, field.Name, n)
			}
			meta = append(meta, v)
		}
	}
	return meta, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// lowerInitial lower-cases the leading capital run of a Go field name:
// Name -> name, ID -> id, URLPath -> urlPath.
func lowerInitial(s string) string {
	r := []rune(s)
	for i := range r {
		if !unicode.IsUpper(r[i]) {
			break
		}
		if i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// Constructor builds a P from a call.
type Constructor[P any] func(ctx context.Context, args []any, kwargs Kwargs) (P, error)

// Construct returns a constructor for params struct P whose arguments are
// transformed and checked according to P's tags and table.
func Construct[P any](table *Table, opts ...WrapOption) (Constructor[P], error) {
	target := ParamsOf[P]()
	cfg := newConfig(opts)
	build := func(ctx context.Context, args []any, kwargs Kwargs) (any, error) {
		sig, err := Cached(ctx, target, cfg.policy)
		if err != nil {
			return nil, err
		}
		b, err := Bind(sig, args, kwargs)
		if err != nil {
			return nil, err
		}
		return target.New(b)
	}

	fn, err := HackArgs(target, build, table, opts...)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, args []any, kwargs Kwargs) (P, error) {
		v, err := fn(ctx, args, kwargs)
		if err != nil {
			var zero P
			return zero, err
		}
		return v.(P), nil
	}, nil
}
