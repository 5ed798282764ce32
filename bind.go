package artdeco

import "fmt"

// Bind binds one invocation's positional and keyword values onto sig.
//
// The resulting arguments are ordered as: parameters filled positionally,
// unfilled positional-only parameters using their defaults, var-positional
// components, keyword values in call order, and finally unfilled
// keyword-capable parameters using their defaults. Defaults of
// positional-only parameters are replayed positionally, every other default
// is replayed as a keyword.
//
// Bind never inspects values against declared types.
func Bind(sig *Signature, args []any, kwargs Kwargs) (*Bound, error) {
	supplied := make(map[string]bool, len(kwargs))
	for _, kw := range kwargs {
		if supplied[kw.Name] {
			return nil, arity(sig, "keyword argument repeated", kw.Name)
		}
		supplied[kw.Name] = true
	}

	// Positionable parameters that are not claimed by a keyword value.
	var named []*Param
	for _, p := range sig.params {
		if !p.IsPositionable() {
			continue
		}
		if p.Kind == PositionalOrKeyword && supplied[p.Name] {
			continue
		}
		named = append(named, p)
	}

	n := min(len(named), len(args))
	b := newBound(sig, len(args)+len(kwargs)+len(sig.params))
	filled := make(map[string]bool, len(sig.params))
	var missing []string

	for i := 0; i < n; i++ {
		if err := b.add(&Arg{Name: named[i].Name, Value: args[i], Param: named[i]}); err != nil {
			return nil, err
		}
		filled[named[i].Name] = true
	}

	for _, p := range named[n:] {
		if p.Kind != PositionalOnly {
			continue
		}
		d, ok := p.Default.Get()
		if !ok {
			missing = append(missing, p.Name)
			continue
		}
		if err := b.add(&Arg{Name: p.Name, Value: d, Param: p}); err != nil {
			return nil, err
		}
		filled[p.Name] = true
	}

	if extra := args[n:]; len(extra) > 0 {
		if sig.varPos == nil {
			return nil, arity(sig, fmt.Sprintf("takes %d positional arguments but %d were given", len(named), len(args)))
		}
		for i, v := range extra {
			if err := b.add(&Arg{Name: varArgName(sig.varPos, i), Value: v, Param: sig.varPos}); err != nil {
				return nil, err
			}
		}
	}

	for _, kw := range kwargs {
		p, ok := sig.byName[kw.Name]
		switch {
		case ok && p.Kind.AcceptsKeyword():
			filled[p.Name] = true
		case sig.varKw != nil:
			p = sig.varKw
		default:
			return nil, arity(sig, "unexpected keyword argument", kw.Name)
		}
		if err := b.add(&Arg{Name: kw.Name, Value: kw.Value, Keyword: true, Param: p}); err != nil {
			return nil, err
		}
	}

	for _, p := range sig.params {
		if p.IsVariadic() || p.Kind == PositionalOnly || filled[p.Name] {
			continue
		}
		d, ok := p.Default.Get()
		if !ok {
			missing = append(missing, p.Name)
			continue
		}
		if err := b.add(&Arg{Name: p.Name, Value: d, Keyword: true, Param: p}); err != nil {
			return nil, err
		}
	}

	if len(missing) > 0 {
		return nil, arity(sig, "missing required arguments", missing...)
	}
	return b, nil
}

// varArgName synthesizes the name of the i-th var-positional component.
// The leading '*' keeps it out of the identifier space used by declared names.
func varArgName(p *Param, i int) string {
	return fmt.Sprintf("*%s[%d]", p.Name, i)
}

func arity(sig *Signature, msg string, names ...string) error {
	e := newArityError(msg, names...)
	e.Target = sig.Name()
	return e
}
