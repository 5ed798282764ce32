package artdeco

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind classifies how a parameter accepts values.
type Kind int

const (
	PositionalOnly      Kind = iota // f(a, /)
	PositionalOrKeyword             // f(a)
	VarPositional                   // f(*args)
	KeywordOnly                     // f(*, a)
	VarKeyword                      // f(**kwargs)
)

// IsVariadic reports whether the kind collects an unbounded number of values.
func (k Kind) IsVariadic() bool {
	return k == VarPositional || k == VarKeyword
}

// IsPositionable reports whether a non-variadic parameter of this kind can be filled positionally.
func (k Kind) IsPositionable() bool {
	return k == PositionalOnly || k == PositionalOrKeyword
}

// AcceptsKeyword reports whether a parameter of this kind can be named at the call site.
func (k Kind) AcceptsKeyword() bool {
	return k == PositionalOrKeyword || k == KeywordOnly
}

// parseKind maps the tag spelling of a kind to its value.
func parseKind(s string) (Kind, bool) {
	switch s {
	case "", "poskw":
		return PositionalOrKeyword, true
	case "posonly":
		return PositionalOnly, true
	case "kwonly":
		return KeywordOnly, true
	case "varargs":
		return VarPositional, true
	case "varkw":
		return VarKeyword, true
	}
	return 0, false
}
