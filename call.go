package artdeco

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Kwarg is one keyword argument.
type Kwarg struct {
	Name  string
	Value any
}

// Kwargs is an ordered list of keyword arguments.
// Order is preserved through binding and reconstruction.
type Kwargs []Kwarg

// KW builds a Kwarg.
func KW(name string, value any) Kwarg {
	return Kwarg{Name: name, Value: value}
}

// Args is a convenience for building a positional argument list.
func Args(values ...any) []any {
	return values
}

// Get returns the value stored under name.
func (k Kwargs) Get(name string) (any, bool) {
	for _, kw := range k {
		if kw.Name == name {
			return kw.Value, true
		}
	}
	return nil, false
}

// Has reports whether name is present.
func (k Kwargs) Has(name string) bool {
	_, ok := k.Get(name)
	return ok
}

// Names returns the keyword names in order.
func (k Kwargs) Names() []string {
	names := make([]string, len(k))
	for i, kw := range k {
		names[i] = kw.Name
	}
	return names
}

// Set replaces the value under name, or appends it.
func (k Kwargs) Set(name string, value any) Kwargs {
	for i := range k {
		if k[i].Name == name {
			k[i].Value = value
			return k
		}
	}
	return append(k, Kwarg{Name: name, Value: value})
}

// Map copies the keyword arguments into a map.
func (k Kwargs) Map() map[string]any {
	m := make(map[string]any, len(k))
	for _, kw := range k {
		m[kw.Name] = kw.Value
	}
	return m
}

func (k Kwargs) String() string {
	parts := make([]string, len(k))
	for i, kw := range k {
		parts[i] = kw.Name + "=" + valueString(kw.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// valueString renders a value for signatures, dumps and messages.
func valueString(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = valueString(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Kwargs:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}

// annotationString renders a declared type.
func annotationString(a any) string {
	switch x := a.(type) {
	case string:
		return x
	case reflect.Type:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", a)
}
