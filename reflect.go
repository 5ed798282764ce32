package artdeco

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
	kwargsType  = reflect.TypeFor[Kwargs]()
)

// Reflect adapts a Go function to Func using sig to bind reconstructed calls.
//
// The function may take a leading context.Context. Its remaining parameters
// follow sig's declaration order, except that the var-positional parameter
// maps to the Go variadic parameter, which is always last. A var-keyword
// parameter maps to a Kwargs or string-keyed map parameter. The function
// may return nothing, a value, an error, or a value and an error.
func Reflect(sig *Signature, fn any) (Func, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %T is not a function", ErrCallShape, fn)
	}
	ft := fv.Type()

	offset := 0
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		offset = 1
	}
	if got, want := ft.NumIn()-offset, sig.Len(); got != want {
		return nil, fmt.Errorf("%w: %s declares %d parameters, %s takes %d", ErrCallShape, sig.Name(), want, ft, got)
	}
	if (sig.varPos != nil) != ft.IsVariadic() {
		return nil, fmt.Errorf("%w: %s variadic mismatch with %s", ErrCallShape, sig.Name(), ft)
	}
	if err := checkResults(ft); err != nil {
		return nil, err
	}

	// Go parameter index per declared parameter.
	slots := make(map[*Param]int, sig.Len())
	next := offset
	for _, p := range sig.params {
		if p.Kind == VarPositional {
			slots[p] = ft.NumIn() - 1
			continue
		}
		slots[p] = next
		next++
	}
	if p := sig.varKw; p != nil {
		if t := ft.In(slots[p]); t != kwargsType && (t.Kind() != reflect.Map || t.Key().Kind() != reflect.String) {
			return nil, fmt.Errorf("%w: %s collects keywords into %s", ErrCallShape, p.Name, t)
		}
	}

	return func(ctx context.Context, args []any, kwargs Kwargs) (any, error) {
		b, err := Bind(sig, args, kwargs)
		if err != nil {
			return nil, err
		}

		in := make([]reflect.Value, ft.NumIn())
		if offset == 1 {
			in[0] = reflect.ValueOf(&ctx).Elem()
		}
		for _, p := range sig.params {
			in[slots[p]] = reflect.New(ft.In(slots[p])).Elem()
		}

		var variadic []reflect.Value
		for _, a := range b.args {
			slot := in[slots[a.Param]]
			switch a.Param.Kind {
			case VarPositional:
				v := reflect.New(slot.Type().Elem()).Elem()
				if err := assign(v, a.Value); err != nil {
					return nil, &ArgError{Arg: a.Name, Cause: err}
				}
				variadic = append(variadic, v)
			case VarKeyword:
				if err := assignKeyword(slot, a.Name, a.Value); err != nil {
					return nil, &ArgError{Arg: a.Name, Cause: err}
				}
			default:
				if err := assign(slot, a.Value); err != nil {
					return nil, &ArgError{Arg: a.Name, Cause: err}
				}
			}
		}

		if ft.IsVariadic() {
			in = append(in[:ft.NumIn()-1], variadic...)
		}
		return results(fv.Call(in))
	}, nil
}

func checkResults(ft reflect.Type) error {
	switch ft.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if ft.Out(1) == errorType {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must return at most a value and an error", ErrCallShape, ft)
}

func results(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			err, _ := out[0].Interface().(error)
			return nil, err
		}
		return out[0].Interface(), nil
	}
	err, _ := out[1].Interface().(error)
	return out[0].Interface(), err
}

// assign stores v into dst, converting between numeric kinds and between
// identical underlying kinds where Go would allow an explicit conversion.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(dst.Type()):
		dst.Set(rv)
	case convertible(rv.Type(), dst.Type()):
		dst.Set(rv.Convert(dst.Type()))
	default:
		return fmt.Errorf("%w: cannot use %T as %s", ErrCallShape, v, dst.Type())
	}
	return nil
}

func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	return numeric(from.Kind()) && numeric(to.Kind()) || from.Kind() == to.Kind()
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// assignKeyword adds name=v to a Kwargs or string-keyed map value.
func assignKeyword(dst reflect.Value, name string, v any) error {
	if dst.Type() == kwargsType {
		kw := dst.Interface().(Kwargs)
		dst.Set(reflect.ValueOf(append(kw, Kwarg{Name: name, Value: v})))
		return nil
	}
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(dst.Type()))
	}
	val := reflect.New(dst.Type().Elem()).Elem()
	if err := assign(val, v); err != nil {
		return err
	}
	dst.SetMapIndex(reflect.ValueOf(name).Convert(dst.Type().Key()), val)
	return nil
}
