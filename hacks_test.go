package artdeco

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestHack_Modes(t *testing.T) {
	sig := mustSignature(t, "f", Param{Name: "x", Kind: PositionalOrKeyword})
	arg := &Arg{Name: "x", Value: "abc", Param: sig.Params()[0]}

	direct := Hacker(func(v any) (any, error) { return strings.ToUpper(v.(string)), nil })
	if direct.Mode() != Direct {
		t.Errorf("Mode() = %v, want direct", direct.Mode())
	}
	if v, err := direct.Apply(sig, arg); err != nil || v != "ABC" {
		t.Errorf("Apply() = %v, %v", v, err)
	}

	spec := SpecHacker(func(s *Signature, a *Arg) (any, error) {
		return s.Name() + ":" + a.Param.Name, nil
	})
	if spec.Mode() != NeedsContext {
		t.Errorf("Mode() = %v, want needs-context", spec.Mode())
	}
	if v, err := spec.Apply(sig, arg); err != nil || v != "f:x" {
		t.Errorf("Apply() = %v, %v", v, err)
	}
}

func TestHack_Unmarked(t *testing.T) {
	arg := &Arg{Name: "x", Value: 1}
	for _, h := range []*Hack{nil, {}, Hacker(nil), SpecHacker(nil)} {
		_, err := h.Apply(nil, arg)
		var upe *UnconfiguredProcessorError
		if !errors.As(err, &upe) || upe.Arg != "x" {
			t.Errorf("Apply() error = %v, want UnconfiguredProcessorError for x", err)
		}
		if h.Mode() != Unmarked {
			t.Errorf("Mode() = %v", h.Mode())
		}
	}
}

func TestTransform(t *testing.T) {
	h := Transform(func(s string) (int, error) { return len(s), nil })
	if v, err := h.Apply(nil, &Arg{Value: "four"}); err != nil || v != 4 {
		t.Errorf("Apply() = %v, %v", v, err)
	}
	if _, err := h.Apply(nil, &Arg{Value: 4}); !errors.Is(err, ErrTransform) {
		t.Errorf("Apply(int) error = %v, want ErrTransform", err)
	}
	if got := Map(strings.TrimSpace).Named("trim").String(); got != "trim" {
		t.Errorf("String() = %q", got)
	}
}

func TestTable(t *testing.T) {
	first := Hacker(func(v any) (any, error) { return v, nil })
	second := Hacker(func(v any) (any, error) { return v, nil })
	tbl := NewTable().Arg("x", first).Arg("y", first).Arg("x", second)

	if len(tbl.args) != 2 || tbl.args[0].hack != second {
		t.Errorf("Arg() should replace in place, got %v", tbl.args)
	}

	tbl.Check([]string{"x", "y"}, func(*Context, ...any) error { return nil })
	tbl.Check([]string{"x", "y"}, func(*Context, ...any) error { return errors.New("replaced") })
	tbl.Check([]string{"y", "x"}, func(*Context, ...any) error { return nil })
	if len(tbl.checks) != 2 {
		t.Fatalf("checks = %d, want 2", len(tbl.checks))
	}
	if err := tbl.checks[0].Check(nil); err == nil || err.Error() != "replaced" {
		t.Errorf("Check() over the same names should replace, got %v", err)
	}
}

func TestCollect(t *testing.T) {
	fromMeta := Hacker(func(v any) (any, error) { return "meta", nil })
	fromTable := Hacker(func(v any) (any, error) { return "table", nil })
	ordered := WideValidator(func(*Context, ...any) error { return nil })

	sig := mustSignature(t, "f",
		Param{Name: "a", Kind: PositionalOrKeyword, Meta: []any{fromMeta, ordered}},
		Param{Name: "b", Kind: PositionalOrKeyword, Meta: []any{"ignored", fromMeta}},
		Param{Name: "c", Kind: PositionalOrKeyword, Meta: []any{ordered}},
	)
	c := Collect(sig, NewTable().Arg("b", fromTable).Arg("d", fromTable))

	if got := c.Names(); !reflect.DeepEqual(got, []string{"a", "b", "d"}) {
		t.Errorf("Names() = %v", got)
	}
	if h, _ := c.Hack("b"); h != fromTable {
		t.Error("table entries should override metadata")
	}
	if h, _ := c.Hack("a"); h != fromMeta {
		t.Error("metadata hack missing for a")
	}
	checks := c.Checks()
	if len(checks) != 1 || !reflect.DeepEqual(checks[0].Names, []string{"a", "c"}) {
		t.Errorf("Checks() = %v, want one check over [a c]", checks)
	}
}

func TestHackProcessor(t *testing.T) {
	sig := mustSignature(t, "f",
		Param{Name: "a", Kind: PositionalOrKeyword},
		Param{Name: "b", Kind: PositionalOrKeyword},
		Param{Name: "c", Kind: PositionalOrKeyword},
	)
	upper := Map(strings.ToUpper)
	p := NewHackProcessor(sig, nil, NewTable().
		Arg("a", upper).
		Arg("b", strings.ToUpper).
		Arg("c", nil))

	if !p.ShouldProcess("a") || p.ShouldProcess("z") {
		t.Error("ShouldProcess() should follow the table")
	}
	if v, err := p.ProcessArg(&Arg{Name: "a", Value: "x"}, nil); err != nil || v != "X" {
		t.Errorf("ProcessArg(a) = %v, %v", v, err)
	}
	if !p.ShouldProcess("c") {
		t.Error("ShouldProcess(c) should select a nil entry")
	}
	for _, name := range []string{"b", "c"} {
		_, err := p.ProcessArg(&Arg{Name: name, Value: "x"}, nil)
		var upe *UnconfiguredProcessorError
		if !errors.As(err, &upe) || upe.Arg != name {
			t.Errorf("ProcessArg(%s) error = %v, want UnconfiguredProcessorError", name, err)
		}
	}
}

func TestHackArgs_UnconfiguredEntry(t *testing.T) {
	target := Declare("f", Pos("x"), Pos("y"))
	echo := func(_ context.Context, args []any, _ Kwargs) (any, error) {
		return args, nil
	}
	tests := []struct {
		name string
		hack any
	}{
		{"nil entry", nil},
		{"nil direct func", Hacker(nil)},
		{"nil spec func", SpecHacker(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := HackArgs(target, echo, NewTable().Arg("x", tt.hack))
			if err != nil {
				t.Fatalf("HackArgs() error: %v", err)
			}
			_, err = fn(context.Background(), Args(1, 2), nil)
			var upe *UnconfiguredProcessorError
			if !errors.As(err, &upe) || upe.Arg != "x" {
				t.Errorf("call error = %v, want UnconfiguredProcessorError for x", err)
			}
		})
	}
}

func TestHackArgs_Markers(t *testing.T) {
	lower := Map(strings.ToLower)
	errBadRange := errors.New("lo > hi")
	ordered := WideValidator(func(_ *Context, values ...any) error {
		if values[0].(int) > values[1].(int) {
			return errBadRange
		}
		return nil
	})
	target := Declare("span",
		Pos("label", With(lower)),
		Pos("lo", With(ordered)),
		Pos("hi", With(ordered)),
	)
	fn, err := HackArgs(target, func(_ context.Context, args []any, _ Kwargs) (any, error) {
		return args, nil
	}, nil)
	if err != nil {
		t.Fatalf("HackArgs() error: %v", err)
	}

	got, err := fn(context.Background(), Args("MiXeD", 1, 2), nil)
	if err != nil {
		t.Fatalf("call error: %v", err)
	}
	if !reflect.DeepEqual(got, []any{"mixed", 1, 2}) {
		t.Errorf("call = %v", got)
	}
	if _, err := fn(context.Background(), Args("x", 3, 2), nil); err != errBadRange {
		t.Errorf("call error = %v, want %v", err, errBadRange)
	}
}
