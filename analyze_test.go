package artdeco

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type point struct {
	X, Y int
}

func TestAnalyze_Policies(t *testing.T) {
	marker := Hacker(func(v any) (any, error) { return v, nil })
	target := Declare("move",
		Pos("p", TypeName("Point"), With(marker)),
		Pos("steps", Typed[int](), Default(1)),
		KwOnly("note"),
	).Scope("Point", reflect.TypeFor[point]())

	raw, err := Analyze(context.Background(), target, RawTypes)
	if err != nil {
		t.Fatalf("Analyze(raw) error: %v", err)
	}
	if got, want := raw.String(), `move(p: Point, steps: int = 1, note)`; got != want {
		t.Errorf("raw String() = %q, want %q", got, want)
	}
	if p, _ := raw.Param("p"); len(p.Meta) != 0 {
		t.Error("metadata should be dropped without WithExtras")
	}

	resolved, err := Analyze(context.Background(), target, ResolvedTypes.WithExtras())
	if err != nil {
		t.Fatalf("Analyze(resolved) error: %v", err)
	}
	p, _ := resolved.Param("p")
	if a, _ := p.Annotation.Get(); a != reflect.TypeFor[point]() {
		t.Errorf("p annotation = %v", a)
	}
	if len(p.Meta) != 1 || p.Meta[0] != marker {
		t.Errorf("p meta = %v", p.Meta)
	}
	if note, _ := resolved.Param("note"); note.HasAnnotation() {
		t.Error("undeclared types stay absent")
	}
	if !reflect.DeepEqual(resolved.Raw(), target.decls) {
		t.Error("Raw() should pass the target's raw object through")
	}
}

func TestAnalyze_CustomResolver(t *testing.T) {
	target := Declare("f", Pos("x", TypeName("Anything")))
	policy := CustomTypes(TypeResolverFunc(func(_ Target, decls []Decl) (map[string]any, error) {
		return map[string]any{decls[0].Name: "resolved:" + decls[0].TypeText}, nil
	}))

	sig, err := Analyze(context.Background(), target, policy)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if got := sig.String(); got != "f(x: resolved:Anything)" {
		t.Errorf("String() = %q", got)
	}
}

func TestAnalyze_ResolverErrorVerbatim(t *testing.T) {
	cause := errors.New("resolver broke")
	policy := CustomTypes(TypeResolverFunc(func(Target, []Decl) (map[string]any, error) {
		return nil, cause
	}))
	if _, err := Analyze(context.Background(), Declare("f", Pos("x")), policy); err != cause {
		t.Errorf("Analyze() error = %v, want the resolver's error", err)
	}

	_, err := Analyze(context.Background(), Declare("f", Pos("x", TypeName("Missing"))), ResolvedTypes)
	if !errors.Is(err, ErrTypeResolution) {
		t.Errorf("Analyze() error = %v, want ErrTypeResolution", err)
	}
	if _, err := Analyze(context.Background(), Declare("f", Pos("x", TypeName("Missing"))), RawTypes); err != nil {
		t.Errorf("raw analysis should not resolve types: %v", err)
	}
}

func TestTypePolicy_String(t *testing.T) {
	custom := CustomTypes(ScopeResolver{})
	tests := []struct {
		policy TypePolicy
		want   string
	}{
		{RawTypes, "raw"},
		{ResolvedTypes, "resolved"},
		{custom, "custom"},
		{RawTypes.WithExtras(), "raw+extras"},
		{custom.WithExtras(), "custom+extras"},
	}
	for _, tt := range tests {
		if got := tt.policy.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if RawTypes.Extras() || !ResolvedTypes.WithExtras().Extras() {
		t.Error("Extras() should follow WithExtras")
	}
}

func TestDeclare(t *testing.T) {
	target := Declare("f",
		PosOnly("a"),
		Pos("b", Default(nil)),
		VarArgs("rest", TypeName("int")),
		KwOnly("c", Typed[string]()),
		VarKwargs("opts"),
	)
	decls, err := target.Decls()
	if err != nil {
		t.Fatalf("Decls() error: %v", err)
	}
	kinds := make([]Kind, len(decls))
	for i, d := range decls {
		kinds[i] = d.Kind
	}
	want := []Kind{PositionalOnly, PositionalOrKeyword, VarPositional, KeywordOnly, VarKeyword}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
	if !decls[1].Default.IsSome() {
		t.Error("a nil default is still a default")
	}
	if decls[3].TypeText != "string" || decls[3].Type != reflect.TypeFor[string]() {
		t.Errorf("Typed[string]() = %q, %v", decls[3].TypeText, decls[3].Type)
	}

	decls[0].Name = "mutated"
	again, _ := target.Decls()
	if again[0].Name != "a" {
		t.Error("Decls() should return a copy")
	}
}
