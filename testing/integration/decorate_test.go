package integration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/artdeco"
	"github.com/zoobzio/artdeco/json"
	artdecotest "github.com/zoobzio/artdeco/testing"
)

const fixtures = "github.com/zoobzio/artdeco/testing"

func TestSource_ReflectSum(t *testing.T) {
	target := artdeco.FromSource(fixtures, "Sum")
	sig, err := artdeco.Analyze(context.Background(), target, artdeco.RawTypes)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if got, want := sig.String(), "Sum(base: int, *values: int)"; got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}

	sum, err := artdeco.Reflect(sig, artdecotest.Sum)
	if err != nil {
		t.Fatalf("Reflect error: %v", err)
	}
	double := artdeco.Map(func(values []any) []any {
		out := make([]any, len(values))
		for i, v := range values {
			out[i] = v.(int) * 2
		}
		return out
	})
	fn, err := artdeco.HackArgs(target, sum, artdeco.NewTable().Arg("values", double))
	if err != nil {
		t.Fatalf("HackArgs error: %v", err)
	}

	got, err := fn(context.Background(), artdeco.Args(1, 2, 3), nil)
	if err != nil {
		t.Fatalf("call error: %v", err)
	}
	if got != 11 {
		t.Errorf("Sum = %v, want 11", got)
	}
}

func TestSource_MethodWithReceiver(t *testing.T) {
	target := artdeco.FromSource(fixtures, "Greeter.Greet", artdeco.IncludeReceiver())
	sig, err := artdeco.Analyze(context.Background(), target, artdeco.RawTypes)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if got, want := sig.String(), "Greeter.Greet(g: *Greeter, name: string)"; got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}

	greet, err := artdeco.Reflect(sig, (*artdecotest.Greeter).Greet)
	if err != nil {
		t.Fatalf("Reflect error: %v", err)
	}
	got, err := greet(context.Background(), artdeco.Args(&artdecotest.Greeter{Greeting: "Hello"}, "Ada"), nil)
	if err != nil {
		t.Fatalf("call error: %v", err)
	}
	if got != "Hello, Ada" {
		t.Errorf("Greet = %v", got)
	}
}

func TestSource_KeywordCollector(t *testing.T) {
	target := artdeco.FromSource(fixtures, "Describe")
	sig, err := artdeco.Analyze(context.Background(), target, artdeco.RawTypes)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if p := sig.VarKeyword(); p == nil || p.Name != "opts" {
		t.Fatalf("VarKeyword() = %v, want opts", p)
	}

	describe, err := artdeco.Reflect(sig, artdecotest.Describe)
	if err != nil {
		t.Fatalf("Reflect error: %v", err)
	}
	got, err := describe(context.Background(), artdeco.Args("box"),
		artdeco.Kwargs{artdeco.KW("color", "red"), artdeco.KW("size", 3)})
	if err != nil {
		t.Fatalf("call error: %v", err)
	}
	if got != "box color=red size=3" {
		t.Errorf("Describe = %v", got)
	}
}

func TestConstruct_Signup(t *testing.T) {
	artdecotest.RegisterHacks(t)

	build, err := artdeco.Construct[artdecotest.Signup](nil)
	if err != nil {
		t.Fatalf("Construct error: %v", err)
	}

	s, err := build(context.Background(),
		artdeco.Args("  Alice@Example.COM ", "beta", "early"),
		artdeco.Kwargs{
			artdeco.KW("password", "hunter2"),
			artdeco.KW("phone", "(555) 123-4567"),
		},
	)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	sum := sha256.Sum256([]byte("hunter2"))
	want := artdecotest.Signup{
		Email:    "alice@example.com",
		Password: hex.EncodeToString(sum[:]),
		Phone:    "(***) ***-4567",
		Plan:     "free",
		Tags:     []string{"beta", "early"},
	}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("Signup = %+v, want %+v", s, want)
	}
}

func TestConstruct_MissingKeywordOnly(t *testing.T) {
	artdecotest.RegisterHacks(t)

	build, err := artdeco.Construct[artdecotest.Signup](nil)
	if err != nil {
		t.Fatalf("Construct error: %v", err)
	}
	_, err = build(context.Background(), artdeco.Args("a@b.c"), nil)
	var arity *artdeco.ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("expected ArityError, got %v", err)
	}
	if len(arity.Names) != 1 || arity.Names[0] != "password" {
		t.Errorf("missing = %v, want [password]", arity.Names)
	}
}

func TestConstruct_WideCheck(t *testing.T) {
	artdecotest.RegisterHacks(t)

	build, err := artdeco.Construct[artdecotest.Window](nil)
	if err != nil {
		t.Fatalf("Construct error: %v", err)
	}

	w, err := build(context.Background(), artdeco.Args(1, 5), nil)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if w != (artdecotest.Window{Start: 1, End: 5, Step: 1}) {
		t.Errorf("Window = %+v", w)
	}

	_, err = build(context.Background(), artdeco.Args(5, 1), nil)
	if !errors.Is(err, artdecotest.ErrNotOrdered) {
		t.Errorf("expected ErrNotOrdered, got %v", err)
	}
}

type payload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func TestEncodeEncryptRoundTrip(t *testing.T) {
	enc := artdecotest.TestEncryptor(t)
	ctx := context.Background()

	store := artdeco.Declare("store", artdeco.Pos("record"))
	seal, err := artdeco.HackArgs(store, func(_ context.Context, args []any, _ artdeco.Kwargs) (any, error) {
		return args[0], nil
	}, artdeco.NewTable().Arg("record", artdeco.Chain(json.Encode(), artdeco.Encrypt(enc))))
	if err != nil {
		t.Fatalf("HackArgs error: %v", err)
	}

	load := artdeco.Declare("load", artdeco.Pos("record", artdeco.Typed[payload]()))
	unseal, err := artdeco.HackArgs(load, func(_ context.Context, args []any, _ artdeco.Kwargs) (any, error) {
		return args[0], nil
	}, artdeco.NewTable().Arg("record", artdeco.Chain(artdeco.Decrypt(enc), json.Decode())),
		artdeco.WithTypePolicy(artdeco.ResolvedTypes),
	)
	if err != nil {
		t.Fatalf("HackArgs error: %v", err)
	}

	original := payload{ID: "1", Email: "alice@example.com"}
	sealed, err := seal(ctx, artdeco.Args(original), nil)
	if err != nil {
		t.Fatalf("seal error: %v", err)
	}
	if _, ok := sealed.([]byte); !ok {
		t.Fatalf("sealed value is %T, want []byte", sealed)
	}

	restored, err := unseal(ctx, artdeco.Args(sealed), nil)
	if err != nil {
		t.Fatalf("unseal error: %v", err)
	}
	if restored != original {
		t.Errorf("restored = %+v, want %+v", restored, original)
	}
}

func TestHackArgsAsync(t *testing.T) {
	target := artdeco.Declare("add", artdeco.Pos("x"), artdeco.Pos("y", artdeco.Default(3)))
	sig, err := artdeco.Analyze(context.Background(), target, artdeco.RawTypes)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	add, err := artdeco.Reflect(sig, artdecotest.Add)
	if err != nil {
		t.Fatalf("Reflect error: %v", err)
	}

	fn, err := artdeco.HackArgsAsync(target, artdeco.Go(add),
		artdeco.NewTable().Arg("x", artdeco.Map(func(x int) int { return x * 10 })))
	if err != nil {
		t.Fatalf("HackArgsAsync error: %v", err)
	}

	got, err := artdeco.Await(context.Background(), fn(context.Background(), artdeco.Args(1), nil))
	if err != nil {
		t.Fatalf("await error: %v", err)
	}
	if got != 13 {
		t.Errorf("add = %v, want 13", got)
	}

	_, err = artdeco.Await(context.Background(), fn(context.Background(), nil, nil))
	if !errors.Is(err, artdeco.ErrArity) {
		t.Errorf("expected ErrArity, got %v", err)
	}
}
