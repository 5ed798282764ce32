// Package testing provides test utilities and fixtures for artdeco.
package testing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/zoobzio/artdeco"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey(tb testing.TB) []byte {
	tb.Helper()
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor(tb testing.TB) artdeco.Encryptor {
	tb.Helper()
	enc, err := artdeco.AES(TestKey(tb))
	if err != nil {
		tb.Fatalf("AES() error: %v", err)
	}
	return enc
}

// ErrNotOrdered is returned by the "ordered" validator.
var ErrNotOrdered = errors.New("values not in ascending order")

var registerOnce sync.Once

// RegisterHacks registers the fixture markers used by struct tags:
// "lower" and "trim" transforms and the "ordered" validator.
func RegisterHacks(tb testing.TB) {
	tb.Helper()
	registerOnce.Do(func() {
		must(tb, artdeco.Register("lower", artdeco.Map(strings.ToLower).Named("lower")))
		must(tb, artdeco.Register("trim", artdeco.Map(strings.TrimSpace).Named("trim")))
		must(tb, artdeco.Register("ordered", artdeco.WideValidator(Ordered).Named("ordered")))
	})
}

func must(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatalf("register: %v", err)
	}
}

// Ordered fails unless the integer values are ascending.
func Ordered(_ *artdeco.Context, values ...any) error {
	for i := 1; i < len(values); i++ {
		a, aok := values[i-1].(int)
		b, bok := values[i].(int)
		if !aok || !bok {
			return fmt.Errorf("ordered: want ints, got %T and %T", values[i-1], values[i])
		}
		if a > b {
			return ErrNotOrdered
		}
	}
	return nil
}

// Call is one recorded invocation.
type Call struct {
	Args   []any
	Kwargs artdeco.Kwargs
}

// Recorder is a Func target that records what it was called with.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// Func returns the recording function. It returns the positional arguments.
func (r *Recorder) Func() artdeco.Func {
	return func(_ context.Context, args []any, kwargs artdeco.Kwargs) (any, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, Call{Args: args, Kwargs: kwargs})
		return args, nil
	}
}

// Calls returns the recorded invocations.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Last returns the most recent invocation.
func (r *Recorder) Last(tb testing.TB) Call {
	tb.Helper()
	calls := r.Calls()
	if len(calls) == 0 {
		tb.Fatal("no calls recorded")
	}
	return calls[len(calls)-1]
}

// Counter counts invocations of the hooks it hands out.
type Counter struct {
	n atomic.Int64
}

// Count returns the number of invocations so far.
func (c *Counter) Count() int {
	return int(c.n.Load())
}

// Inc records one invocation.
func (c *Counter) Inc() {
	c.n.Add(1)
}

// Hack returns a direct transform that counts and passes values through.
func (c *Counter) Hack() *artdeco.Hack {
	return artdeco.Hacker(func(v any) (any, error) {
		c.Inc()
		return v, nil
	})
}

// Add is a fixture function.
func Add(x, y int) int {
	return x + y
}

// Sum is a fixture function taking a context and a variadic tail.
func Sum(_ context.Context, base int, values ...int) int {
	for _, v := range values {
		base += v
	}
	return base
}

// Describe is a fixture function collecting keyword arguments.
func Describe(name string, opts artdeco.Kwargs) string {
	parts := []string{name}
	for _, kw := range opts {
		parts = append(parts, fmt.Sprintf("%s=%v", kw.Name, kw.Value))
	}
	return strings.Join(parts, " ")
}

// Greeter is a fixture type with a method.
type Greeter struct {
	Greeting string
}

// Greet is a fixture method.
func (g *Greeter) Greet(name string) string {
	return g.Greeting + ", " + name
}

// Signup is a fixture params struct exercising every tag.
type Signup struct {
	Email    string   `arg:"email" hack:"trim,lower"`
	Password string   `arg:"password,kwonly" hash:"sha256"`
	Phone    string   `arg:"phone,kwonly" default:"" mask:"phone"`
	Plan     string   `arg:"plan,kwonly" default:"free"`
	Tags     []string `arg:"tags,varargs"`
}

// Window is a fixture params struct with a wide check.
type Window struct {
	Start int `check:"ordered"`
	End   int `check:"ordered"`
	Step  int `default:"1"`
}
