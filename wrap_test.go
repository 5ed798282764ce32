package artdeco

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func echo(_ context.Context, args []any, kwargs Kwargs) (any, error) {
	return []any{args, kwargs}, nil
}

func TestStaticProcessArgs_FactoryOnce(t *testing.T) {
	Reset()
	target := Declare("f", Pos("x"), VarKwargs("kw"))
	created := 0
	factory := func(sig *Signature) (Processor, error) {
		created++
		return newFuncProcessor(func(a *Arg, _ *Context) (any, error) {
			return a.Value.(int) + 1, nil
		}, "x", "z"), nil
	}

	fn, err := StaticProcessArgs(target, echo, factory)
	if err != nil {
		t.Fatalf("StaticProcessArgs() error: %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := fn(context.Background(), Args(1), Kwargs{KW("z", 1)})
		if err != nil {
			t.Fatalf("call error: %v", err)
		}
		// z only appears at call time, so static mode never selects it.
		want := []any{[]any{2}, Kwargs{KW("z", 1)}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("call = %v, want %v", got, want)
		}
	}
	if created != 1 {
		t.Errorf("factory ran %d times, want 1", created)
	}
}

func TestDynamicProcessArgs_FactoryPerCall(t *testing.T) {
	target := Declare("f", Pos("x"), VarKwargs("kw"))
	created := 0
	factory := func(_ context.Context, c *Context) (Processor, error) {
		created++
		if c.Bound == nil || c.CallID == "" {
			t.Error("factory should receive the bound call")
		}
		return newFuncProcessor(func(a *Arg, _ *Context) (any, error) {
			return a.Value.(int) + 1, nil
		}, "x", "z"), nil
	}

	fn := DynamicProcessArgs(target, echo, factory)
	for i := 0; i < 3; i++ {
		got, err := fn(context.Background(), Args(1), Kwargs{KW("z", 1)})
		if err != nil {
			t.Fatalf("call error: %v", err)
		}
		want := []any{[]any{2}, Kwargs{KW("z", 2)}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("call = %v, want %v", got, want)
		}
	}
	if created != 3 {
		t.Errorf("factory ran %d times, want 3", created)
	}
}

func TestStaticProcessArgs_Errors(t *testing.T) {
	Reset()
	boom := errors.New("boom")
	_, err := StaticProcessArgs(Declare("f", Pos("x")), echo, func(*Signature) (Processor, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("factory error = %v, want boom", err)
	}

	bad := Declare("g", VarArgs("a"), VarArgs("b"))
	_, err = StaticProcessArgs(bad, echo, func(*Signature) (Processor, error) {
		t.Error("factory must not run for a structurally invalid target")
		return nil, nil
	})
	if !errors.Is(err, ErrStructuralSignature) {
		t.Errorf("error = %v, want ErrStructuralSignature", err)
	}
}

func TestHackArgs_StaticAndDynamic(t *testing.T) {
	Reset()
	for _, opts := range [][]WrapOption{nil, {Dynamic()}} {
		target := Declare("f", Pos("x"), Pos("y", Default(3)))
		fn, err := HackArgs(target, echo, NewTable().Arg("y", Map(func(y int) int { return y * 2 })), opts...)
		if err != nil {
			t.Fatalf("HackArgs() error: %v", err)
		}
		got, err := fn(context.Background(), Args(1), nil)
		if err != nil {
			t.Fatalf("call error: %v", err)
		}
		want := []any{[]any{1}, Kwargs{KW("y", 6)}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("call = %v, want %v", got, want)
		}
	}
}

func TestPreparer_WrapAsync(t *testing.T) {
	p := DynamicPreparer(Declare("f", Pos("x")), func(context.Context, *Context) (Processor, error) {
		return newFuncProcessor(nil), nil
	})
	started := false
	fn := p.WrapAsync(func(ctx context.Context, args []any, kwargs Kwargs) <-chan Result {
		started = true
		return Go(echo)(ctx, args, kwargs)
	})

	_, err := Await(context.Background(), fn(context.Background(), Args(1, 2), nil))
	if !errors.Is(err, ErrArity) {
		t.Errorf("Await() error = %v, want ErrArity", err)
	}
	if started {
		t.Error("the async function must not start when preparation fails")
	}

	v, err := Await(context.Background(), fn(context.Background(), Args(1), nil))
	if err != nil || !reflect.DeepEqual(v, []any{[]any{1}, Kwargs(nil)}) {
		t.Errorf("Await() = %v, %v", v, err)
	}
}

func TestAwait_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	never := make(chan Result)
	if _, err := Await(ctx, never); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Await() error = %v, want DeadlineExceeded", err)
	}
}
