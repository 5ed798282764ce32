package artdeco

import (
	"context"

	"github.com/google/uuid"
)

// config holds wrapper options.
type config struct {
	policy  TypePolicy
	dynamic bool
}

// WrapOption configures a wrapper.
type WrapOption func(*config)

// WithTypePolicy selects how declared types are analyzed. Defaults to RawTypes.
func WithTypePolicy(p TypePolicy) WrapOption {
	return func(c *config) {
		c.policy = p
	}
}

// Dynamic makes HackArgs analyze the target and build its processor on every call.
func Dynamic() WrapOption {
	return func(c *config) {
		c.dynamic = true
	}
}

func newConfig(opts []WrapOption) config {
	c := config{policy: RawTypes}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Preparer binds and processes one invocation, returning the rewritten call.
type Preparer func(ctx context.Context, args []any, kwargs Kwargs) ([]any, Kwargs, error)

// Wrap forwards prepared calls to fn.
func (p Preparer) Wrap(fn Func) Func {
	return func(ctx context.Context, args []any, kwargs Kwargs) (any, error) {
		a, k, err := p(ctx, args, kwargs)
		if err != nil {
			return nil, err
		}
		return fn(ctx, a, k)
	}
}

// WrapAsync forwards prepared calls to fn. Preparation completes before fn
// is started; a preparation failure is delivered on the returned channel.
func (p Preparer) WrapAsync(fn AsyncFunc) AsyncFunc {
	return func(ctx context.Context, args []any, kwargs Kwargs) <-chan Result {
		a, k, err := p(ctx, args, kwargs)
		if err != nil {
			ch := make(chan Result, 1)
			ch <- Result{Err: err}
			close(ch)
			return ch
		}
		return fn(ctx, a, k)
	}
}

// bindCall binds one invocation and wraps it in a processing context.
func bindCall(ctx context.Context, sig *Signature, args []any, kwargs Kwargs) (*Context, error) {
	callID := uuid.NewString()
	b, err := Bind(sig, args, kwargs)
	emitCallBound(ctx, sig.Name(), callID, b, err)
	if err != nil {
		return nil, err
	}
	return &Context{Static: sig, Bound: b, CallID: callID}, nil
}

// StaticPreparer analyzes t and builds its processor once.
// The set of processed names is fixed from the declared parameters and is
// not re-evaluated for names that only appear at call time.
func StaticPreparer(t Target, factory StaticFactory, opts ...WrapOption) (Preparer, error) {
	cfg := newConfig(opts)
	ctx := context.Background()

	sig, err := Cached(ctx, t, cfg.policy)
	if err != nil {
		return nil, err
	}
	p, err := factory(sig)
	if err != nil {
		return nil, err
	}
	emitProcessorCreated(ctx, sig.Name(), "static", "")

	selected := make(map[string]bool)
	for _, param := range sig.params {
		if p.ShouldProcess(param.Name) {
			selected[param.Name] = true
		}
	}
	should := func(name string) bool {
		return selected[name]
	}

	return func(ctx context.Context, args []any, kwargs Kwargs) ([]any, Kwargs, error) {
		c, err := bindCall(ctx, sig, args, kwargs)
		if err != nil {
			return nil, nil, err
		}
		return Process(ctx, p, c, should)
	}, nil
}

// DynamicPreparer analyzes t and builds a processor on every call.
// Every bound name, including var-keyword components, is offered to the
// processor's ShouldProcess.
func DynamicPreparer(t Target, factory Factory, opts ...WrapOption) Preparer {
	cfg := newConfig(opts)
	return func(ctx context.Context, args []any, kwargs Kwargs) ([]any, Kwargs, error) {
		sig, err := Analyze(ctx, t, cfg.policy)
		if err != nil {
			return nil, nil, err
		}
		c, err := bindCall(ctx, sig, args, kwargs)
		if err != nil {
			return nil, nil, err
		}
		p, err := factory(ctx, c)
		if err != nil {
			return nil, nil, err
		}
		emitProcessorCreated(ctx, sig.Name(), "dynamic", c.CallID)
		return Process(ctx, p, c, p.ShouldProcess)
	}
}

// StaticProcessArgs wraps fn with a processor built once from t's signature.
func StaticProcessArgs(t Target, fn Func, factory StaticFactory, opts ...WrapOption) (Func, error) {
	p, err := StaticPreparer(t, factory, opts...)
	if err != nil {
		return nil, err
	}
	return p.Wrap(fn), nil
}

// DynamicProcessArgs wraps fn with a processor built on every call.
func DynamicProcessArgs(t Target, fn Func, factory Factory, opts ...WrapOption) Func {
	return DynamicPreparer(t, factory, opts...).Wrap(fn)
}

// HackPreparer prepares calls with the transforms and wide checks attached
// to t's parameters, overridden by table.
func HackPreparer(t Target, table *Table, opts ...WrapOption) (Preparer, error) {
	cfg := newConfig(opts)
	extrasPolicy := cfg.policy.WithExtras()

	if cfg.dynamic {
		return DynamicPreparer(t, func(ctx context.Context, c *Context) (Processor, error) {
			extras, err := Analyze(ctx, t, extrasPolicy)
			if err != nil {
				return nil, err
			}
			return NewHackProcessor(c.Static, extras, table), nil
		}, opts...), nil
	}

	extras, err := Cached(context.Background(), t, extrasPolicy)
	if err != nil {
		return nil, err
	}
	return StaticPreparer(t, func(sig *Signature) (Processor, error) {
		return NewHackProcessor(sig, extras, table), nil
	}, opts...)
}

// HackArgs wraps fn so that arguments are transformed and checked before fn runs.
func HackArgs(t Target, fn Func, table *Table, opts ...WrapOption) (Func, error) {
	p, err := HackPreparer(t, table, opts...)
	if err != nil {
		return nil, err
	}
	return p.Wrap(fn), nil
}

// HackArgsAsync is HackArgs for asynchronous callables.
func HackArgsAsync(t Target, fn AsyncFunc, table *Table, opts ...WrapOption) (AsyncFunc, error) {
	p, err := HackPreparer(t, table, opts...)
	if err != nil {
		return nil, err
	}
	return p.WrapAsync(fn), nil
}
