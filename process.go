package artdeco

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Context is what a processor sees of one invocation.
type Context struct {
	Static *Signature // Signature the call was bound against
	Bound  *Bound     // Bound arguments, rewritten in place
	CallID string     // Identifier of the invocation in emitted signals
}

// Process runs p over the bound arguments of c and returns the rewritten call.
//
// Processing happens in three passes. Variadic groups selected by
// shouldProcess are processed first as one combined argument and the result
// is distributed back onto their components. Every bound argument selected
// by shouldProcess is then processed in binding order, including the
// components of a group processed in the first pass. Wide checks run last,
// in order, against the final values; the first failing check aborts the call.
func Process(ctx context.Context, p Processor, c *Context, shouldProcess func(name string) bool) (args []any, kwargs Kwargs, err error) {
	start := time.Now()
	processed, checks := 0, 0
	defer func() {
		emitArgsProcessed(ctx, c.Static.Name(), c.CallID, processed, checks, time.Since(start), err)
	}()

	b := c.Bound
	for _, g := range []*VariadicGroup{b.VarArgs(), b.VarKwargs()} {
		if g == nil || !shouldProcess(g.Param.Name) {
			continue
		}
		combined := g.Combined()
		v, err := p.ProcessArg(combined, c)
		if err != nil {
			return nil, nil, argError(combined.Name, err)
		}
		if err := g.Distribute(v); err != nil {
			return nil, nil, err
		}
		processed++
	}

	for _, a := range b.args {
		if !shouldProcess(a.Name) {
			continue
		}
		v, err := p.ProcessArg(a, c)
		if err != nil {
			return nil, nil, argError(a.Name, err)
		}
		a.Value = v
		processed++
	}

	for _, wc := range p.WideChecks() {
		values := make([]any, len(wc.Names))
		for i, name := range wc.Names {
			v, ok := lookupValue(b, name)
			if !ok {
				return nil, nil, fmt.Errorf("%w: %q named by wide check %v", ErrUnknownArgument, name, wc.Names)
			}
			values[i] = v
		}
		if err := wc.Check(c, values...); err != nil {
			return nil, nil, err
		}
		checks++
	}

	args, kwargs = b.Reconstruct()
	return args, kwargs, nil
}

// lookupValue finds the current value of a bound argument or of a variadic
// group named after its parameter.
func lookupValue(b *Bound, name string) (any, bool) {
	if a, ok := b.Arg(name); ok {
		return a.Value, true
	}
	for _, g := range []*VariadicGroup{b.VarArgs(), b.VarKwargs()} {
		if g != nil && g.Param.Name == name {
			return g.Combined().Value, true
		}
	}
	sig := b.Signature()
	if p := sig.VarPositional(); p != nil && p.Name == name {
		return []any{}, true
	}
	if p := sig.VarKeyword(); p != nil && p.Name == name {
		return Kwargs{}, true
	}
	return nil, false
}

func argError(name string, err error) error {
	var ue *UnconfiguredProcessorError
	var ae *ArgError
	if errors.As(err, &ue) || errors.As(err, &ae) {
		return err
	}
	return &ArgError{Arg: name, Cause: err}
}
