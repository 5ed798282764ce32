// Package artdeco decorates callables with argument processing.
//
// A callable is described once by a static Signature: its parameters in
// declaration order, their kinds, declared types and defaults. Each
// invocation is bound against that signature, giving one named Arg per
// supplied or defaulted value. Processors rewrite selected arguments and run
// checks that span several of them, and the rewritten call is forwarded to
// the underlying function.
//
// # Parameter Kinds
//
// Signatures carry five parameter kinds:
//
//   - PositionalOnly: filled by position only
//   - PositionalOrKeyword: filled by position or by name
//   - VarPositional: collects surplus positional values (*args)
//   - KeywordOnly: filled by name only
//   - VarKeyword: collects surplus keyword values (**kwargs)
//
// # Targets
//
// A Target supplies the parameter declarations of a callable:
//
//   - Declare builds one from an explicit parameter list
//   - ParamsOf reads one from a params struct and its tags
//   - FromSource reads one from a Go function declaration
//
// The TypePolicy passed to Analyze decides whether declared types are kept
// as text (RawTypes), resolved (ResolvedTypes, CustomTypes), and whether
// parameter metadata is kept (WithExtras).
//
// # Calling Convention
//
// Wrapped callables share a single shape:
//
//	type Func func(ctx context.Context, args []any, kwargs Kwargs) (any, error)
//
// Reflect adapts an ordinary Go function to this shape.
//
// # Hacking Arguments
//
// HackArgs attaches per-argument transforms and wide checks to a callable:
//
//	target := artdeco.Declare("register",
//	    artdeco.Pos("email"),
//	    artdeco.Pos("password"),
//	)
//
//	fn, _ := artdeco.HackArgs(target, register, artdeco.NewTable().
//	    Arg("email", artdeco.Hacker(strings.ToLower)).
//	    Arg("password", artdeco.Hash(artdeco.HashArgon2)),
//	)
//
//	fn(ctx, artdeco.Args("Alice@Example.com", "hunter2"), nil)
//
// Transforms are values produced by Hacker (value in, value out) or
// SpecHacker (receives the static signature and the bound argument). Wide
// checks receive the values of several named arguments at once and may fail
// the call. Explicit table entries override metadata attached to parameters.
//
// # Static and Dynamic Modes
//
// Static mode analyzes the target and builds the processor once, when the
// wrapper is created. Dynamic mode (the Dynamic option) does both on every
// call.
//
// # Built-in Transforms
//
//   - Hash(algo) - argon2, bcrypt, sha256, sha512
//   - Mask(type) - ssn, email, phone, card, ip, uuid, iban, name
//   - Redact(text) - replace the value
//   - Encrypt(enc), Decrypt(enc) - AES-GCM, RSA-OAEP or envelope encryption
//   - Decode(codec) - decode encoded bytes into the declared type
//
// # Codec Providers
//
// The following codec implementations are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package artdeco

import "context"

// Func is the calling convention shared by wrapped callables.
type Func func(ctx context.Context, args []any, kwargs Kwargs) (any, error)

// Result is the outcome of an asynchronous call.
type Result struct {
	Value any
	Err   error
}

// AsyncFunc is the asynchronous form of Func.
// The channel yields exactly one Result and is then closed.
type AsyncFunc func(ctx context.Context, args []any, kwargs Kwargs) <-chan Result

// Go runs fn on its own goroutine.
func Go(fn Func) AsyncFunc {
	return func(ctx context.Context, args []any, kwargs Kwargs) <-chan Result {
		ch := make(chan Result, 1)
		go func() {
			defer close(ch)
			v, err := fn(ctx, args, kwargs)
			ch <- Result{Value: v, Err: err}
		}()
		return ch
	}
}

// Await blocks until the call completes or ctx is done.
func Await(ctx context.Context, ch <-chan Result) (any, error) {
	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Processor decides which arguments are rewritten and how.
type Processor interface {
	// ShouldProcess reports whether the named argument is processed.
	ShouldProcess(name string) bool

	// ProcessArg returns the replacement value for arg.
	ProcessArg(arg *Arg, c *Context) (any, error)

	// WideChecks returns the checks run after every argument is processed.
	WideChecks() []WideCheck
}

// CheckFunc validates the values of several arguments at once.
// Values arrive in the order the check names them.
type CheckFunc func(c *Context, values ...any) error

// WideCheck binds a CheckFunc to the argument names it inspects.
type WideCheck struct {
	Names []string
	Check CheckFunc
}

// StaticFactory builds a processor once from the static signature.
type StaticFactory func(sig *Signature) (Processor, error)

// Factory builds a processor for a single call.
type Factory func(ctx context.Context, c *Context) (Processor, error)

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
