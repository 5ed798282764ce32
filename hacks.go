package artdeco

import (
	"fmt"
	"strings"
)

// HackMode says how a per-argument transform is invoked.
type HackMode int

const (
	// Unmarked transforms cannot be invoked.
	Unmarked HackMode = iota

	// Direct transforms receive only the argument's value.
	Direct

	// NeedsContext transforms receive the static signature and the bound argument.
	NeedsContext
)

func (m HackMode) String() string {
	switch m {
	case Direct:
		return "direct"
	case NeedsContext:
		return "needs-context"
	}
	return "unmarked"
}

// Hack is a marked per-argument transform.
// The zero value is unmarked and fails when invoked.
type Hack struct {
	mode   HackMode
	direct func(v any) (any, error)
	spec   func(sig *Signature, arg *Arg) (any, error)
	label  string
}

// Hacker marks fn as a direct transform.
func Hacker(fn func(v any) (any, error)) *Hack {
	return &Hack{mode: Direct, direct: fn}
}

// SpecHacker marks fn as a transform that needs the static signature and the bound argument.
func SpecHacker(fn func(sig *Signature, arg *Arg) (any, error)) *Hack {
	return &Hack{mode: NeedsContext, spec: fn}
}

// Transform marks a typed function as a direct transform.
// Values that are not a T fail with ErrTransform.
func Transform[T, R any](fn func(T) (R, error)) *Hack {
	return Hacker(func(v any) (any, error) {
		t, ok := v.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("%w: want %T, got %T", ErrTransform, zero, v)
		}
		return fn(t)
	})
}

// Map marks an infallible typed function as a direct transform.
func Map[T, R any](fn func(T) R) *Hack {
	return Transform(func(t T) (R, error) {
		return fn(t), nil
	})
}

// Named labels the transform for error messages.
func (h *Hack) Named(label string) *Hack {
	h.label = label
	return h
}

// Mode returns how the transform is invoked.
func (h *Hack) Mode() HackMode {
	switch {
	case h == nil:
		return Unmarked
	case h.mode == Direct && h.direct == nil, h.mode == NeedsContext && h.spec == nil:
		return Unmarked
	}
	return h.mode
}

func (h *Hack) String() string {
	if h == nil {
		return "nil hack"
	}
	if h.label != "" {
		return h.label
	}
	return h.Mode().String() + " hack"
}

// Apply invokes the transform for arg.
func (h *Hack) Apply(sig *Signature, arg *Arg) (any, error) {
	switch h.Mode() {
	case Direct:
		return h.direct(arg.Value)
	case NeedsContext:
		return h.spec(sig, arg)
	}
	return nil, &UnconfiguredProcessorError{Arg: arg.Name, Func: fmt.Sprintf("%v", h)}
}

// Validator is a marked wide check. Attaching the same Validator to several
// parameters groups them into one check, in declaration order.
type Validator struct {
	check CheckFunc
	label string
}

// WideValidator marks fn as a wide check.
func WideValidator(fn CheckFunc) *Validator {
	return &Validator{check: fn}
}

// Named labels the validator for registry listings.
func (v *Validator) Named(label string) *Validator {
	v.label = label
	return v
}

func (v *Validator) String() string {
	if v.label != "" {
		return v.label
	}
	return "validator"
}

// Check returns the validator's check function.
func (v *Validator) Check() CheckFunc {
	return v.check
}

type tableEntry struct {
	name string
	hack any
}

// Table holds explicit per-argument transforms and wide checks.
// Explicit entries override metadata attached to parameters.
type Table struct {
	args   []tableEntry
	checks []WideCheck
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Arg sets the transform for an argument. h is normally a *Hack; any other
// value is reported as an unconfigured processor when invoked.
func (t *Table) Arg(name string, h any) *Table {
	for i := range t.args {
		if t.args[i].name == name {
			t.args[i].hack = h
			return t
		}
	}
	t.args = append(t.args, tableEntry{name: name, hack: h})
	return t
}

// Check adds a wide check over the named arguments.
// A check over the same names replaces the previous one.
func (t *Table) Check(names []string, fn CheckFunc) *Table {
	t.checks = setCheck(t.checks, WideCheck{Names: append([]string(nil), names...), Check: fn})
	return t
}

func setCheck(checks []WideCheck, wc WideCheck) []WideCheck {
	key := checkKey(wc.Names)
	for i := range checks {
		if checkKey(checks[i].Names) == key {
			checks[i] = wc
			return checks
		}
	}
	return append(checks, wc)
}

func checkKey(names []string) string {
	return strings.Join(names, "\x00")
}

// Collected is the merged view of metadata markers and an explicit table.
type Collected struct {
	order  []string
	hacks  map[string]any
	checks []WideCheck
}

// Collect merges the markers attached to sig's parameters with table.
// Per-argument transforms are keyed by parameter name. Parameters sharing a
// Validator form one wide check named in declaration order.
func Collect(sig *Signature, table *Table) *Collected {
	c := &Collected{hacks: make(map[string]any)}
	set := func(name string, h any) {
		if _, ok := c.hacks[name]; !ok {
			c.order = append(c.order, name)
		}
		c.hacks[name] = h
	}

	var groups []*Validator
	members := make(map[*Validator][]string)
	if sig != nil {
		for _, p := range sig.params {
			for _, m := range p.Meta {
				switch v := m.(type) {
				case *Hack:
					set(p.Name, v)
				case *Validator:
					if _, ok := members[v]; !ok {
						groups = append(groups, v)
					}
					members[v] = append(members[v], p.Name)
				}
			}
		}
	}
	for _, v := range groups {
		c.checks = setCheck(c.checks, WideCheck{Names: members[v], Check: v.check})
	}

	if table != nil {
		for _, e := range table.args {
			set(e.name, e.hack)
		}
		for _, wc := range table.checks {
			c.checks = setCheck(c.checks, wc)
		}
	}
	return c
}

// Names returns the names with a transform, in collection order.
func (c *Collected) Names() []string {
	return append([]string(nil), c.order...)
}

// Hack returns the transform collected for name.
func (c *Collected) Hack(name string) (any, bool) {
	h, ok := c.hacks[name]
	return h, ok
}

// Checks returns the collected wide checks.
func (c *Collected) Checks() []WideCheck {
	return append([]WideCheck(nil), c.checks...)
}

// HackProcessor applies collected transforms and wide checks.
type HackProcessor struct {
	static    *Signature
	collected *Collected
}

// NewHackProcessor collects transforms from extras and table.
// static is the signature handed to NeedsContext transforms.
func NewHackProcessor(static, extras *Signature, table *Table) *HackProcessor {
	return &HackProcessor{
		static:    static,
		collected: Collect(extras, table),
	}
}

// ShouldProcess implements Processor.
func (p *HackProcessor) ShouldProcess(name string) bool {
	_, ok := p.collected.hacks[name]
	return ok
}

// ProcessArg implements Processor.
func (p *HackProcessor) ProcessArg(arg *Arg, _ *Context) (any, error) {
	switch h := p.collected.hacks[arg.Name].(type) {
	case *Hack:
		return h.Apply(p.static, arg)
	case nil:
		return nil, &UnconfiguredProcessorError{Arg: arg.Name, Func: "nil"}
	default:
		return nil, &UnconfiguredProcessorError{Arg: arg.Name, Func: fmt.Sprintf("%T", h)}
	}
}

// WideChecks implements Processor.
func (p *HackProcessor) WideChecks() []WideCheck {
	return p.collected.checks
}
