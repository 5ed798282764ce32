package artdeco

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// registryKey combines target and policy for cache lookup.
type registryKey struct {
	target  Target
	resolve bool
	extras  bool
}

var (
	registry   = make(map[registryKey]*Signature)
	registryMu sync.RWMutex
)

// Cached returns a cached signature or analyzes t.
// Signatures are cached by target and policy. Targets whose dynamic value
// is not comparable, and policies with a custom resolver, are never cached.
func Cached(ctx context.Context, t Target, policy TypePolicy) (*Signature, error) {
	if policy.resolver != nil || !reflect.ValueOf(t).Comparable() {
		return Analyze(ctx, t, policy)
	}
	key := registryKey{target: t, resolve: policy.resolve, extras: policy.extras}

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[key]; ok {
		registryMu.RUnlock()
		return cached, nil
	}
	registryMu.RUnlock()

	// Slow path: analyze and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[key]; ok {
		return cached, nil
	}

	sig, err := Analyze(ctx, t, policy)
	if err != nil {
		return nil, err
	}

	registry[key] = sig
	return sig, nil
}

// Reset clears the signature cache.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[registryKey]*Signature)
}

var (
	named   = make(map[string]any)
	namedMu sync.RWMutex
)

// Register makes a *Hack or *Validator available to struct tags by name.
// Registering a name twice replaces the previous marker.
func Register(name string, marker any) error {
	switch m := marker.(type) {
	case *Hack:
		if m.Mode() == Unmarked {
			return &UnconfiguredProcessorError{Arg: name, Func: m.String()}
		}
	case *Validator:
	default:
		return &UnconfiguredProcessorError{Arg: name, Func: fmt.Sprintf("%T", marker)}
	}

	namedMu.Lock()
	defer namedMu.Unlock()
	named[name] = marker
	return nil
}

// Lookup returns the marker registered under name.
func Lookup(name string) (any, bool) {
	namedMu.RLock()
	defer namedMu.RUnlock()
	m, ok := named[name]
	return m, ok
}

// Registered lists registered marker names in sorted order.
func Registered() []string {
	namedMu.RLock()
	defer namedMu.RUnlock()
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func lookupHack(name string) (*Hack, bool) {
	m, ok := Lookup(name)
	if !ok {
		return nil, false
	}
	h, ok := m.(*Hack)
	return h, ok
}

func lookupValidator(name string) (*Validator, bool) {
	m, ok := Lookup(name)
	if !ok {
		return nil, false
	}
	v, ok := m.(*Validator)
	return v, ok
}
