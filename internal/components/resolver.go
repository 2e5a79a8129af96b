package components

import (
	"sync"
	"sync/atomic"
)

// Override is either a *Map merged onto the defaults or a *Derivation that
// computes the map from them.
type Override interface {
	isOverride()
}

// Derivation computes a component map from the defaults in effect.
type Derivation struct {
	fn func(defaults *Map) *Map
}

// Derive wraps fn as an Override. The function's result replaces the
// defaults; callers that want to extend them return defaults.Merge(...).
// fn runs under the resolver lock and must not call back into it.
func Derive(fn func(defaults *Map) *Map) *Derivation {
	return &Derivation{fn: fn}
}

func (*Derivation) isOverride() {}

func (d *Derivation) apply(defaults *Map) *Map {
	if d == nil || d.fn == nil {
		return defaults
	}
	if result := d.fn(defaults); result != nil {
		return result
	}
	return Empty()
}

// Stats reports memo activity.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Resolver merges overrides onto a fixed default map. It is safe for
// concurrent use.
type Resolver struct {
	defaults *Map

	mu   sync.Mutex
	memo map[Override]*Map

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewResolver returns a resolver over defaults. A nil defaults map is
// treated as empty.
func NewResolver(defaults *Map) *Resolver {
	if defaults == nil {
		defaults = Empty()
	}
	return &Resolver{
		defaults: defaults,
		memo:     map[Override]*Map{},
	}
}

// Defaults returns the resolver's default map.
func (r *Resolver) Defaults() *Map {
	return r.defaults
}

// Resolve returns the effective component map for override. A nil override
// yields the default map itself; repeated calls with the same override
// return the same *Map without re-invoking derivations.
func (r *Resolver) Resolve(override Override) *Map {
	if isNil(override) {
		r.hits.Add(1)
		return r.defaults
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if resolved, ok := r.memo[override]; ok {
		r.hits.Add(1)
		return resolved
	}
	r.misses.Add(1)

	var resolved *Map
	switch o := override.(type) {
	case *Map:
		resolved = r.defaults.Merge(o)
	case *Derivation:
		resolved = o.apply(r.defaults)
	default:
		resolved = r.defaults
	}
	r.memo[override] = resolved
	return resolved
}

// Nest returns a child resolver whose defaults are this resolver's
// resolution of override. With isolate the parent defaults are ignored and
// override applies to an empty map.
func (r *Resolver) Nest(override Override, isolate bool) *Resolver {
	if !isolate {
		return NewResolver(r.Resolve(override))
	}
	switch o := override.(type) {
	case *Map:
		if o != nil {
			return NewResolver(o)
		}
	case *Derivation:
		if o != nil {
			return NewResolver(o.apply(Empty()))
		}
	}
	return NewResolver(Empty())
}

// Stats returns memo hit and miss counters.
func (r *Resolver) Stats() Stats {
	return Stats{Hits: r.hits.Load(), Misses: r.misses.Load()}
}

func isNil(override Override) bool {
	switch o := override.(type) {
	case nil:
		return true
	case *Map:
		return o == nil
	case *Derivation:
		return o == nil
	}
	return false
}
