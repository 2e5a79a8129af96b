// Package components maps markup element kinds to renderable components and
// resolves caller overrides against a default map.
//
// A Resolver owns one default Map. Resolving without an override returns that
// Map itself; map overrides are shallow merged and derivations are invoked
// once with the defaults. Results are memoized per override for the lifetime
// of the Resolver, which callers scope to one rendering pass.
package components
