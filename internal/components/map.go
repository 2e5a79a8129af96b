package components

import "sort"

// Map is an immutable mapping from element kind to Component. A nil *Map
// behaves like an empty map.
type Map struct {
	entries map[string]Component
}

// NewMap copies entries into a new Map. Nil components are skipped.
func NewMap(entries map[string]Component) *Map {
	m := &Map{entries: make(map[string]Component, len(entries))}
	for kind, component := range entries {
		if component != nil {
			m.entries[kind] = component
		}
	}
	return m
}

// Empty returns a map without entries.
func Empty() *Map {
	return &Map{entries: map[string]Component{}}
}

// Get looks up the component for kind.
func (m *Map) Get(kind string) (Component, bool) {
	if m == nil {
		return nil, false
	}
	component, ok := m.entries[kind]
	return component, ok
}

// Len reports the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys lists the mapped kinds in sorted order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.entries))
	for kind := range m.entries {
		keys = append(keys, kind)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new map holding every entry of m with override's entries
// on top. A nil or empty override returns m unchanged.
func (m *Map) Merge(override *Map) *Map {
	if override.Len() == 0 && m != nil {
		return m
	}
	merged := &Map{entries: make(map[string]Component, m.Len()+override.Len())}
	if m != nil {
		for kind, component := range m.entries {
			merged.entries[kind] = component
		}
	}
	if override != nil {
		for kind, component := range override.entries {
			merged.entries[kind] = component
		}
	}
	return merged
}

// With returns a copy of m with kind bound to component.
func (m *Map) With(kind string, component Component) *Map {
	return m.Merge(NewMap(map[string]Component{kind: component}))
}

func (*Map) isOverride() {}

// Defaults returns the process default map: plain HTML elements for every
// kind the markup converter emits plus the admonition box. No wrapper is set.
func Defaults() *Map {
	entries := map[string]Component{
		"admonition": Admonition(),
	}
	for _, tag := range []string{
		"h1", "h2", "h3", "h4", "h5", "h6", "header", "p", "ul", "ol", "li",
		"pre", "code", "a", "strong", "em", "del", "blockquote", "hr", "img",
		"br", "input", "sup", "section", "div", "dl", "dt", "dd",
		"table", "thead", "tbody", "tr", "th", "td",
	} {
		entries[tag] = Plain(tag)
	}
	return NewMap(entries)
}
