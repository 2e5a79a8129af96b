package sidebar

import (
	"path"
	"sort"

	"github.com/disiqueira/gotree/v3"
)

// NodeType distinguishes doc links from categories.
type NodeType string

const (
	DocNode      NodeType = "doc"
	CategoryNode NodeType = "category"
)

// Item is a doc candidate for the sidebar.
type Item struct {
	DocID     string
	Label     string
	Permalink string
	Position  *float64
	// Path is the source path relative to the docs root, slash separated.
	Path string
	// Index marks the doc that links its directory's category.
	Index    bool
	Unlisted bool
}

// Node is one entry of the sidebar tree. Categories may link a doc through
// DocID when their directory has an index doc.
type Node struct {
	Type      NodeType `json:"type"`
	Label     string   `json:"label"`
	DocID     string   `json:"docId,omitempty"`
	Permalink string   `json:"permalink,omitempty"`
	Position  *float64 `json:"position,omitempty"`
	Collapsed bool     `json:"collapsed,omitempty"`
	ClassName string   `json:"className,omitempty"`
	Items     []*Node  `json:"items,omitempty"`

	sortKey string
}

// Sidebar is a named navigation tree.
type Sidebar struct {
	Name  string  `json:"name"`
	Items []*Node `json:"items"`
}

// Build groups items per directory. Unlisted items are skipped; categories
// take labels and positions from categories, falling back to the directory
// name and its number prefix.
func Build(name string, items []Item, categories map[string]Category) *Sidebar {
	root := &Node{Type: CategoryNode}
	dirs := map[string]*Node{".": root}

	var ensure func(dir string) *Node
	ensure = func(dir string) *Node {
		if node, ok := dirs[dir]; ok {
			return node
		}
		parent := ensure(path.Dir(dir))
		base := path.Base(dir)
		meta := categories[dir]

		node := &Node{
			Type:      CategoryNode,
			Label:     meta.Label,
			Position:  meta.Position,
			Collapsed: meta.Collapsed == nil || *meta.Collapsed,
			ClassName: meta.ClassName,
			sortKey:   base,
		}
		if node.Label == "" {
			node.Label = Humanize(base)
		}
		if node.Position == nil {
			_, node.Position = StripNumberPrefix(base)
		}
		parent.Items = append(parent.Items, node)
		dirs[dir] = node
		return node
	}

	for _, item := range items {
		if item.Unlisted {
			continue
		}
		dir := path.Dir(item.Path)
		parent := ensure(dir)
		if item.Index && dir != "." && parent.DocID == "" {
			parent.DocID = item.DocID
			parent.Permalink = item.Permalink
			continue
		}
		parent.Items = append(parent.Items, &Node{
			Type:      DocNode,
			Label:     item.Label,
			DocID:     item.DocID,
			Permalink: item.Permalink,
			Position:  item.Position,
			sortKey:   path.Base(item.Path),
		})
	}

	sortNodes(root.Items)
	return &Sidebar{Name: name, Items: root.Items}
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		switch {
		case a.Position != nil && b.Position != nil && *a.Position != *b.Position:
			return *a.Position < *b.Position
		case a.Position != nil && b.Position == nil:
			return true
		case a.Position == nil && b.Position != nil:
			return false
		}
		return a.sortKey < b.sortKey
	})
	for _, node := range nodes {
		sortNodes(node.Items)
	}
}

// Flatten lists every linked node in navigation order: a category's own doc
// comes before its children.
func (s *Sidebar) Flatten() []*Node {
	if s == nil {
		return nil
	}
	var out []*Node
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, node := range nodes {
			if node.DocID != "" {
				out = append(out, node)
			}
			walk(node.Items)
		}
	}
	walk(s.Items)
	return out
}

// Print renders the tree as indented text.
func (s *Sidebar) Print() string {
	if s == nil {
		return ""
	}
	tree := gotree.New(s.Name)
	var add func(parent gotree.Tree, nodes []*Node)
	add = func(parent gotree.Tree, nodes []*Node) {
		for _, node := range nodes {
			label := node.Label
			if node.Permalink != "" {
				label += " (" + node.Permalink + ")"
			}
			add(parent.Add(label), node.Items)
		}
	}
	add(tree, s.Items)
	return tree.Print()
}
