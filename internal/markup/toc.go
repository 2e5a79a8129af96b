package markup

import "strings"

// Default heading range collected into a page table of contents.
const (
	DefaultTOCMinLevel = 2
	DefaultTOCMaxLevel = 3
)

// TocEntry is one heading listed in a page table of contents.
type TocEntry struct {
	Value string `json:"value"`
	ID    string `json:"id"`
	Level int    `json:"level"`
}

// ExtractTOC lists headings between minLevel and maxLevel in document order.
// Zero or out of range bounds fall back to the defaults; the header h1 is
// never included unless minLevel is 1.
func ExtractTOC(tree *Node, minLevel, maxLevel int) []TocEntry {
	minLevel, maxLevel = normalizeLevels(minLevel, maxLevel)

	entries := []TocEntry{}
	tree.Walk(func(n *Node) bool {
		level := headingLevel(n)
		if level == 0 {
			return true
		}
		if level >= minLevel && level <= maxLevel {
			id, _ := n.Attr("id")
			entries = append(entries, TocEntry{
				Value: strings.TrimSpace(n.TextContent()),
				ID:    id,
				Level: level,
			})
		}
		return false
	})
	return entries
}

func normalizeLevels(minLevel, maxLevel int) (int, int) {
	if minLevel < 1 || minLevel > 6 {
		minLevel = DefaultTOCMinLevel
	}
	if maxLevel < 1 || maxLevel > 6 {
		maxLevel = DefaultTOCMaxLevel
	}
	if maxLevel < minLevel {
		maxLevel = minLevel
	}
	return minLevel, maxLevel
}

func headingLevel(n *Node) int {
	if n == nil || n.Type != ElementNode || len(n.Kind) != 2 || n.Kind[0] != 'h' {
		return 0
	}
	level := int(n.Kind[1] - '0')
	if level < 1 || level > 6 {
		return 0
	}
	return level
}

// ContentTitle returns the text of the first h1, or "" when the page has none.
func ContentTitle(tree *Node) string {
	if h1 := tree.Find("h1"); h1 != nil {
		return strings.TrimSpace(h1.TextContent())
	}
	return ""
}

// Excerpt returns the first line of readable text that follows the page
// title. Code samples, rules and raw HTML are skipped.
func Excerpt(tree *Node) string {
	if tree == nil {
		return ""
	}
	for _, block := range tree.Children {
		if block.Type != ElementNode {
			continue
		}
		switch block.Kind {
		case "header", "h1", "pre", "hr", "img", "table":
			continue
		}
		if line := firstLine(block.TextContent()); line != "" {
			return line
		}
	}
	return ""
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
