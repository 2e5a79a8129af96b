package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// GoldmarkParser implements interfaces.MarkdownParser using the goldmark engine.
// The parser is stateless so a single instance can be shared across render
// workers without locking.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
}

// NewGoldmarkParser constructs a parser with the supplied defaults. Empty
// extension lists fall back to GFM, footnotes and definition lists.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{
		defaultOptions: defaults,
	}
}

// Defaults exposes the options used by Parse.
func (p *GoldmarkParser) Defaults() interfaces.ParseOptions {
	return p.defaultOptions
}

// Parse satisfies interfaces.MarkdownParser using the parser's default configuration.
func (p *GoldmarkParser) Parse(markdown []byte) (ast.Node, error) {
	return p.ParseWithOptions(markdown, p.defaultOptions)
}

// ParseWithOptions parses Markdown into a document node. The returned AST
// references segments of markdown, so callers must keep the source alive for
// as long as they read text from the tree.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) (ast.Node, error) {
	engine := newGoldmarkEngine(opts)
	return engine.Parser().Parse(text.NewReader(markdown)), nil
}

// newGoldmarkEngine builds a goldmark.Markdown configured from opts. Unknown
// extension names are ignored. Heading ids are assigned by the markup
// converter, so only explicit {#id} attributes are parsed here.
func newGoldmarkEngine(opts interfaces.ParseOptions) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithParserOptions(parser.WithAttribute()),
		goldmark.WithExtensions(collectExtensions(opts.Extensions)...),
	)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// KnownExtension reports whether name maps onto a registered goldmark extension.
func KnownExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}
