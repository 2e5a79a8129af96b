package render

import (
	_ "embed"
	"html/template"
	"io"
	"strings"

	"github.com/goliatone/go-docsite/internal/components"
	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/markup"
	"github.com/goliatone/go-docsite/internal/sidebar"
)

//go:embed templates/page.html
var pageTemplateSource string

// PageTemplate is the full HTML shell around a rendered doc.
var PageTemplate = template.Must(template.New("page").Parse(pageTemplateSource))

// ShellOptions carries site level values for the page shell.
type ShellOptions struct {
	SiteTitle   string
	Lang        string
	SiteURL     string
	Stylesheets []string
}

// NavItem is one sidebar entry prepared for the shell.
type NavItem struct {
	Label     string
	Permalink string
	ClassName string
	Active    bool
	Collapsed bool
	Items     []NavItem
}

// NavTree is a sidebar prepared for the shell.
type NavTree struct {
	Name  string
	Items []NavItem
}

type shellData struct {
	Lang        string
	Title       string
	SiteTitle   string
	Description string
	Canonical   string
	Stylesheets []string
	Sidebar     *NavTree
	Body        template.HTML
	Tags        []content.Tag
	EditURL     string
	Previous    *content.NavLink
	Next        *content.NavLink
	TOC         []markup.TocEntry
}

// Document writes a complete HTML page for doc: head metadata, the sidebar
// with the current page marked, the rendered body, tags, the edit link,
// pagination and the table of contents.
func Document(w io.Writer, doc *content.Doc, nav *sidebar.Sidebar, comps *components.Map, opts ShellOptions) error {
	if doc == nil {
		return ErrNilDoc
	}
	body, err := HTML(doc, comps)
	if err != nil {
		return err
	}
	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}
	data := shellData{
		Lang:        lang,
		Title:       doc.Metadata.Title,
		SiteTitle:   opts.SiteTitle,
		Description: doc.Metadata.Description,
		Stylesheets: opts.Stylesheets,
		Sidebar:     NewNavTree(nav, doc.Metadata.Permalink),
		Body:        template.HTML(body),
		Tags:        doc.Metadata.Tags,
		EditURL:     doc.Metadata.EditURL,
		Previous:    doc.Metadata.Previous,
		Next:        doc.Metadata.Next,
		TOC:         doc.TOC,
	}
	if opts.SiteURL != "" {
		data.Canonical = strings.TrimSuffix(opts.SiteURL, "/") + doc.Metadata.Permalink
	}
	return PageTemplate.Execute(w, data)
}

// NewNavTree marks the entry linking active and expands the categories
// above it. It returns nil for a nil or empty sidebar.
func NewNavTree(nav *sidebar.Sidebar, active string) *NavTree {
	if nav == nil || len(nav.Items) == 0 {
		return nil
	}
	items, _ := navItems(nav.Items, active)
	return &NavTree{Name: nav.Name, Items: items}
}

func navItems(nodes []*sidebar.Node, active string) ([]NavItem, bool) {
	items := make([]NavItem, 0, len(nodes))
	found := false
	for _, node := range nodes {
		children, childActive := navItems(node.Items, active)
		item := NavItem{
			Label:     node.Label,
			Permalink: node.Permalink,
			ClassName: node.ClassName,
			Active:    node.Permalink != "" && node.Permalink == active,
			Collapsed: node.Collapsed && !childActive,
			Items:     children,
		}
		if item.Active || childActive {
			found = true
		}
		items = append(items, item)
	}
	return items, found
}
