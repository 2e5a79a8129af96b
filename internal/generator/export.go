package generator

import (
	"bytes"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/goliatone/go-docsite/internal/components"
	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/render"
)

// exportMarkdown converts the rendered doc body (without the page shell)
// back to Markdown.
func exportMarkdown(doc *content.Doc, comps *components.Map) (string, error) {
	node := render.Page(doc, comps)
	if node == nil {
		return "", render.ErrNilDoc
	}
	out, err := htmltomarkdown.ConvertNode(node)
	if err != nil {
		return "", fmt.Errorf("generator: markdown export %s: %w", doc.Metadata.ID, err)
	}
	return string(out), nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	compressor, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := compressor.Write(data); err != nil {
		_ = compressor.Close()
		return nil, err
	}
	if err := compressor.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
