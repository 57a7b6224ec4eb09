package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bookstruct/bookstruct/internal/book"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// HTML renders the tree to an HTML fragment by way of its markdown form.
func HTML(root *book.Node) (string, error) {
	source := Markdown(root)
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
