// Package render exports a classified structure tree as markdown and HTML
// for downstream presentation.
package render

import (
	"fmt"
	"strings"

	"github.com/bookstruct/bookstruct/internal/book"
)

// Markdown flattens the tree into a markdown document. Part and chapter
// titles become H1/H2 headings shifted by nesting, code blocks become
// fenced blocks, and exercise-tagged content is set off with blockquotes.
func Markdown(root *book.Node) string {
	var sb strings.Builder
	writeNode(&sb, root, 0)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *book.Node, depth int) {
	switch n.Kind {
	case book.KindRoot:
		// No heading of its own.
	case book.KindBlock:
		writeBlock(sb, n.Block)
		return
	default:
		level := depth
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		title := n.Title
		switch {
		case n.Kind == book.KindPart && n.Roman != "":
			title = fmt.Sprintf("Part %s. %s", n.Roman, n.Title)
		case n.Kind == book.KindChapter && n.Number > 0:
			title = fmt.Sprintf("Chapter %d. %s", n.Number, n.Title)
		}
		fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", level), title)
	}

	for _, c := range n.Children {
		writeNode(sb, c, depth+1)
	}
}

func writeBlock(sb *strings.Builder, b *book.Block) {
	if b == nil || strings.TrimSpace(b.Text) == "" {
		return
	}
	text := b.Text
	switch {
	case b.Role.IsCode():
		fmt.Fprintf(sb, "```\n%s\n```\n\n", strings.TrimRight(text, "\n"))
	case b.Tag != book.TagNone:
		for _, line := range strings.Split(text, "\n") {
			fmt.Fprintf(sb, "> %s\n", line)
		}
		sb.WriteString("\n")
	default:
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
}
