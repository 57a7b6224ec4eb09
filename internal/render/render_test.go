package render

import (
	"strings"
	"testing"

	"github.com/bookstruct/bookstruct/internal/book"
)

func sampleTree() *book.Node {
	root := &book.Node{Kind: book.KindRoot}
	part := &book.Node{Kind: book.KindPart, Title: "Fundamentals", Number: 1, Roman: "I"}
	ch := &book.Node{Kind: book.KindChapter, Title: "Getting Started", Number: 1}
	ch.AddChild(&book.Node{Kind: book.KindBlock, Block: &book.Block{
		Role: book.RoleBody, Text: "Welcome to the book.",
	}})
	sec := &book.Node{Kind: book.KindSection, Title: "Installation"}
	sec.AddChild(&book.Node{Kind: book.KindBlock, Block: &book.Block{
		Role: book.RoleCode, Text: "pip install example",
	}})
	sec.AddChild(&book.Node{Kind: book.KindBlock, Block: &book.Block{
		Role: book.RoleBody, Text: "What is pip?", Tag: book.TagExercise,
	}})
	ch.AddChild(sec)
	part.AddChild(ch)
	root.AddChild(part)
	return root
}

func TestMarkdown_Structure(t *testing.T) {
	md := Markdown(sampleTree())

	if !strings.Contains(md, "# Part I. Fundamentals") {
		t.Errorf("expected part heading, got:\n%s", md)
	}
	if !strings.Contains(md, "## Chapter 1. Getting Started") {
		t.Errorf("expected chapter heading, got:\n%s", md)
	}
	if !strings.Contains(md, "### Installation") {
		t.Errorf("expected section heading, got:\n%s", md)
	}
	if !strings.Contains(md, "```\npip install example\n```") {
		t.Errorf("expected fenced code block, got:\n%s", md)
	}
	if !strings.Contains(md, "> What is pip?") {
		t.Errorf("expected exercise blockquote, got:\n%s", md)
	}
	if !strings.Contains(md, "Welcome to the book.") {
		t.Errorf("expected body text, got:\n%s", md)
	}
}

func TestMarkdown_EmptyTree(t *testing.T) {
	md := Markdown(&book.Node{Kind: book.KindRoot})
	if md != "" {
		t.Errorf("expected empty output for empty tree, got %q", md)
	}
}

func TestHTML_RendersHeadingsAndCode(t *testing.T) {
	out, err := HTML(sampleTree())
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Fundamentals") {
		t.Errorf("expected h1 with part title, got:\n%s", out)
	}
	if !strings.Contains(out, "<pre>") {
		t.Errorf("expected pre block for code, got:\n%s", out)
	}
}

func TestOutline_ExtractsHeadingsInOrder(t *testing.T) {
	out, err := HTML(sampleTree())
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	entries, err := Outline(out)
	if err != nil {
		t.Fatalf("Outline failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 outline entries, got %d: %+v", len(entries), entries)
	}
	wantLevels := []int{1, 2, 3}
	wantText := []string{"Part I. Fundamentals", "Chapter 1. Getting Started", "Installation"}
	for i := range entries {
		if entries[i].Level != wantLevels[i] {
			t.Errorf("entry %d: level %d, want %d", i, entries[i].Level, wantLevels[i])
		}
		if entries[i].Text != wantText[i] {
			t.Errorf("entry %d: text %q, want %q", i, entries[i].Text, wantText[i])
		}
	}
}

func TestOutline_ToleratesMalformedHTML(t *testing.T) {
	entries, err := Outline("<h2>Unclosed heading<p>text")
	if err != nil {
		t.Fatalf("Outline failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one heading from repaired markup")
	}
	if entries[0].Level != 2 {
		t.Errorf("expected level 2, got %d", entries[0].Level)
	}
}
