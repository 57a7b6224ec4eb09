package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bookstruct/bookstruct/internal/book"
	"github.com/fumiama/go-docx"
)

// DOCX carries no page geometry, so the extractor synthesizes positions:
// one long page with paragraphs stacked a line apart, and font metadata
// derived from paragraph styles. Classification downstream stays entirely
// profile-driven.
const (
	docxPageWidth  = 612.0
	docxLineHeight = 14.0
	docxTopOffset  = 100.0
)

// Synthetic sizes chosen to clear the default profile thresholds.
var docxHeadingSizes = map[int]float64{1: 20.0, 2: 15.0, 3: 12.5}

// DOCXExtractor derives runs from DOCX paragraph and style information.
type DOCXExtractor struct{}

func (e *DOCXExtractor) Extract(r io.Reader, filename string) (*book.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "bookstruct-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	out := &book.Document{
		Title: strings.TrimSuffix(filename, ".docx"),
	}
	page := book.Page{Index: 0, Width: docxPageWidth}

	y := docxTopOffset
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}

		run := book.TextRun{
			PageIndex: 0,
			Text:      text,
			Font:      "Calibri",
			Size:      10.0,
			X0:        docxTopOffset,
			Y0:        y,
			X1:        docxPageWidth - docxTopOffset,
			Y1:        y + docxLineHeight,
			PageWidth: docxPageWidth,
		}
		switch {
		case headingLevel(para) > 0:
			level := headingLevel(para)
			if level > 3 {
				level = 3
			}
			run.Size = docxHeadingSizes[level]
			run.Bold = true
		case codeStyle(para):
			run.Font = "Courier New"
			run.Size = 9.0
		}

		page.Runs = append(page.Runs, run)
		y += docxLineHeight * 2
	}

	out.Pages = []book.Page{page}
	return out, nil
}

func headingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch style {
	case "heading1":
		return 1
	case "heading2":
		return 2
	case "heading3":
		return 3
	case "heading4", "heading5", "heading6":
		return 3
	}
	return 0
}

func codeStyle(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := strings.ToLower(para.Properties.Style.Val)
	return strings.Contains(style, "code") || strings.Contains(style, "preformatted")
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
