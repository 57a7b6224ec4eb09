package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/bookstruct/bookstruct/internal/book"
	pdflib "github.com/ledongthuc/pdf"
)

// Letter-size fallback when a page carries no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// PDFExtractor reads positioned text with font name and size from a PDF.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(r io.Reader, filename string) (*book.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "bookstruct-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	doc := &book.Document{
		Title: strings.TrimSuffix(filename, ".pdf"),
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		width, height := pageSize(page)
		bp := book.Page{Index: i - 1, Width: width, Height: height}
		bp.Runs = pageRuns(page, i-1, width, height)
		doc.Pages = append(doc.Pages, bp)
	}
	return doc, nil
}

// pageRuns groups the page's raw text fragments into runs: consecutive
// fragments sharing font, size, and baseline become one run, with a space
// inserted across word gaps.
func pageRuns(page pdflib.Page, pageIndex int, width, height float64) []book.TextRun {
	content := page.Content()

	var runs []book.TextRun
	var cur *book.TextRun
	var lastXEnd, lastBaseline float64
	var text strings.Builder

	flush := func() {
		if cur != nil {
			cur.Text = text.String()
			if strings.TrimSpace(cur.Text) != "" {
				runs = append(runs, *cur)
			}
			cur = nil
			text.Reset()
		}
	}

	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = 1
		}
		// PDF y runs bottom-up from the baseline; the pipeline wants
		// top-left origin boxes.
		y1 := height - t.Y
		y0 := y1 - size

		sameRun := cur != nil &&
			cur.Font == t.Font &&
			math.Abs(cur.Size-t.FontSize) < 0.05 &&
			math.Abs(t.Y-lastBaseline) < 0.5

		if !sameRun {
			flush()
			cur = &book.TextRun{
				PageIndex:  pageIndex,
				Font:       t.Font,
				Size:       t.FontSize,
				Bold:       boldFont(t.Font),
				Italic:     italicFont(t.Font),
				X0:         t.X,
				Y0:         y0,
				X1:         t.X + t.W,
				Y1:         y1,
				PageWidth:  width,
				PageHeight: height,
			}
		} else {
			// Word gap within the same line.
			if t.X-lastXEnd > 0.25*size {
				text.WriteString(" ")
			}
			if x1 := t.X + t.W; x1 > cur.X1 {
				cur.X1 = x1
			}
			if t.X < cur.X0 {
				cur.X0 = t.X
			}
		}
		text.WriteString(t.S)
		lastXEnd = t.X + t.W
		lastBaseline = t.Y
	}
	flush()
	return runs
}

// pageSize reads the page MediaBox, walking up to the page tree parent when
// the page itself does not carry one.
func pageSize(page pdflib.Page) (width, height float64) {
	mb := page.V.Key("MediaBox")
	node := page.V
	for depth := 0; mb.IsNull() && depth < 16; depth++ {
		node = node.Key("Parent")
		if node.IsNull() {
			break
		}
		mb = node.Key("MediaBox")
	}
	if mb.IsNull() || mb.Len() < 4 {
		return defaultPageWidth, defaultPageHeight
	}
	width = mb.Index(2).Float64() - mb.Index(0).Float64()
	height = mb.Index(3).Float64() - mb.Index(1).Float64()
	if width <= 0 || height <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return width, height
}

// PDF fonts encode weight and slant in the name ("Times-BoldItalic",
// "ABCDEF+Helvetica-Oblique").
func boldFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") || strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy")
}

func italicFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")
}
