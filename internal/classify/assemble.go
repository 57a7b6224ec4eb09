package classify

import (
	"context"
	"strings"

	"github.com/bookstruct/bookstruct/internal/book"
	"github.com/bookstruct/bookstruct/internal/profile"
)

// lineHeightFactor scales font size into an expected line height. A
// vertical jump beyond one line height means a new line rather than a
// continuation of the current one.
const lineHeightFactor = 1.2

// Assemble merges classified runs into blocks: a single forward pass over
// the document, no backtracking. A role change, a page boundary, or a
// skip-page range always terminates the current block. Skip-role blocks are
// discarded before returning; they never reach structure building.
//
// Cancellation is checked between pages. On cancellation the partial result
// is abandoned and ctx.Err() returned.
func Assemble(ctx context.Context, doc *book.Document, p *profile.Profile) ([]book.Block, error) {
	totalPages := len(doc.Pages)
	lastContent := totalPages - p.SkipPagesEnd

	var blocks []book.Block
	var cur *builder

	flush := func() {
		if cur != nil {
			blocks = append(blocks, cur.done())
			cur = nil
		}
	}

	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if page.Index < p.SkipPagesStart || page.Index >= lastContent {
			flush()
			continue
		}

		// Page boundary always terminates the current block.
		flush()

		for _, run := range page.Runs {
			text := CleanText(run.Text)
			if strings.TrimSpace(text) == "" {
				continue
			}
			role := Classify(run, p)

			if cur == nil || cur.role != role {
				flush()
				cur = newBuilder(role, run)
				cur.text.WriteString(text)
				continue
			}
			cur.append(run, text)
		}
	}
	flush()

	return finish(blocks), nil
}

// builder accumulates one in-progress block.
type builder struct {
	role      book.Role
	text      strings.Builder
	pageStart int
	pageEnd   int
	runCount  int
	prev      book.TextRun
}

func newBuilder(role book.Role, first book.TextRun) *builder {
	return &builder{
		role:      role,
		pageStart: first.PageIndex,
		pageEnd:   first.PageIndex,
		runCount:  1,
		prev:      first,
	}
}

func (b *builder) append(run book.TextRun, text string) {
	b.text.WriteString(b.joiner(run))
	b.text.WriteString(text)
	b.pageEnd = run.PageIndex
	b.runCount++
	b.prev = run
}

// joiner picks the separator between the previous run and the next one:
// a line break when the vertical position jumps beyond one line height
// (or, for code, onto any new baseline), a single space otherwise.
func (b *builder) joiner(run book.TextRun) string {
	dy := run.Y0 - b.prev.Y0
	lineHeight := b.prev.Size * lineHeightFactor
	if lineHeight <= 0 {
		lineHeight = 12.0
	}
	if dy > lineHeight {
		return "\n"
	}
	if b.role == book.RoleCode && dy > 0.1 {
		return "\n"
	}
	return " "
}

func (b *builder) done() book.Block {
	return book.Block{
		Role:      b.role,
		Text:      b.text.String(),
		PageStart: b.pageStart,
		PageEnd:   b.pageEnd,
		RunCount:  b.runCount,
	}
}

// finish drops skip blocks and post-processes code: scrubbing stray page
// furniture out of code text and retagging interactive sessions as REPL.
func finish(blocks []book.Block) []book.Block {
	out := make([]book.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Role == book.RoleSkip {
			continue
		}
		if b.Role == book.RoleCode {
			b.Text = CleanCodeText(b.Text)
			if strings.TrimSpace(b.Text) == "" {
				continue
			}
			if DetectREPL(b.Text) {
				b.Role = book.RoleCodeREPL
			}
		}
		out = append(out, b)
	}
	return out
}
