// Package structure builds the part/chapter/section tree from assembled
// content blocks.
package structure

import (
	"fmt"
	"strings"

	"github.com/bookstruct/bookstruct/internal/book"
	"github.com/bookstruct/bookstruct/internal/profile"
)

// state enumerates where the builder currently is in the document.
type state int

const (
	stateFrontMatter state = iota
	stateInPart
	stateInChapter
	stateInSection
	stateInSubsection
)

// rank orders node kinds by nesting depth so the open-node stack can be
// popped to the right level before opening a new node.
func rank(k book.Kind) int {
	switch k {
	case book.KindRoot:
		return 0
	case book.KindPart:
		return 1
	case book.KindChapter:
		return 2
	case book.KindSection:
		return 3
	case book.KindSubsection:
		return 4
	}
	return 5
}

// builder is an explicit state machine over block roles with a stack of
// open nodes. Centralizing the monotonicity and implicit-chapter rules here
// keeps them testable in isolation.
type builder struct {
	p     *profile.Profile
	state state
	stack []*book.Node // root at the bottom, innermost open node on top

	lastChapterNum int
	haveChapter    bool
	lastPartNum    int
	havePart       bool
	sawRealChapter bool

	tag      string // current exercise tag applied to leaves
	warnings []book.Warning
}

// Build walks the block sequence and returns the root node plus any
// structural warnings. The tree is always complete and usable; warnings are
// advisory. A document with no detected chapters comes back as a single
// front-matter chapter holding everything.
func Build(blocks []book.Block, p *profile.Profile) (*book.Node, []book.Warning) {
	root := &book.Node{Kind: book.KindRoot}
	b := &builder{p: p, stack: []*book.Node{root}}

	for i := range blocks {
		b.feed(&blocks[i])
	}

	if !b.sawRealChapter && len(blocks) > 0 {
		b.warn(book.WarnNoChapters, "no chapter boundaries matched; all content under a front-matter chapter", blocks[0].PageStart)
	}
	return root, b.warnings
}

func (b *builder) feed(blk *book.Block) {
	switch blk.Role {
	case book.RoleHeading1:
		b.tag = book.TagNone
		b.heading1(blk)
	case book.RoleHeading2:
		b.tag = book.TagNone
		b.openSection(blk, book.KindSection)
		b.state = stateInSection
	case book.RoleHeading3:
		b.tag = book.TagNone
		b.openSection(blk, book.KindSubsection)
		b.state = stateInSubsection
	default:
		b.leaf(blk)
	}
}

// heading1 resolves the boundary patterns. Part matches take priority over
// chapter matches when a line satisfies both.
func (b *builder) heading1(blk *book.Block) {
	text := strings.TrimSpace(blk.Text)

	if m := b.p.PartRE().FindStringSubmatch(text); m != nil {
		b.openPart(blk, text, m)
		return
	}
	if m := b.p.ChapterRE().FindStringSubmatch(text); m != nil {
		b.openChapter(blk, text, m)
		return
	}
	// A large heading that is no boundary at all: a top-level section.
	b.openSection(blk, book.KindSection)
	b.state = stateInSection
}

func (b *builder) openPart(blk *book.Block, text string, m []string) {
	roman := ""
	num := 0
	if len(m) > 1 {
		roman = m[1]
		num = parseNumber(roman)
	}
	if b.havePart && num <= b.lastPartNum {
		b.warn(book.WarnPartRegression,
			fmt.Sprintf("part number %d follows %d", num, b.lastPartNum), blk.PageStart)
	}
	b.lastPartNum = num
	b.havePart = true

	node := &book.Node{
		Kind:   book.KindPart,
		Title:  titleAfter(text, m),
		Number: num,
		Roman:  roman,
	}
	b.popTo(book.KindPart)
	b.top().AddChild(node)
	b.stack = append(b.stack, node)
	b.state = stateInPart
}

func (b *builder) openChapter(blk *book.Block, text string, m []string) {
	num := 0
	if len(m) > 1 {
		num = parseNumber(m[1])
	}
	// Numbering belongs to the source material: a regression is reported,
	// never corrected.
	if b.haveChapter && num <= b.lastChapterNum {
		b.warn(book.WarnChapterRegression,
			fmt.Sprintf("chapter number %d follows %d", num, b.lastChapterNum), blk.PageStart)
	}
	b.lastChapterNum = num
	b.haveChapter = true
	b.sawRealChapter = true

	node := &book.Node{
		Kind:   book.KindChapter,
		Title:  titleAfter(text, m),
		Number: num,
	}
	b.popTo(book.KindChapter)
	b.top().AddChild(node)
	b.stack = append(b.stack, node)
	b.state = stateInChapter
}

// openSection opens a section or subsection under the current chapter,
// creating an implicit front-matter chapter first when none is open. A
// premature section header is not an error condition.
func (b *builder) openSection(blk *book.Block, kind book.Kind) {
	if kind == book.KindSubsection && rank(b.top().Kind) < rank(book.KindSection) {
		// Subsection with no enclosing section: model it as a section.
		kind = book.KindSection
	}
	b.ensureChapter(blk.PageStart, true)
	node := &book.Node{Kind: kind, Title: strings.TrimSpace(blk.Text)}
	b.popTo(kind)
	b.top().AddChild(node)
	b.stack = append(b.stack, node)
}

// leaf attaches a body or code block to the innermost open node, tracking
// exercise tagging.
func (b *builder) leaf(blk *book.Block) {
	if blk.Role == book.RoleBody {
		text := strings.TrimSpace(blk.Text)
		if re := b.p.ExerciseStartRE(); re != nil && re.MatchString(text) {
			b.tag = book.TagExercise
		}
		if b.tag != book.TagNone {
			if re := b.p.ExerciseAnswerRE(); re != nil && re.MatchString(text) {
				b.tag = book.TagAnswer
			}
		}
	}
	b.ensureChapter(blk.PageStart, false)

	copied := *blk
	copied.Tag = b.tag
	b.top().AddChild(&book.Node{Kind: book.KindBlock, Block: &copied})
}

// ensureChapter guarantees an open chapter, synthesizing a front-matter
// chapter for content that precedes the first recognized boundary. Plain
// front-matter text before the first chapter is normal; a section header
// landing here is worth an advisory.
func (b *builder) ensureChapter(page int, fromHeading bool) {
	if rank(b.top().Kind) >= rank(book.KindChapter) {
		return
	}
	node := &book.Node{Kind: book.KindChapter, Title: "Front Matter"}
	b.top().AddChild(node)
	b.stack = append(b.stack, node)
	if fromHeading {
		b.warn(book.WarnImplicitChapter, "section opened with no enclosing chapter", page)
	}
	b.state = stateInChapter
}

// popTo closes open nodes until the top of the stack can parent a node of
// the given kind.
func (b *builder) popTo(kind book.Kind) {
	for len(b.stack) > 1 && rank(b.top().Kind) >= rank(kind) {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *builder) top() *book.Node {
	return b.stack[len(b.stack)-1]
}

func (b *builder) warn(code, detail string, page int) {
	b.warnings = append(b.warnings, book.Warning{Code: code, Detail: detail, Page: page})
}

// titleAfter returns the heading text following the boundary match, falling
// back to the whole heading when nothing follows.
func titleAfter(text string, m []string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(text, m[0]))
	if rest == "" {
		return text
	}
	return rest
}
