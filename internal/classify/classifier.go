// Package classify assigns semantic roles to text runs and merges them into
// content blocks.
package classify

import (
	"github.com/bookstruct/bookstruct/internal/book"
	"github.com/bookstruct/bookstruct/internal/profile"
)

// Classify determines the role of a single run. It is a pure function of
// the run and the profile.
//
// The rule order matters: margin suppression runs first so page headers
// never leak into chapter titles, and the size-only H1 rule precedes the
// bold-gated levels because some books set chapter titles in a non-bold
// face at a distinctly large size.
func Classify(run book.TextRun, p *profile.Profile) book.Role {
	if inMargin(run, p) {
		return book.RoleSkip
	}
	if run.Size >= p.Heading1MinSize && p.AllowsHeadingFont(run.Font) {
		return book.RoleHeading1
	}
	if run.Size >= p.Heading2MinSize && run.Bold && p.AllowsHeadingFont(run.Font) {
		return book.RoleHeading2
	}
	if run.Size >= p.Heading3MinSize && run.Bold && p.AllowsHeadingFont(run.Font) {
		return book.RoleHeading3
	}
	if p.IsMonospace(run.Font) {
		return book.RoleCode
	}
	return book.RoleBody
}

// inMargin reports whether the run's bounding box falls inside one of the
// profile's margin bands. Coordinates are top-left origin, y down.
func inMargin(run book.TextRun, p *profile.Profile) bool {
	if run.Y1 <= p.MarginTop {
		return true
	}
	if run.PageHeight > 0 && run.Y0 >= run.PageHeight-p.MarginBottom {
		return true
	}
	if run.X1 <= p.MarginLeft {
		return true
	}
	if run.PageWidth > 0 && run.X0 >= run.PageWidth-p.MarginRight {
		return true
	}
	return false
}
