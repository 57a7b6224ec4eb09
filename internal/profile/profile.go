package profile

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultMonospaceFonts are font-family substrings that indicate code text
// in most technical books.
var DefaultMonospaceFonts = []string{
	"Courier",
	"Mono",
	"Consolas",
	"Menlo",
	"DejaVuSansMono",
	"LucidaConsole",
	"SourceCodePro",
	"Inconsolata",
	"FiraCode",
	"UbuntuMono",
	"LiberationMono",
}

// Default boundary patterns; case-insensitive.
const (
	DefaultChapterPattern = `^Chapter\s+(\d+)\s*[\.:]`
	DefaultPartPattern    = `^Part\s+([IVXLCDM]+)\s*[\.:]`
)

// Spec declares the tunable fields of a profile. It is the YAML shape and
// the argument to New; a compiled Profile is built from it.
type Spec struct {
	Name string `yaml:"name"`

	// Font size thresholds in points. Heading thresholds are reordered at
	// construction so H1 >= H2 >= H3 always holds.
	Heading1MinSize float64 `yaml:"heading1_min_size"`
	Heading2MinSize float64 `yaml:"heading2_min_size"`
	Heading3MinSize float64 `yaml:"heading3_min_size"`
	BodySize        float64 `yaml:"body_size"`
	CodeSize        float64 `yaml:"code_size"`

	// Font name substrings, matched case-insensitively.
	MonospaceFonts []string `yaml:"monospace_fonts"`
	// HeadingFonts, when non-empty, restricts heading roles to runs whose
	// font matches one of these substrings.
	HeadingFonts []string `yaml:"heading_fonts"`

	// Boundary patterns. Group 1 captures the chapter number / part numeral.
	ChapterPattern string `yaml:"chapter_pattern"`
	PartPattern    string `yaml:"part_pattern"`

	// Exercise patterns; empty disables exercise tagging.
	ExerciseStartPattern  string `yaml:"exercise_start_pattern"`
	ExerciseAnswerPattern string `yaml:"exercise_answer_pattern"`

	// Pages to drop at the start and end of the document (front matter,
	// index).
	SkipPagesStart int `yaml:"skip_pages_start"`
	SkipPagesEnd   int `yaml:"skip_pages_end"`

	// Content margins in points. Runs inside these bands are headers,
	// footers or marginalia and classify as skip.
	MarginTop    float64 `yaml:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom"`
	MarginLeft   float64 `yaml:"margin_left"`
	MarginRight  float64 `yaml:"margin_right"`
}

// Profile is an immutable, compiled classification configuration for one
// book. Build one with New; do not mutate after construction.
type Profile struct {
	Spec

	chapterRE  *regexp.Regexp
	partRE     *regexp.Regexp
	exStartRE  *regexp.Regexp
	exAnswerRE *regexp.Regexp

	monoLower    []string
	headingLower []string
}

// New compiles a Spec into a Profile. Zero-valued fields fall back to the
// defaults above. Reversed heading thresholds are reordered, not rejected;
// an invalid regexp is a configuration error.
func New(s Spec) (*Profile, error) {
	if s.Heading1MinSize == 0 {
		s.Heading1MinSize = 18.0
	}
	if s.Heading2MinSize == 0 {
		s.Heading2MinSize = 14.0
	}
	if s.Heading3MinSize == 0 {
		s.Heading3MinSize = 12.0
	}
	if s.BodySize == 0 {
		s.BodySize = 10.0
	}
	if s.CodeSize == 0 {
		s.CodeSize = 9.0
	}
	if len(s.MonospaceFonts) == 0 {
		s.MonospaceFonts = append([]string(nil), DefaultMonospaceFonts...)
	}
	if s.ChapterPattern == "" {
		s.ChapterPattern = DefaultChapterPattern
	}
	if s.PartPattern == "" {
		s.PartPattern = DefaultPartPattern
	}
	if s.MarginTop == 0 {
		s.MarginTop = 72.0
	}
	if s.MarginBottom == 0 {
		s.MarginBottom = 72.0
	}
	if s.MarginLeft == 0 {
		s.MarginLeft = 54.0
	}
	if s.MarginRight == 0 {
		s.MarginRight = 54.0
	}

	// Enforce H1 >= H2 >= H3 regardless of supplied order.
	sizes := []float64{s.Heading1MinSize, s.Heading2MinSize, s.Heading3MinSize}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	s.Heading1MinSize, s.Heading2MinSize, s.Heading3MinSize = sizes[0], sizes[1], sizes[2]

	p := &Profile{Spec: s}

	var err error
	if p.chapterRE, err = regexp.Compile("(?i)" + s.ChapterPattern); err != nil {
		return nil, fmt.Errorf("profile %q: chapter_pattern: %w", s.Name, err)
	}
	if p.partRE, err = regexp.Compile("(?i)" + s.PartPattern); err != nil {
		return nil, fmt.Errorf("profile %q: part_pattern: %w", s.Name, err)
	}
	if s.ExerciseStartPattern != "" {
		if p.exStartRE, err = regexp.Compile("(?i)" + s.ExerciseStartPattern); err != nil {
			return nil, fmt.Errorf("profile %q: exercise_start_pattern: %w", s.Name, err)
		}
	}
	if s.ExerciseAnswerPattern != "" {
		if p.exAnswerRE, err = regexp.Compile("(?i)" + s.ExerciseAnswerPattern); err != nil {
			return nil, fmt.Errorf("profile %q: exercise_answer_pattern: %w", s.Name, err)
		}
	}

	p.monoLower = lowerAll(s.MonospaceFonts)
	p.headingLower = lowerAll(s.HeadingFonts)
	return p, nil
}

// MustNew is New for built-in specs known to be valid.
func MustNew(s Spec) *Profile {
	p, err := New(s)
	if err != nil {
		panic(err)
	}
	return p
}

// IsMonospace reports whether a font name matches any monospace substring.
func (p *Profile) IsMonospace(fontName string) bool {
	return matchAny(fontName, p.monoLower)
}

// AllowsHeadingFont reports whether a run in the given font may take a
// heading role. Always true when no heading fonts are configured.
func (p *Profile) AllowsHeadingFont(fontName string) bool {
	if len(p.headingLower) == 0 {
		return true
	}
	return matchAny(fontName, p.headingLower)
}

// ChapterRE returns the compiled chapter boundary pattern.
func (p *Profile) ChapterRE() *regexp.Regexp { return p.chapterRE }

// PartRE returns the compiled part boundary pattern.
func (p *Profile) PartRE() *regexp.Regexp { return p.partRE }

// ExerciseStartRE returns the compiled exercise start pattern, or nil.
func (p *Profile) ExerciseStartRE() *regexp.Regexp { return p.exStartRE }

// ExerciseAnswerRE returns the compiled exercise answer pattern, or nil.
func (p *Profile) ExerciseAnswerRE() *regexp.Regexp { return p.exAnswerRE }

// Hash returns a stable hex digest of every field that affects
// classification. Any threshold, pattern or margin change changes the hash,
// which in turn changes the cache fingerprint.
func (p *Profile) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%.2f|%.2f|%.2f|%.2f|%.2f|",
		p.Name, p.Heading1MinSize, p.Heading2MinSize, p.Heading3MinSize,
		p.BodySize, p.CodeSize)
	fmt.Fprintf(h, "%s|%s|",
		strings.Join(p.MonospaceFonts, ","), strings.Join(p.HeadingFonts, ","))
	fmt.Fprintf(h, "%s|%s|%s|%s|",
		p.ChapterPattern, p.PartPattern,
		p.ExerciseStartPattern, p.ExerciseAnswerPattern)
	fmt.Fprintf(h, "%d|%d|%.2f|%.2f|%.2f|%.2f",
		p.SkipPagesStart, p.SkipPagesEnd,
		p.MarginTop, p.MarginBottom, p.MarginLeft, p.MarginRight)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func matchAny(fontName string, lowered []string) bool {
	if fontName == "" {
		return false
	}
	lower := strings.ToLower(fontName)
	for _, sub := range lowered {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
