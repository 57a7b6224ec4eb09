package classify

import (
	"regexp"
	"strings"
)

// PDF extractors hand back ligature glyphs and typographic punctuation that
// break pattern matching and code execution. Replaced with ASCII forms.
var ligatures = strings.NewReplacer(
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "--",
	"…", "...",
	" ", " ",
)

// CleanText normalizes text extracted from a document page.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	return ligatures.Replace(text)
}

var (
	pageNumberLine = regexp.MustCompile(`^\d{1,4}$`)
	chapterHeader  = regexp.MustCompile(`^Chapter \d+[:.]\s`)
)

// CleanCodeText removes page furniture that crept into code blocks while
// preserving indentation.
func CleanCodeText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if pageNumberLine.MatchString(stripped) {
			continue
		}
		if chapterHeader.MatchString(stripped) {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

// DetectREPL reports whether code text looks like an interactive session:
// at least one prompt line, and prompts making up over a fifth of the
// lines.
func DetectREPL(text string) bool {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return false
	}
	lines := strings.Split(stripped, "\n")
	prompts := 0
	for _, line := range lines {
		if strings.HasPrefix(line, ">>>") || strings.HasPrefix(line, "...") {
			prompts++
		}
	}
	return prompts >= 1 && float64(prompts)/float64(len(lines)) > 0.2
}

// StripREPLPrompts converts an interactive session into runnable source by
// keeping prompt lines (minus the prompt) and dropping output lines.
func StripREPLPrompts(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var code []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, ">>> "):
			code = append(code, line[4:])
		case strings.HasPrefix(line, "... "):
			code = append(code, line[4:])
		case strings.HasPrefix(line, ">>>"):
			code = append(code, line[3:])
		case strings.HasPrefix(line, "..."):
			code = append(code, line[3:])
		}
	}
	return strings.Join(code, "\n")
}
