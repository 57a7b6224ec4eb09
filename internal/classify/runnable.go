package classify

import "strings"

var codePrefixes = []string{
	">>>", "import ", "from ", "def ", "class ", "for ", "while ", "if ",
	"print", "with ", "#include", "int ", "void ", "#",
}

// Runnable filters code blocks down to those that look executable,
// dropping inline references and output-only fragments. REPL sessions are
// returned with their prompts stripped.
func Runnable(blocks []Snippet) []Snippet {
	var out []Snippet
	for _, s := range blocks {
		text := strings.TrimSpace(s.Text)
		if len(text) < 10 || !strings.Contains(text, "\n") {
			continue
		}
		if !looksLikeCode(text) {
			continue
		}
		if s.REPL {
			s.Text = StripREPLPrompts(text)
			if strings.TrimSpace(s.Text) == "" {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// Snippet is one extractable code block with its source location.
type Snippet struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Page    int    `json:"page"`
	REPL    bool   `json:"repl"`
	Chapter int    `json:"chapter,omitempty"`
}

func looksLikeCode(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		for _, prefix := range codePrefixes {
			if strings.HasPrefix(stripped, prefix) {
				return true
			}
		}
	}
	return false
}
