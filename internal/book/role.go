package book

// Role is the semantic classification assigned to a run or block.
type Role string

const (
	RoleHeading1 Role = "heading1"
	RoleHeading2 Role = "heading2"
	RoleHeading3 Role = "heading3"
	RoleBody     Role = "body"
	RoleCode     Role = "code"
	// RoleCodeREPL marks code that looks like an interactive session
	// (>>> prompts). Treated as code for structure purposes.
	RoleCodeREPL Role = "code_repl"
	// RoleSkip marks headers, footers and marginalia. Skip blocks are
	// dropped before structure building.
	RoleSkip Role = "skip"
)

// IsHeading reports whether the role is any heading level.
func (r Role) IsHeading() bool {
	return r == RoleHeading1 || r == RoleHeading2 || r == RoleHeading3
}

// IsCode reports whether the role is plain or REPL code.
func (r Role) IsCode() bool {
	return r == RoleCode || r == RoleCodeREPL
}

// Block tags applied by the structure builder's exercise tracking.
const (
	TagNone     = ""
	TagExercise = "exercise"
	TagAnswer   = "answer"
)

// Block is a maximal merge of consecutive same-role runs.
type Block struct {
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	PageStart int    `json:"page_start"`
	PageEnd   int    `json:"page_end"`
	RunCount  int    `json:"run_count"`
	Tag       string `json:"tag,omitempty"`
}
