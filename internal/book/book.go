package book

// TextRun is the atomic unit of input: one contiguous span of text sharing
// font, size, style, and position, as extracted from a page. Runs are not
// mutated after extraction.
type TextRun struct {
	PageIndex int     `json:"page_index"`
	Text      string  `json:"text"`
	Font      string  `json:"font"`
	Size      float64 `json:"size"`
	Bold      bool    `json:"bold"`
	Italic    bool    `json:"italic"`

	// Bounding box in page points, origin at the top-left corner,
	// y increasing downward.
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`

	// Page dimensions, carried on the run so margin checks need no
	// side lookup.
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
}

// Page is one page of extracted runs in reading order.
type Page struct {
	Index  int
	Width  float64
	Height float64
	Runs   []TextRun
}

// Document is the full run sequence for one source, page-ordered.
type Document struct {
	SourceID string
	Title    string
	Pages    []Page
}

// RunCount returns the total number of runs across all pages.
func (d *Document) RunCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Runs)
	}
	return n
}

// Runs returns all runs flattened in document order.
func (d *Document) Runs() []TextRun {
	out := make([]TextRun, 0, d.RunCount())
	for _, p := range d.Pages {
		out = append(out, p.Runs...)
	}
	return out
}
