package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	p, err := New(Spec{Name: "bare"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Heading1MinSize != 18.0 {
		t.Errorf("expected default H1 18.0, got %v", p.Heading1MinSize)
	}
	if p.Heading2MinSize != 14.0 {
		t.Errorf("expected default H2 14.0, got %v", p.Heading2MinSize)
	}
	if p.Heading3MinSize != 12.0 {
		t.Errorf("expected default H3 12.0, got %v", p.Heading3MinSize)
	}
	if p.MarginTop != 72.0 || p.MarginLeft != 54.0 {
		t.Errorf("expected default margins 72/54, got %v/%v", p.MarginTop, p.MarginLeft)
	}
	if p.ChapterPattern != DefaultChapterPattern {
		t.Errorf("expected default chapter pattern, got %q", p.ChapterPattern)
	}
}

func TestNew_ReordersHeadingThresholds(t *testing.T) {
	p, err := New(Spec{
		Name:            "scrambled",
		Heading1MinSize: 12.0,
		Heading2MinSize: 20.0,
		Heading3MinSize: 15.0,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Heading1MinSize != 20.0 || p.Heading2MinSize != 15.0 || p.Heading3MinSize != 12.0 {
		t.Errorf("expected thresholds reordered to 20/15/12, got %v/%v/%v",
			p.Heading1MinSize, p.Heading2MinSize, p.Heading3MinSize)
	}
}

func TestNew_InvalidPatternRejected(t *testing.T) {
	_, err := New(Spec{Name: "bad", ChapterPattern: `Chapter [(\d+`})
	if err == nil {
		t.Fatal("expected error for invalid chapter pattern")
	}
}

func TestProfile_PatternsCaseInsensitive(t *testing.T) {
	p := MustNew(Spec{Name: "ci"})
	if m := p.ChapterRE().FindStringSubmatch("CHAPTER 7: Strings"); m == nil || m[1] != "7" {
		t.Errorf("expected chapter pattern to match uppercase, got %v", m)
	}
	if m := p.PartRE().FindStringSubmatch("part iv. Functions"); m == nil || m[1] != "iv" {
		t.Errorf("expected part pattern to match lowercase roman, got %v", m)
	}
}

func TestProfile_IsMonospace(t *testing.T) {
	p := MustNew(Spec{Name: "mono"})
	cases := []struct {
		font string
		want bool
	}{
		{"CourierNewPSMT", true},
		{"DejaVuSansMono-Bold", true},
		{"consolas", true},
		{"Times-Roman", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := p.IsMonospace(tc.font); got != tc.want {
			t.Errorf("IsMonospace(%q) = %v, want %v", tc.font, got, tc.want)
		}
	}
}

func TestProfile_AllowsHeadingFont(t *testing.T) {
	open := MustNew(Spec{Name: "open"})
	if !open.AllowsHeadingFont("AnyFontAtAll") {
		t.Error("expected unrestricted profile to allow any heading font")
	}

	restricted := MustNew(Spec{Name: "restricted", HeadingFonts: []string{"Helvetica"}})
	if !restricted.AllowsHeadingFont("Helvetica-Bold") {
		t.Error("expected Helvetica-Bold to be allowed")
	}
	if restricted.AllowsHeadingFont("Times-Bold") {
		t.Error("expected Times-Bold to be rejected")
	}
}

func TestProfile_HashStableAndSensitive(t *testing.T) {
	a := MustNew(Spec{Name: "h", Heading1MinSize: 20.0})
	b := MustNew(Spec{Name: "h", Heading1MinSize: 20.0})
	if a.Hash() != b.Hash() {
		t.Error("expected identical specs to hash identically")
	}

	c := MustNew(Spec{Name: "h", Heading1MinSize: 21.0})
	if a.Hash() == c.Hash() {
		t.Error("expected threshold change to change the hash")
	}

	d := MustNew(Spec{Name: "h", Heading1MinSize: 20.0, SkipPagesStart: 5})
	if a.Hash() == d.Hash() {
		t.Error("expected skip-page change to change the hash")
	}
}

func TestBuiltins_AllValid(t *testing.T) {
	for _, p := range builtins() {
		if p.Name == "" {
			t.Error("builtin profile with empty name")
		}
		if p.Heading1MinSize < p.Heading2MinSize || p.Heading2MinSize < p.Heading3MinSize {
			t.Errorf("builtin %q has unordered thresholds %v/%v/%v",
				p.Name, p.Heading1MinSize, p.Heading2MinSize, p.Heading3MinSize)
		}
	}
}

func TestRegistry_GetAndNames(t *testing.T) {
	r := NewRegistry()
	p, err := r.Get("learning_python")
	if err != nil {
		t.Fatalf("expected builtin learning_python, got error: %v", err)
	}
	if p.Heading1MinSize != 20.0 {
		t.Errorf("expected learning_python H1 20.0, got %v", p.Heading1MinSize)
	}

	names := r.Names()
	if len(names) != r.Len() {
		t.Errorf("expected %d names, got %d", r.Len(), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("expected sorted names, got %v", names)
		}
	}
}

func TestRegistry_NotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("no_such_book")
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_ExtraOverridesBuiltin(t *testing.T) {
	custom := MustNew(Spec{Name: "learning_python", Heading1MinSize: 30.0})
	r := NewRegistry(custom)
	p, err := r.Get("learning_python")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Heading1MinSize != 30.0 {
		t.Errorf("expected extra profile to override builtin, got H1 %v", p.Heading1MinSize)
	}
}

func TestLoadFile_NameDefaultsToFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my_book.yaml")
	content := "heading1_min_size: 19.5\nskip_pages_start: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if p.Name != "my_book" {
		t.Errorf("expected name %q, got %q", "my_book", p.Name)
	}
	if p.Heading1MinSize != 19.5 {
		t.Errorf("expected H1 19.5, got %v", p.Heading1MinSize)
	}
	if p.SkipPagesStart != 10 {
		t.Errorf("expected skip_pages_start 10, got %d", p.SkipPagesStart)
	}
}

func TestLoadDir_MissingDirIsEmpty(t *testing.T) {
	profiles, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("expected missing dir to be tolerated, got %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected no profiles, got %d", len(profiles))
	}
}

func TestLoadDir_LoadsYamlSorted(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.yaml":   "name: beta\n",
		"a.yml":    "name: alpha\n",
		"skip.txt": "not a profile",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	profiles, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Name != "alpha" || profiles[1].Name != "beta" {
		t.Errorf("expected [alpha beta], got [%s %s]", profiles[0].Name, profiles[1].Name)
	}
}

func TestLoadDir_BadYamlFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
