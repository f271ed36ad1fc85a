package vocabulary

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDefaultDefinesEveryCategory(t *testing.T) {
	v, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Version() != Version {
		t.Fatalf("expected version %d, got %d", Version, v.Version())
	}

	for _, c := range Categories() {
		if v.Len(c) == 0 {
			t.Fatalf("category %q is empty", c)
		}
	}

	if got := v.Len(ActionVerbs); got != 16 {
		t.Fatalf("expected 16 action verbs, got %d", got)
	}
	if got := v.Len(IndustryTerms); got != 6 {
		t.Fatalf("expected 6 industry terms, got %d", got)
	}
}

func TestDefaultIsShared(t *testing.T) {
	first, _ := Default()
	second, _ := Default()
	if first != second {
		t.Fatalf("expected the embedded vocabulary to be parsed once")
	}
}

func TestListReturnsCopy(t *testing.T) {
	v := MustDefault()

	list := v.List(Skills)
	list[0] = "COBOL"

	if slices.Contains(v.List(Skills), "COBOL") {
		t.Fatalf("mutating a returned list must not change the vocabulary")
	}
}

func TestLowerMatchesTerms(t *testing.T) {
	v := MustDefault()

	terms := slices.Collect(v.Terms(Skills))
	lower := slices.Collect(v.Lower(Skills))
	if len(terms) != len(lower) {
		t.Fatalf("expected %d lower-cased terms, got %d", len(terms), len(lower))
	}
	for i := range terms {
		if strings.ToLower(terms[i]) != lower[i] {
			t.Fatalf("term %q lower-cased as %q", terms[i], lower[i])
		}
	}
}

func TestCountIn(t *testing.T) {
	v := MustDefault()

	text := "i developed and led a team, then developed again"
	if got := v.CountIn(ActionVerbs, text); got != 2 {
		t.Fatalf("expected 2 distinct verbs, got %d", got)
	}

	if !v.ContainsAny(Sections, "work experience") {
		t.Fatalf("expected a section keyword to be found")
	}
	if v.ContainsAny(IndustryTerms, "nothing relevant") {
		t.Fatalf("expected no industry terms")
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	full := func(mutate func(b *strings.Builder)) []byte {
		var b strings.Builder
		b.WriteString("version: 1\ncategories:\n")
		for _, c := range Categories() {
			b.WriteString("  " + string(c) + ":\n    - term\n")
		}
		if mutate != nil {
			mutate(&b)
		}
		return []byte(b.String())
	}

	tests := []struct {
		name    string
		input   []byte
		wantErr bool
	}{
		{
			name:  "valid document",
			input: full(nil),
		},
		{
			name:    "wrong version",
			input:   []byte("version: 2\ncategories: {}\n"),
			wantErr: true,
		},
		{
			name:    "missing categories",
			input:   []byte("version: 1\ncategories:\n  skills: [Go]\n"),
			wantErr: true,
		},
		{
			name: "unknown category",
			input: full(func(b *strings.Builder) {
				b.WriteString("  languages:\n    - Go\n")
			}),
			wantErr: true,
		},
		{
			name:    "unknown top level field",
			input:   append(full(nil), []byte("extra: true\n")...),
			wantErr: true,
		},
		{
			name:    "not yaml",
			input:   []byte("{{{"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.input)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseRejectsBlankTerm(t *testing.T) {
	var b strings.Builder
	b.WriteString("version: 1\ncategories:\n")
	for _, c := range Categories() {
		b.WriteString("  " + string(c) + ":\n    - term\n")
	}
	doc := strings.Replace(b.String(), "  skills:\n    - term\n", "  skills:\n    - \"  \"\n", 1)
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatalf("expected blank term to be rejected")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	if err := os.WriteFile(path, embedded, 0o600); err != nil {
		t.Fatalf("writing vocabulary: %v", err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Len(Skills) != MustDefault().Len(Skills) {
		t.Fatalf("expected loaded vocabulary to match the embedded one")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	v, err = Load("  ")
	if err != nil || v != MustDefault() {
		t.Fatalf("expected empty path to select the embedded vocabulary")
	}
}

func TestLookup(t *testing.T) {
	c, err := Lookup(" Action_Verbs ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != ActionVerbs {
		t.Fatalf("expected %q, got %q", ActionVerbs, c)
	}

	if _, err := Lookup("languages"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
