package vocabulary

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"iter"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Version is the only document layout understood by Parse.
const Version = 1

// Category names a term list in the vocabulary document.
type Category string

const (
	Skills         Category = "skills"
	ActionVerbs    Category = "action_verbs"
	ATSKeywords    Category = "ats_keywords"
	IndustryTerms  Category = "industry_terms"
	Sections       Category = "sections"
	Education      Category = "education"
	Experience     Category = "experience"
	Projects       Category = "projects"
	Certifications Category = "certifications"
)

// Categories lists every category a vocabulary document must define.
func Categories() []Category {
	return []Category{
		Skills, ActionVerbs, ATSKeywords, IndustryTerms, Sections,
		Education, Experience, Projects, Certifications,
	}
}

//go:embed vocabulary.yaml
var embedded []byte

var (
	defaultOnce  sync.Once
	defaultVocab *Vocabulary
	defaultErr   error
)

// Vocabulary is an immutable set of term lists. It is safe for concurrent use.
type Vocabulary struct {
	version int
	terms   map[Category][]string
	lower   map[Category][]string
}

type document struct {
	Version    int                 `yaml:"version"`
	Categories map[string][]string `yaml:"categories"`
}

// Default returns the vocabulary compiled into the binary. It is parsed once per process.
func Default() (*Vocabulary, error) {
	defaultOnce.Do(func() {
		defaultVocab, defaultErr = Parse(embedded)
	})
	return defaultVocab, defaultErr
}

// MustDefault is Default for callers that cannot recover from a broken embedded document.
func MustDefault() *Vocabulary {
	v, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded vocabulary: %v", err))
	}
	return v
}

// Load reads a vocabulary document from path. An empty path selects the embedded vocabulary.
func Load(path string) (*Vocabulary, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary file %q: %w", path, err)
	}

	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("vocabulary file %q: %w", path, err)
	}

	return v, nil
}

// Parse decodes and validates a YAML vocabulary document.
func Parse(data []byte) (*Vocabulary, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}

	if doc.Version != Version {
		return nil, fmt.Errorf("unsupported vocabulary version %d (want %d)", doc.Version, Version)
	}

	v := &Vocabulary{
		version: doc.Version,
		terms:   make(map[Category][]string, len(doc.Categories)),
		lower:   make(map[Category][]string, len(doc.Categories)),
	}

	known := make(map[string]bool)
	for _, c := range Categories() {
		known[string(c)] = true
	}
	for name := range doc.Categories {
		if !known[name] {
			return nil, fmt.Errorf("unknown category %q", name)
		}
	}

	for _, c := range Categories() {
		raw, ok := doc.Categories[string(c)]
		if !ok || len(raw) == 0 {
			return nil, fmt.Errorf("category %q is missing or empty", c)
		}

		terms := make([]string, 0, len(raw))
		for i, term := range raw {
			term = strings.TrimSpace(term)
			if term == "" {
				return nil, fmt.Errorf("category %q: term #%d is empty", c, i+1)
			}
			terms = append(terms, term)
		}

		lower := make([]string, len(terms))
		for i, term := range terms {
			lower[i] = strings.ToLower(term)
		}

		v.terms[c] = terms
		v.lower[c] = lower
	}

	return v, nil
}

// Version returns the document version the vocabulary was loaded from.
func (v *Vocabulary) Version() int { return v.version }

// Terms yields the terms of c as written in the document.
func (v *Vocabulary) Terms(c Category) iter.Seq[string] {
	return slices.Values(v.terms[c])
}

// Lower yields the lower-cased terms of c, in document order.
func (v *Vocabulary) Lower(c Category) iter.Seq[string] {
	return slices.Values(v.lower[c])
}

// List returns a copy of the terms of c.
func (v *Vocabulary) List(c Category) []string {
	return slices.Clone(v.terms[c])
}

// Len returns the number of terms in c.
func (v *Vocabulary) Len(c Category) int {
	return len(v.terms[c])
}

// CountIn counts the distinct terms of c that occur in lowerText.
// lowerText must already be lower-cased.
func (v *Vocabulary) CountIn(c Category, lowerText string) int {
	count := 0
	seen := make(map[string]bool, len(v.lower[c]))
	for _, term := range v.lower[c] {
		if seen[term] {
			continue
		}
		seen[term] = true
		if strings.Contains(lowerText, term) {
			count++
		}
	}
	return count
}

// ContainsAny reports whether lowerText contains at least one term of c.
// lowerText must already be lower-cased.
func (v *Vocabulary) ContainsAny(c Category, lowerText string) bool {
	return slices.ContainsFunc(v.lower[c], func(term string) bool {
		return strings.Contains(lowerText, term)
	})
}

// ErrUnknownCategory is returned by Lookup for names outside Categories.
var ErrUnknownCategory = errors.New("unknown vocabulary category")

// Lookup resolves a category by name.
func Lookup(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range Categories() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}
