package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/ats-analyzer/internal/vocabulary"
)

// MaxEntries bounds every list in ParsedFields.
const MaxEntries = 5

const nameScanLines = 5

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b(?:\+?(\d{1,3})?)?[-. (]*(\d{3})[-. )]*(\d{3})[-. ]*(\d{4})\b`)
	notNameLine  = regexp.MustCompile(`\d|@|\.com|\.edu`)
)

// ParsedFields is the structured view of a résumé. It is a value object and is never
// modified after Parse returns it.
type ParsedFields struct {
	Name           string   `json:"name" mapstructure:"name,omitempty"`
	Email          string   `json:"email" mapstructure:"email,omitempty"`
	Phone          string   `json:"phone" mapstructure:"phone,omitempty"`
	Education      []string `json:"education" mapstructure:"education,omitempty"`
	Skills         []string `json:"skills" mapstructure:"skills,omitempty"`
	Experience     []string `json:"experience" mapstructure:"experience,omitempty"`
	Projects       []string `json:"projects" mapstructure:"projects,omitempty"`
	Certifications []string `json:"certifications" mapstructure:"certifications,omitempty"`
}

// window describes how much context follows a keyword line.
type window struct {
	category  vocabulary.Category
	following int
	maxLen    int
}

var (
	educationWindow  = window{category: vocabulary.Education, following: 3, maxLen: 200}
	experienceWindow = window{category: vocabulary.Experience, following: 5, maxLen: 300}
	projectsWindow   = window{category: vocabulary.Projects, following: 3, maxLen: 200}
)

// Parser pulls structured fields out of résumé text with keyword and pattern heuristics.
// It only reads its vocabulary and is safe for concurrent use.
type Parser struct {
	vocab *vocabulary.Vocabulary
}

func New(vocab *vocabulary.Vocabulary) *Parser {
	if vocab == nil {
		vocab = vocabulary.MustDefault()
	}
	return &Parser{vocab: vocab}
}

// Parse runs every field extraction over text.
func (p *Parser) Parse(text string) ParsedFields {
	lines := strings.Split(text, "\n")

	return ParsedFields{
		Name:           Name(lines),
		Email:          Email(text),
		Phone:          Phone(text),
		Education:      p.windowed(lines, educationWindow),
		Skills:         p.Skills(text),
		Experience:     p.windowed(lines, experienceWindow),
		Projects:       p.windowed(lines, projectsWindow),
		Certifications: p.singleLines(lines, vocabulary.Certifications),
	}
}

// Name returns the first of the leading lines that looks like a person's name.
func Name(lines []string) string {
	for i, line := range lines {
		if i >= nameScanLines {
			break
		}

		line = strings.TrimSpace(line)
		if len(strings.Fields(line)) < 2 || utf8.RuneCountInString(line) >= 50 {
			continue
		}
		if notNameLine.MatchString(line) {
			continue
		}
		return line
	}
	return ""
}

func Email(text string) string {
	return emailPattern.FindString(text)
}

// Phone returns the first phone-like match. The pattern may swallow separators in front of
// the number, so surrounding whitespace is trimmed.
func Phone(text string) string {
	return strings.TrimSpace(phonePattern.FindString(text))
}

// Skills returns the vocabulary skills found in text, canonically cased, once each, in
// vocabulary order.
func (p *Parser) Skills(text string) []string {
	lower := strings.ToLower(text)

	found := []string{}
	seen := make(map[string]bool)
	for canonical := range p.vocab.Terms(vocabulary.Skills) {
		term := strings.ToLower(canonical)
		if seen[term] || !strings.Contains(lower, term) {
			continue
		}
		seen[term] = true
		found = append(found, canonical)
	}

	return found
}

// windowed collects a context string for every line carrying a category keyword: the line
// itself plus the following lines while they are non-empty and shorter than the ceiling.
// Windows may overlap.
func (p *Parser) windowed(lines []string, w window) []string {
	contexts := []string{}

	for i, line := range lines {
		if !p.vocab.ContainsAny(w.category, strings.ToLower(line)) {
			continue
		}

		context := strings.TrimSpace(line)
		for j := 1; j <= w.following && i+j < len(lines); j++ {
			next := strings.TrimSpace(lines[i+j])
			if next == "" || utf8.RuneCountInString(next) >= w.maxLen {
				break
			}
			context += " " + next
		}

		contexts = append(contexts, context)
		if len(contexts) == MaxEntries {
			break
		}
	}

	return contexts
}

func (p *Parser) singleLines(lines []string, category vocabulary.Category) []string {
	matches := []string{}

	for _, line := range lines {
		if !p.vocab.ContainsAny(category, strings.ToLower(line)) {
			continue
		}

		matches = append(matches, strings.TrimSpace(line))
		if len(matches) == MaxEntries {
			break
		}
	}

	return matches
}
