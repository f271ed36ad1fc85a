package matching

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/parser"
)

const (
	// LowMatchThreshold is the score under which a résumé is reported as a poor fit.
	LowMatchThreshold = 50.0

	maxListedMissing = 5
)

// Report is the result of comparing a résumé with a job description.
type Report struct {
	Score             float64  `json:"match_score"`
	MissingSkills     []string `json:"missing_skills"`
	OverlappingSkills []string `json:"overlapping_skills"`
	Suggestions       []string `json:"suggestions"`
}

// Matcher compares résumés with job descriptions. It is safe for concurrent use.
type Matcher struct {
	parser *parser.Parser
	logger *zap.Logger
}

func New(p *parser.Parser, logger *zap.Logger) *Matcher {
	if p == nil {
		p = parser.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{parser: p, logger: logger}
}

// Match scores the lexical similarity of resume and job and lists the skill gaps.
// Texts without any meaningful token score 0; any other similarity failure is returned.
func (m *Matcher) Match(resume, job string) (*Report, error) {
	resumeSkills := m.parser.Skills(resume)
	jobSkills := m.parser.Skills(job)

	score, err := Similarity(resume, job)
	switch {
	case errors.Is(err, ErrEmptyVocabulary):
		m.logger.Debug("no comparable terms, match score is zero")
		score = 0
	case err != nil:
		return nil, fmt.Errorf("similarity: %w", err)
	}

	report := &Report{
		Score:             score,
		MissingSkills:     difference(jobSkills, resumeSkills),
		OverlappingSkills: intersection(resumeSkills, jobSkills),
	}
	report.Suggestions = suggestions(report)

	m.logger.Debug("job match computed",
		zap.Float64("score", report.Score),
		zap.Int("missing_skills", len(report.MissingSkills)),
		zap.Int("overlapping_skills", len(report.OverlappingSkills)),
	)

	return report, nil
}

func suggestions(r *Report) []string {
	out := []string{}

	if r.Score < LowMatchThreshold {
		out = append(out,
			"Your resume has low match with this job description",
			"Add more keywords from the job description to improve matching",
		)
	}

	if len(r.MissingSkills) > 0 {
		listed := r.MissingSkills[:min(len(r.MissingSkills), maxListedMissing)]
		out = append(out, "Consider highlighting or gaining experience in: "+strings.Join(listed, ", "))
	}

	if len(r.OverlappingSkills) == 0 {
		out = append(out, "Focus on aligning your skills with job requirements")
	}

	return out
}

// difference keeps the items of a that are not in b, in the order of a.
func difference(a, b []string) []string {
	out := []string{}
	for _, s := range a {
		if !slices.Contains(b, s) {
			out = append(out, s)
		}
	}
	return out
}

// intersection keeps the items of a that are also in b, in the order of a.
func intersection(a, b []string) []string {
	out := []string{}
	for _, s := range a {
		if slices.Contains(b, s) {
			out = append(out, s)
		}
	}
	return out
}
