// Package report persists analysis and match results.
package report

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/ats-analyzer/internal/analyzer"
	"github.com/spigell/ats-analyzer/internal/document"
	"github.com/spigell/ats-analyzer/internal/matching"
)

const listSeparator = "; "

type Report struct {
	ID         string             `json:"id"`
	Source     string             `json:"source,omitempty"`
	Format     document.Format    `json:"format,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	TextLength int                `json:"text_length"`
	Analysis   *analyzer.Analysis `json:"analysis,omitempty"`
	Job        string             `json:"job,omitempty"`
	Match      *matching.Report   `json:"match,omitempty"`
}

// New creates a report with a fresh id for the analysis of source.
func New(source string, format document.Format, text string, analysis *analyzer.Analysis) *Report {
	return &Report{
		ID:         uuid.NewString(),
		Source:     source,
		Format:     format,
		CreatedAt:  time.Now().UTC(),
		TextLength: len([]rune(text)),
		Analysis:   analysis,
	}
}

// WithMatch attaches a job match result to the report.
func (r *Report) WithMatch(job string, match *matching.Report) *Report {
	r.Job = job
	r.Match = match
	return r
}

func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ats_report_*.json")
	if err != nil {
		return "", err
	}

	if err := encode(file, r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (r *Report) ToFile(path string) error {
	return writeFile(path, r)
}

// FromFile reads a report written by ToFile or DumpToTmpFile.
func FromFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", path, err)
	}
	return &r, nil
}

// Flatten renders the report as flat key/value pairs. Scores are decimal strings and
// lists are joined with "; ". Absent parts produce no keys.
func (r *Report) Flatten() map[string]string {
	flat := map[string]string{
		"id":          r.ID,
		"created_at":  r.CreatedAt.Format(time.RFC3339),
		"text_length": strconv.Itoa(r.TextLength),
	}
	if r.Source != "" {
		flat["source"] = r.Source
	}
	if r.Format != "" {
		flat["format"] = string(r.Format)
	}

	if a := r.Analysis; a != nil {
		flat["name"] = a.Fields.Name
		flat["email"] = a.Fields.Email
		flat["phone"] = a.Fields.Phone
		flat["skills"] = strings.Join(a.Skills, listSeparator)
		flat["ats_score"] = formatScore(a.Scores.ATS)
		flat["grammar_score"] = formatScore(a.Scores.Grammar)
		flat["formatting_score"] = formatScore(a.Scores.Formatting)
		flat["keyword_score"] = formatScore(a.Scores.Keyword)
		flat["overall_score"] = formatScore(a.Scores.Overall)
		flat["strengths"] = strings.Join(a.Feedback.Strengths, listSeparator)
		flat["weaknesses"] = strings.Join(a.Feedback.Weaknesses, listSeparator)
		flat["recommendations"] = strings.Join(a.Feedback.Recommendations, listSeparator)
		flat["suggestions"] = strings.Join(a.Suggestions, listSeparator)
	}

	if m := r.Match; m != nil {
		if r.Job != "" {
			flat["job"] = r.Job
		}
		flat["match_score"] = formatScore(m.Score)
		flat["missing_skills"] = strings.Join(m.MissingSkills, listSeparator)
		flat["overlapping_skills"] = strings.Join(m.OverlappingSkills, listSeparator)
		flat["match_suggestions"] = strings.Join(m.Suggestions, listSeparator)
	}

	return flat
}

// Overall returns the overall score, or -1 when the report has no analysis.
func (r *Report) Overall() float64 {
	if r.Analysis == nil {
		return -1
	}
	return r.Analysis.Scores.Overall
}

// Reports is the result of a batch run.
type Reports struct {
	Items []*Report `json:"items"`
}

func (rs *Reports) Len() int {
	return len(rs.Items)
}

func (rs *Reports) Append(r ...*Report) {
	rs.Items = append(rs.Items, r...)
}

// Sorted returns the reports ordered by overall score, best first. Ties are ordered by source.
func (rs *Reports) Sorted() []*Report {
	sorted := slices.Clone(rs.Items)
	slices.SortStableFunc(sorted, func(a, b *Report) int {
		if c := cmp.Compare(b.Overall(), a.Overall()); c != 0 {
			return c
		}
		return strings.Compare(a.Source, b.Source)
	})
	return sorted
}

func (rs *Reports) ToFile(path string) error {
	return writeFile(path, rs)
}

func writeFile(path string, v any) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	return encode(file, v)
}

// encode writes v as indented JSON and closes file. A failed close is reported
// because it may hide a failed write.
func encode(file io.WriteCloser, v any) error {
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		file.Close()
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
