package report

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/spigell/ats-analyzer/internal/analyzer"
	"github.com/spigell/ats-analyzer/internal/document"
	"github.com/spigell/ats-analyzer/internal/matching"
	"github.com/spigell/ats-analyzer/internal/scoring"
)

const sampleResume = "John Smith\njohn@example.com\n555-123-4567\n" +
	"Experience: Developed a Python API, improved performance 20%.\n" +
	"Education: Bachelor of Science, MIT.\n" +
	"Skills: Python, SQL, AWS."

func sampleReport(t *testing.T) *Report {
	t.Helper()

	analysis, err := analyzer.New(nil, nil, 0).Analyze(context.Background(), sampleResume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return New("cv/john.pdf", document.FormatPDF, sampleResume, analysis)
}

func TestNew(t *testing.T) {
	r := sampleReport(t)

	if _, err := uuid.Parse(r.ID); err != nil {
		t.Fatalf("expected uuid id, got %q: %v", r.ID, err)
	}
	if r.TextLength != len([]rune(sampleResume)) {
		t.Fatalf("unexpected text length %d", r.TextLength)
	}
	if r.CreatedAt.IsZero() {
		t.Fatalf("expected creation time")
	}
	if other := sampleReport(t); other.ID == r.ID {
		t.Fatalf("expected unique ids")
	}
}

func TestToFileAndBack(t *testing.T) {
	r := sampleReport(t).WithMatch("jobs/go.txt", &matching.Report{
		Score:         42.5,
		MissingSkills: []string{"Go"},
	})

	path := filepath.Join(t.TempDir(), "report.json")
	// Pre-existing longer content must not leak into the report.
	if err := os.WriteFile(path, make([]byte, 64*1024), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.ToFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := FromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != r.ID || got.Source != r.Source || got.Format != document.FormatPDF {
		t.Fatalf("unexpected report header %+v", got)
	}
	if got.Analysis == nil || got.Analysis.Scores != r.Analysis.Scores {
		t.Fatalf("unexpected analysis %+v", got.Analysis)
	}
	if got.Match == nil || got.Match.Score != 42.5 || got.Job != "jobs/go.txt" {
		t.Fatalf("unexpected match %+v", got.Match)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	r := sampleReport(t)

	path, err := r.DumpToTmpFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	got, err := FromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != r.ID {
		t.Fatalf("expected id %q, got %q", r.ID, got.ID)
	}
}

func TestFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := FromFile(path); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestFlatten(t *testing.T) {
	flat := sampleReport(t).Flatten()

	expected := map[string]string{
		"source":          "cv/john.pdf",
		"format":          "pdf",
		"name":            "John Smith",
		"skills":          "Python; SQL; AWS",
		"ats_score":       "41.75",
		"keyword_score":   "14.50",
		"overall_score":   "51.06",
		"recommendations": "",
		"weaknesses":      "Low ATS compatibility - add more action verbs and quantifiable achievements; Poor keyword optimization - add more relevant skills and keywords",
	}
	for key, want := range expected {
		if got := flat[key]; got != want {
			t.Fatalf("%s: expected %q, got %q", key, want, got)
		}
	}

	if _, ok := flat["match_score"]; ok {
		t.Fatalf("expected no match keys without a match")
	}
}

func TestFlattenMatchOnly(t *testing.T) {
	r := &Report{ID: "id"}
	r.WithMatch("https://jobs.example.com/1", &matching.Report{
		Score:             12.3,
		MissingSkills:     []string{"Go", "Redis"},
		OverlappingSkills: []string{},
	})

	flat := r.Flatten()
	if flat["match_score"] != "12.30" {
		t.Fatalf("unexpected match score %q", flat["match_score"])
	}
	if flat["missing_skills"] != "Go; Redis" {
		t.Fatalf("unexpected missing skills %q", flat["missing_skills"])
	}
	if flat["job"] != "https://jobs.example.com/1" {
		t.Fatalf("unexpected job %q", flat["job"])
	}
	if _, ok := flat["overall_score"]; ok {
		t.Fatalf("expected no analysis keys without an analysis")
	}
}

func TestReportsSorted(t *testing.T) {
	withScore := func(source string, overall float64) *Report {
		return &Report{Source: source, Analysis: &analyzer.Analysis{Scores: scoring.Report{Overall: overall}}}
	}

	rs := &Reports{}
	rs.Append(withScore("b.pdf", 50), withScore("a.pdf", 70))
	rs.Append(&Report{Source: "failed.docx"}, withScore("c.pdf", 50))

	if rs.Len() != 4 {
		t.Fatalf("expected 4 reports, got %d", rs.Len())
	}

	var got []string
	for _, r := range rs.Sorted() {
		got = append(got, r.Source)
	}
	want := []string{"a.pdf", "b.pdf", "c.pdf", "failed.docx"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if rs.Items[0].Source != "b.pdf" {
		t.Fatalf("Sorted must not reorder the collection")
	}
}

func TestReportsToFile(t *testing.T) {
	rs := &Reports{}
	rs.Append(sampleReport(t), sampleReport(t))

	path := filepath.Join(t.TempDir(), "batch.json")
	if err := rs.ToFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty file")
	}
}

type closeTracker struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (c *closeTracker) Close() error {
	c.closed = true
	return c.closeErr
}

func TestEncodeReportsCloseError(t *testing.T) {
	failing := errors.New("disk full")
	w := &closeTracker{closeErr: failing}

	err := encode(w, sampleReport(t))
	if !errors.Is(err, failing) {
		t.Fatalf("expected close error, got %v", err)
	}
	if w.Len() == 0 {
		t.Fatalf("expected the report to be written before closing")
	}
}

func TestEncodeClosesOnFailure(t *testing.T) {
	w := &closeTracker{}

	if err := encode(w, math.NaN()); err == nil {
		t.Fatalf("expected encoding error")
	}
	if !w.closed {
		t.Fatalf("expected the file to be closed")
	}
}
