// Package analyzer wires the extraction, parsing, scoring, feedback and matching
// components into the operations exposed to the command line.
package analyzer

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/document"
	"github.com/spigell/ats-analyzer/internal/feedback"
	"github.com/spigell/ats-analyzer/internal/logger"
	"github.com/spigell/ats-analyzer/internal/matching"
	"github.com/spigell/ats-analyzer/internal/parser"
	"github.com/spigell/ats-analyzer/internal/scoring"
	"github.com/spigell/ats-analyzer/internal/vocabulary"
)

const defaultMaxLogLength = 200

// Analysis is the full result of analyzing one résumé.
type Analysis struct {
	Fields      parser.ParsedFields `json:"parsed_data"`
	Skills      []string            `json:"skills"`
	Scores      scoring.Report      `json:"scores"`
	Feedback    feedback.Feedback   `json:"feedback"`
	Suggestions []string            `json:"suggestions"`
}

// Analyzer holds only read-only state and is safe for concurrent use.
type Analyzer struct {
	deps      Deps
	stages    []Stage
	matcher   *matching.Matcher
	logger    *zap.Logger
	maxLogLen int
}

func New(vocab *vocabulary.Vocabulary, logger *zap.Logger, maxLogLength int) *Analyzer {
	if vocab == nil {
		vocab = vocabulary.MustDefault()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	p := parser.New(vocab)

	return &Analyzer{
		deps: Deps{
			Parser: p,
			Scorer: scoring.New(vocab),
			Logger: logger,
		},
		stages:    DefaultStages(),
		matcher:   matching.New(p, logger),
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// ExtractText converts an uploaded document into plain text.
func ExtractText(data []byte, format document.Format) (string, error) {
	return document.Extract(data, format)
}

// Analyze runs the analysis pipeline over text. The only error is a context error.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	a.logger.Debug("analyzing resume",
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", logger.TruncateForLog(text, a.maxLogLen)),
	)

	analysis, err := Run(ctx, a.deps, a.stages, text)
	if err != nil {
		return nil, fmt.Errorf("analyze resume: %w", err)
	}

	return analysis, nil
}

// Match compares résumé text with a job description.
func (a *Analyzer) Match(ctx context.Context, resume, job string) (*matching.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	a.logger.Debug("matching resume with job description",
		zap.Int("resume_length", utf8.RuneCountInString(resume)),
		zap.Int("job_length", utf8.RuneCountInString(job)),
		zap.String("job_preview", logger.TruncateForLog(job, a.maxLogLen)),
	)

	report, err := a.matcher.Match(resume, job)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	return report, nil
}
