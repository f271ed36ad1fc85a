package analyzer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/feedback"
	"github.com/spigell/ats-analyzer/internal/parser"
	"github.com/spigell/ats-analyzer/internal/scoring"
)

// Stage is a single step of the analysis pipeline. A stage reads the text and the results
// of earlier stages and fills in its own part of the analysis.
type Stage interface {
	Name() string
	Apply(ctx context.Context, deps Deps, text string, a *Analysis) error
}

// Deps aggregates the components shared across all stages.
type Deps struct {
	Parser *parser.Parser
	Scorer *scoring.Scorer
	Logger *zap.Logger
}

// DefaultStages returns the standard pipeline in execution order.
func DefaultStages() []Stage {
	return []Stage{fieldsStage{}, scoresStage{}, feedbackStage{}, suggestionsStage{}}
}

// Run executes the stages sequentially. The context is checked before every stage, so a
// cancelled or expired context stops the pipeline at a stage boundary.
func Run(ctx context.Context, deps Deps, stages []Stage, text string) (*Analysis, error) {
	a := &Analysis{}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", stage.Name(), err)
		}

		started := time.Now()
		if err := stage.Apply(ctx, deps, text, a); err != nil {
			return nil, fmt.Errorf("%s: %w", stage.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Debug("analysis stage",
				zap.String("name", stage.Name()),
				zap.Duration("elapsed", time.Since(started)),
			)
		}
	}

	return a, nil
}

type fieldsStage struct{}

func (fieldsStage) Name() string { return "fields" }

func (fieldsStage) Apply(_ context.Context, deps Deps, text string, a *Analysis) error {
	a.Fields = deps.Parser.Parse(text)
	a.Skills = slices.Clone(a.Fields.Skills)
	return nil
}

type scoresStage struct{}

func (scoresStage) Name() string { return "scores" }

func (scoresStage) Apply(_ context.Context, deps Deps, text string, a *Analysis) error {
	a.Scores = deps.Scorer.Score(text)
	return nil
}

type feedbackStage struct{}

func (feedbackStage) Name() string { return "feedback" }

func (feedbackStage) Apply(_ context.Context, _ Deps, _ string, a *Analysis) error {
	a.Feedback = feedback.Generate(a.Scores, a.Fields)
	return nil
}

type suggestionsStage struct{}

func (suggestionsStage) Name() string { return "suggestions" }

func (suggestionsStage) Apply(_ context.Context, _ Deps, text string, a *Analysis) error {
	a.Suggestions = feedback.Suggest(text, a.Fields, a.Scores.ATS)
	return nil
}
