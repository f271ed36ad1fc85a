package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/analyzer"
	"github.com/spigell/ats-analyzer/internal/document"
	"github.com/spigell/ats-analyzer/internal/logger"
	"github.com/spigell/ats-analyzer/internal/report"
)

const (
	PromptPrintReport  = "Print report"
	PromptShowFeedback = "Show feedback and suggestions"
	PromptReportToFile = "Dump report to file"
	PromptExit         = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptPrintReport, PromptShowFeedback, PromptReportToFile, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume.pdf|resume.docx>",
	Short: "Analyze a resume and score it against ATS heuristics",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolP("yes", "y", false, "do not ask for further actions, just log the summary")
	analyzeCmd.Flags().StringP("output", "o", "", "write the report to this file")
}

func analyze(cmd *cobra.Command, path string) {
	ctx := context.Background()
	log, config, vocab := setup()

	r, _, err := analyzeFile(ctx, analyzer.New(vocab, log, config.MaxLogLength), log, path)
	if err != nil {
		log.Fatal("analyzing resume", zap.Error(err), zap.String("path", path))
	}

	logSummary(log, r)

	if output := cmd.Flag("output").Value.String(); output != "" {
		if err := r.ToFile(output); err != nil {
			log.Fatal("writing report", zap.Error(err), zap.String("filename", output))
		}
		log.Info("report written", zap.String("filename", output))
		return
	}

	if cmd.Flag("yes").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, log, config, r); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

// analyzeFile extracts a resume file and runs the analysis pipeline over it.
// The extracted text is returned alongside the report.
func analyzeFile(ctx context.Context, a *analyzer.Analyzer, log *zap.Logger, path string) (*report.Report, string, error) {
	text, format, err := document.ExtractFile(path)
	if err != nil {
		return nil, "", err
	}
	logger.WithDocument(log, path, string(format)).Debug("text extracted", zap.Int("length", len([]rune(text))))

	analysis, err := a.Analyze(ctx, text)
	if err != nil {
		return nil, "", err
	}

	return report.New(path, format, text, analysis), text, nil
}

func handleAction(action string, log *zap.Logger, config *Config, r *report.Report) error {
	switch action {
	case PromptPrintReport:
		pretty, _ := json.MarshalIndent(r, "", "  ")
		fmt.Println(string(pretty))
		return nil
	case PromptShowFeedback:
		printFeedback(r)
		return nil
	case PromptReportToFile:
		filename, err := writeReport(config, r)
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		log.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		log.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// writeReport stores the report in the configured output directory or in a temporary file.
func writeReport(config *Config, r *report.Report) (string, error) {
	if config.OutputDir == "" {
		return r.DumpToTmpFile()
	}

	filename := filepath.Join(config.OutputDir, fmt.Sprintf("ats_report_%s.json", r.ID))
	return filename, r.ToFile(filename)
}

func logSummary(log *zap.Logger, r *report.Report) {
	flat := r.Flatten()

	fields := logger.StringFields(
		logger.StringField{Key: logger.FieldSource, Value: flat["source"]},
		logger.StringField{Key: "name", Value: flat["name"]},
		logger.StringField{Key: "overall_score", Value: flat["overall_score"]},
		logger.StringField{Key: "ats_score", Value: flat["ats_score"]},
		logger.StringField{Key: "grammar_score", Value: flat["grammar_score"]},
		logger.StringField{Key: "formatting_score", Value: flat["formatting_score"]},
		logger.StringField{Key: "keyword_score", Value: flat["keyword_score"]},
		logger.StringField{Key: "skills", Value: flat["skills"]},
		logger.StringField{Key: "match_score", Value: flat["match_score"]},
	)
	log.Info("resume analyzed", fields...)
}

func printFeedback(r *report.Report) {
	if r.Analysis == nil {
		return
	}

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("%s:\n  - %s\n", title, strings.Join(items, "\n  - "))
	}

	fb := r.Analysis.Feedback
	fmt.Printf("Overall score: %.2f\n", fb.Overall)
	section("Strengths", fb.Strengths)
	section("Weaknesses", fb.Weaknesses)
	section("Recommendations", fb.Recommendations)
	section("Suggestions", r.Analysis.Suggestions)
}
