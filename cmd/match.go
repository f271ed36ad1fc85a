package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/analyzer"
	"github.com/spigell/ats-analyzer/internal/jd"
)

var matchCmd = &cobra.Command{
	Use:   "match <resume.pdf|resume.docx> <job file or URL>",
	Short: "Compare a resume with a job description",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		match(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("output", "o", "", "write the report to this file")
}

func match(cmd *cobra.Command, resumePath, job string) {
	ctx := context.Background()
	log, config, vocab := setup()

	jobText, err := jd.New(log, config.Fetch).Fetch(ctx, job)
	if err != nil {
		log.Fatal("loading job description", zap.Error(err), zap.String("job", job))
	}

	a := analyzer.New(vocab, log, config.MaxLogLength)

	r, resumeText, err := analyzeFile(ctx, a, log, resumePath)
	if err != nil {
		log.Fatal("analyzing resume", zap.Error(err), zap.String("path", resumePath))
	}

	m, err := a.Match(ctx, resumeText, jobText)
	if err != nil {
		log.Fatal("matching resume", zap.Error(err))
	}
	r.WithMatch(job, m)

	logSummary(log, r)

	if output := cmd.Flag("output").Value.String(); output != "" {
		if err := r.ToFile(output); err != nil {
			log.Fatal("writing report", zap.Error(err), zap.String("filename", output))
		}
		log.Info("report written", zap.String("filename", output))
		return
	}

	pretty, _ := json.MarshalIndent(m, "", "  ")
	fmt.Println(string(pretty))
}
