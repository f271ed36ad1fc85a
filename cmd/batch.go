package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/ats-analyzer/internal/analyzer"
	"github.com/spigell/ats-analyzer/internal/document"
	"github.com/spigell/ats-analyzer/internal/jd"
	"github.com/spigell/ats-analyzer/internal/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Analyze every PDF and DOCX resume in a directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		batch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", defaultWorkers, "number of resumes analyzed concurrently")
	batchCmd.Flags().String("job", "", "job description file or URL to match every resume against")
	batchCmd.Flags().StringP("output", "o", "", "write all reports to this file")

	viper.BindPFlag("workers", batchCmd.Flags().Lookup("workers"))
}

func batch(cmd *cobra.Command, dir string) {
	ctx := context.Background()
	log, config, vocab := setup()

	paths, err := resumeFiles(dir)
	if err != nil {
		log.Fatal("listing resumes", zap.Error(err), zap.String("dir", dir))
	}
	if len(paths) == 0 {
		log.Info("exiting", zap.String("reason", "no pdf or docx files found"), zap.String("dir", dir))
		return
	}

	job := cmd.Flag("job").Value.String()
	var jobText string
	if job != "" {
		jobText, err = jd.New(log, config.Fetch).Fetch(ctx, job)
		if err != nil {
			log.Fatal("loading job description", zap.Error(err), zap.String("job", job))
		}
	}

	log.Info("analyzing resumes", zap.Int("count", len(paths)), zap.Int("workers", config.Workers))

	started := time.Now()
	reports, err := analyzeAll(ctx, analyzer.New(vocab, log, config.MaxLogLength), log, paths, config.Workers, job, jobText)
	if err != nil {
		log.Fatal("batch analysis failed", zap.Error(err))
	}

	log.Info("batch analysis completed",
		zap.Int("analyzed", reports.Len()),
		zap.Int("skipped", len(paths)-reports.Len()),
		zap.Duration("elapsed", time.Since(started)),
	)

	for i, r := range reports.Sorted() {
		flat := r.Flatten()
		fields := []zap.Field{
			zap.Int("rank", i+1),
			zap.String("source", flat["source"]),
			zap.String("overall_score", flat["overall_score"]),
		}
		if score, ok := flat["match_score"]; ok {
			fields = append(fields, zap.String("match_score", score))
		}
		log.Info("resume", fields...)
	}

	output := cmd.Flag("output").Value.String()
	if output == "" {
		outDir := config.OutputDir
		if outDir == "" {
			outDir = os.TempDir()
		}
		output = filepath.Join(outDir, fmt.Sprintf("ats_batch_%s.json", started.UTC().Format("20060102T150405")))
	}

	if err := reports.ToFile(output); err != nil {
		log.Fatal("writing reports", zap.Error(err), zap.String("filename", output))
	}
	log.Info("reports written", zap.String("filename", output))
}

// analyzeAll analyzes paths with at most workers concurrent analyses. Files that cannot be
// extracted are logged and skipped. Reports keep the order of paths.
func analyzeAll(ctx context.Context, a *analyzer.Analyzer, log *zap.Logger, paths []string, workers int, job, jobText string) (*report.Reports, error) {
	results := make([]*report.Report, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			r, text, err := analyzeFile(ctx, a, log, path)
			if errors.Is(err, document.ErrExtraction) {
				log.Warn("skipping resume", zap.String("path", path), zap.Error(err))
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if jobText != "" {
				m, err := a.Match(ctx, text, jobText)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				r.WithMatch(job, m)
			}

			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	reports := &report.Reports{}
	for _, r := range results {
		if r != nil {
			reports.Append(r)
		}
	}
	return reports, nil
}

// resumeFiles lists the PDF and DOCX files directly inside dir, sorted by name.
func resumeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := document.FormatFromPath(entry.Name()); err != nil {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
