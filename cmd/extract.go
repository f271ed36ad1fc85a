package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/document"
	"github.com/spigell/ats-analyzer/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract <resume.pdf|resume.docx>",
	Short: "Print the plain text of a resume",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		extract(args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func extract(path string) {
	log, _, _ := setup()

	text, format, err := document.ExtractFile(path)
	if err != nil {
		log.Fatal("extracting text", zap.Error(err), zap.String("path", path))
	}

	logger.WithDocument(log, path, string(format)).Debug("text extracted", zap.Int("length", len([]rune(text))))
	fmt.Print(text)
}
