package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/vocabulary"
)

var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary [category]",
	Short: "Print the term lists used for parsing, scoring and matching",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		printVocabulary(args)
	},
}

func init() {
	rootCmd.AddCommand(vocabularyCmd)
}

func printVocabulary(args []string) {
	log, _, vocab := setup()

	categories := vocabulary.Categories()
	if len(args) == 1 {
		c, err := vocabulary.Lookup(args[0])
		if err != nil {
			log.Fatal("unknown category", zap.Error(err), zap.Any("known", categories))
		}
		categories = []vocabulary.Category{c}
	}

	for _, c := range categories {
		fmt.Printf("%s (%d): %s\n", c, vocab.Len(c), strings.Join(vocab.List(c), ", "))
	}
}
