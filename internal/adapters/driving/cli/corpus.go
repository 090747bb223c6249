package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	corpusList bool
	corpusDir  string
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Show the repositories already in the corpus",
	Long: `Scans the corpus directory for YAML dataset files and reports how many
repositories they record. Only records whose "from" is "github" count.`,
	Args: cobra.NoArgs,
	RunE: runCorpus,
}

func init() {
	corpusCmd.Flags().BoolVar(&corpusList, "list", false, "print every known repository")
	corpusCmd.Flags().StringVar(&corpusDir, "corpus", "", "corpus directory (default from config)")
	rootCmd.AddCommand(corpusCmd)
}

func runCorpus(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("corpus") {
		settings.Corpus.Dir = corpusDir
	}

	p := newPipeline(*settings, false)
	known, err := p.Discovery.KnownSet(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	cmd.Printf("Known repositories: %d (%s)\n", known.Len(), settings.Corpus.Dir)
	if corpusList {
		for _, k := range known.Keys() {
			cmd.Println("  " + k)
		}
	}
	return nil
}
