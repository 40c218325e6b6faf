package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avdeyev/localscout/internal/logging"
	"github.com/avdeyev/localscout/internal/model"
	"github.com/avdeyev/localscout/internal/pipeline"
)

var runCity string

// runCmd represents the full-pipeline command
var runCmd = &cobra.Command{
	Use:   "run <client-id>",
	Short: "Run the full pipeline: researcher then strategist",
	Long: `Run performs one complete pass for a client: competitor search, scraping,
extraction, one research record, then scoring and content drafts against
that fresh record.

Example:
  localscout run junk-away-phoenix --city "Phoenix AZ"`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runCity, "city", "", "target city (defaults to the client's city)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	clientID := args[0]
	ctx := context.Background()

	cfg := loadConfig()
	logger := logging.New(cfg.Logs, "pipeline")
	defer func() { _ = logger.Sync() }()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	if err := st.Ready(ctx); err != nil {
		return err
	}

	p := pipeline.NewFromConfig(cfg, st, logger)

	record, drafts, err := p.Run(ctx, clientID, runCity)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	printResearchSummary(record)
	printDrafts(drafts)
	return nil
}

func printResearchSummary(record *model.ResearchRecord) {
	fmt.Printf("Research record: %s\n", record.ID)
	fmt.Printf("  City:        %s\n", record.City)
	fmt.Printf("  Competitors: %d\n", record.CompetitorCount)
	fmt.Printf("  Extraction:  %s", record.Extraction.Status)
	if record.Extraction.Backend != "" {
		fmt.Printf(" (via %s)", record.Extraction.Backend)
	}
	fmt.Println()
	fmt.Printf("  Services:    %d  Gaps: %d  Keywords: %d  Pricing: %d\n",
		len(record.Extraction.Services), len(record.Extraction.Gaps),
		len(record.Extraction.Keywords), len(record.Extraction.Pricing))
}

func printDrafts(drafts []model.ContentDraft) {
	for _, d := range drafts {
		fmt.Printf("Draft %s [%s] score=%d status=%s\n", d.ID, d.Platform, d.Score, d.Status)
		fmt.Printf("  %s (%d words)\n", d.Title, d.WordCount)
		if verbose {
			fmt.Println()
			fmt.Println(d.Body)
			fmt.Println()
		}
	}
}
