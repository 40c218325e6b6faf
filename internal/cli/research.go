package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avdeyev/localscout/internal/logging"
	"github.com/avdeyev/localscout/internal/pipeline"
)

var researchCity string

// researchCmd runs the Researcher stage only
var researchCmd = &cobra.Command{
	Use:   "research <client-id>",
	Short: "Run the researcher only: search, scrape, extract, write one record",
	Long: `Research gathers market data for a client and writes one research record.
The strategist can be run later against this record with 'localscout strategize'.

Example:
  localscout research junk-away-phoenix --city "Phoenix AZ"`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)
	researchCmd.Flags().StringVar(&researchCity, "city", "", "target city (defaults to the client's city)")
}

func runResearch(cmd *cobra.Command, args []string) error {
	clientID := args[0]
	ctx := context.Background()

	cfg := loadConfig()
	logger := logging.New(cfg.Logs, "researcher")
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

	record, err := p.RunResearcher(ctx, clientID, researchCity)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	printResearchSummary(record)
	return nil
}
