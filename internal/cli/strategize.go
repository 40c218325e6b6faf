package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avdeyev/localscout/internal/logging"
	"github.com/avdeyev/localscout/internal/pipeline"
)

var strategizeResearchID string

// strategizeCmd runs the Strategist stage only
var strategizeCmd = &cobra.Command{
	Use:   "strategize <client-id>",
	Short: "Run the strategist only: score the latest research and write drafts",
	Long: `Strategize scores a research record and writes content drafts for review.
By default it uses the client's latest record; --research-id targets a
specific one.

Example:
  localscout strategize junk-away-phoenix
  localscout strategize junk-away-phoenix --research-id 4f6b...`,
	Args: cobra.ExactArgs(1),
	RunE: runStrategize,
}

func init() {
	rootCmd.AddCommand(strategizeCmd)
	strategizeCmd.Flags().StringVar(&strategizeResearchID, "research-id", "", "research record to draft from (defaults to the latest)")
}

func runStrategize(cmd *cobra.Command, args []string) error {
	clientID := args[0]
	ctx := context.Background()

	cfg := loadConfig()
	logger := logging.New(cfg.Logs, "strategist")
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

	drafts, err := p.RunStrategist(ctx, clientID, strategizeResearchID)
	if err != nil {
		return fmt.Errorf("strategize failed: %w", err)
	}

	printDrafts(drafts)
	return nil
}
