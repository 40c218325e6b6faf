package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// initDBCmd creates the database schema
var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema",
	Long: `Init-db creates the SQLite schema: clients, research records, content
drafts, and run locks. Safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := st.Init(context.Background()); err != nil {
			return fmt.Errorf("initializing schema: %w", err)
		}

		fmt.Printf("Initialized database: %s\n", st.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}
