package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/avdeyev/localscout/internal/model"
)

var (
	clientName            string
	clientCity            string
	clientCategory        string
	clientWebsite         string
	clientTone            string
	clientDifferentiators []string
)

// clientCmd groups client onboarding commands
var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients",
}

var clientAddCmd = &cobra.Command{
	Use:   "add <client-id>",
	Short: "Add a client",
	Long: `Add creates a client the pipeline can run against. The identifier is what
you pass to run/research/strategize; lookups are case-insensitive.

Example:
  localscout client add junk-away-phoenix \
    --name "Junk Away" --city "Phoenix AZ" --category "junk removal" \
    --tone no-BS --diff "same-day service" --diff "upfront pricing"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID := strings.TrimSpace(args[0])
		if clientID == "" {
			clientID = uuid.New().String()
		}
		if clientName == "" {
			return fmt.Errorf("--name is required")
		}

		cfg := loadConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		ctx := context.Background()
		if err := st.Ready(ctx); err != nil {
			return err
		}

		client := &model.Client{
			ID:              clientID,
			BusinessName:    clientName,
			City:            clientCity,
			Category:        clientCategory,
			WebsiteURL:      clientWebsite,
			BrandTone:       clientTone,
			Differentiators: clientDifferentiators,
		}
		if err := st.CreateClient(ctx, client); err != nil {
			return fmt.Errorf("adding client: %w", err)
		}

		fmt.Printf("Added client: %s (%s)\n", client.ID, client.BusinessName)
		return nil
	},
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		ctx := context.Background()
		if err := st.Ready(ctx); err != nil {
			return err
		}

		clients, err := st.ListClients(ctx)
		if err != nil {
			return err
		}
		if len(clients) == 0 {
			fmt.Println("No clients yet. Add one with 'localscout client add'.")
			return nil
		}

		for _, c := range clients {
			records, err := st.CountResearchRecords(ctx, c.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%-24s %-20s %-16s %-16s records=%d\n",
				c.ID, c.BusinessName, c.City, c.Category, records)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientListCmd)

	clientAddCmd.Flags().StringVar(&clientName, "name", "", "business display name (required)")
	clientAddCmd.Flags().StringVar(&clientCity, "city", "", "default target city, e.g. \"Phoenix AZ\"")
	clientAddCmd.Flags().StringVar(&clientCategory, "category", "", "business vertical, e.g. \"junk removal\"")
	clientAddCmd.Flags().StringVar(&clientWebsite, "website", "", "client's own website URL")
	clientAddCmd.Flags().StringVar(&clientTone, "tone", "friendly", "brand voice: friendly, no-BS, premium, professional")
	clientAddCmd.Flags().StringArrayVar(&clientDifferentiators, "diff", nil, "differentiator to emphasize (repeatable)")
}
