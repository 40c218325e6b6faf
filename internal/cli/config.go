package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/avdeyev/localscout/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage LocalScout configuration",
	Long: `Manage LocalScout configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (LOCALSCOUT_*, TAVILY_API_KEY, FIRECRAWL_API_KEY, OPENAI_API_KEY, OLLAMA_BASE_URL)
3. Config file (~/.localscout/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", file)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		// Never print credentials
		redact := func(s string) string {
			if s == "" {
				return "(not set)"
			}
			return "(set)"
		}
		display := *cfg
		display.Search.APIKey = redact(cfg.Search.APIKey)
		display.Scrape.FirecrawlAPIKey = redact(cfg.Scrape.FirecrawlAPIKey)
		display.LLM.OpenAIAPIKey = redact(cfg.LLM.OpenAIAPIKey)

		yamlData, err := yaml.Marshal(&display)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a default configuration file",
	Long:  `Create a default configuration file at ~/.localscout/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := filepath.Join(home, ".localscout")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'localscout config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		header := `# LocalScout configuration file
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (LOCALSCOUT_*, TAVILY_API_KEY, FIRECRAWL_API_KEY,
#      OPENAI_API_KEY, OLLAMA_BASE_URL)
#   3. This config file
#   4. Built-in defaults
#
# Provider API keys belong in the environment, not in this file.

`
		if err := os.WriteFile(configPath, append([]byte(header), yamlData...), 0o644); err != nil {
			return fmt.Errorf("error writing config file: %w", err)
		}

		fmt.Printf("Created config file: %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
