// Package cli wires the cobra commands: full pipeline, single stages,
// schema init, client onboarding, and configuration management.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/avdeyev/localscout/internal/model"
	"github.com/avdeyev/localscout/internal/store"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "localscout",
	Short: "LocalScout - local-market research and content drafting for agency clients",
	Long: `LocalScout automates the research-to-draft loop for local service businesses.

The Researcher finds competitors in a client's target city, scrapes their
sites (politely), and extracts services, pricing signals, competitive gaps,
and keyword candidates through a local or hosted language model.

The Strategist scores the research and drafts platform-ready content with
differentiation notes. A human reviews every draft before anything ships.

Both stages persist to a shared SQLite store and can be run independently.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("localscout v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.localscout/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: ./localscout.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".localscout"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LOCALSCOUT_*
	viper.SetEnvPrefix("LOCALSCOUT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the runtime configuration: defaults, then the config
// file, then environment variables, then flags. Provider keys come from the
// conventional environment variables; each is optional until its backend is
// actually exercised.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		cfg.Search.APIKey = v
	}
	if v := os.Getenv("FIRECRAWL_API_KEY"); v != "" {
		cfg.Scrape.FirecrawlAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.OpenAIAPIKey = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.LLM.OllamaBaseURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.LLM.OllamaModel = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.LLM.OpenAIModel = v
	}
	if v := viper.GetString("db_path"); v != "" {
		cfg.Database.Path = v
	}
	if v := viper.GetString("logs_dir"); v != "" {
		cfg.Logs.Dir = v
	}
	if v := viper.GetString("db"); v != "" {
		cfg.Database.Path = v
	}
	cfg.Logs.Verbose = cfg.Logs.Verbose || verbose

	return cfg
}

// openStore opens the configured database and checks the schema exists.
func openStore(cfg *model.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	return st, nil
}
