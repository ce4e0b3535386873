package cmd

import (
	"log"

	"github.com/FaroutYLq/whatsup/internal/arxiv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "whatsup"
)

type Config struct {
	Library         string              `mapstructure:"library"`
	Interests       string              `mapstructure:"interests"`
	SeenFile        string              `mapstructure:"seen-file"`
	ExcludeKeywords []string            `mapstructure:"exclude-keywords"`
	Search          *arxiv.SearchParams `mapstructure:"search"`
	AI              *AIConfig           `mapstructure:"ai"`
}

type AIConfig struct {
	Provider              string        `mapstructure:"provider"`
	MinimumRelevanceScore float64       `mapstructure:"minimum-relevance-score"`
	Gemini                *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxWorkers int    `mapstructure:"max-workers"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "whatsup is a simple cli for fetching recent arxiv papers and scoring their relevance to your research",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is whatsup.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
