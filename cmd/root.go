package cmd

import (
	"log"

	"github.com/tsailly/lettre-gen/internal/compose"
	"github.com/tsailly/lettre-gen/internal/profile"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "lettre-gen"
)

type Config struct {
	Profile  *profile.Profile `mapstructure:"profile"`
	Gemini   *GeminiConfig    `mapstructure:"gemini"`
	Paths    *PathsConfig     `mapstructure:"paths"`
	Compose  *ComposeConfig   `mapstructure:"compose"`
	Template string           `mapstructure:"template"`
}

type GeminiConfig struct {
	Model        string `mapstructure:"model"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
	// Temperature stays a pointer so an explicit 0 (deterministic sampling)
	// is distinguishable from "not configured".
	Temperature *float64 `mapstructure:"temperature"`
}

type PathsConfig struct {
	Input     string `mapstructure:"input"`
	Output    string `mapstructure:"output"`
	Templates string `mapstructure:"templates"`
}

type ComposeConfig struct {
	MaxLength     int      `mapstructure:"max-length"`
	BannedPhrases []string `mapstructure:"banned-phrases"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "lettre-gen turns job-ad text files into personalized cover-letter PDFs",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Mirrors the historical python-dotenv behavior: a missing .env is fine.
	_ = godotenv.Load()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is lettre-gen.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the run and preview commands.
	if runCmd.CalledAs() == "" && previewCmd.CalledAs() == "" {
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
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	applyDefaults(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}
	if config.Gemini.MaxRetries <= 0 {
		config.Gemini.MaxRetries = 3
	}
	if config.Paths == nil {
		config.Paths = &PathsConfig{}
	}
	if config.Paths.Input == "" {
		config.Paths.Input = "input"
	}
	if config.Paths.Output == "" {
		config.Paths.Output = "output"
	}
	if config.Paths.Templates == "" {
		config.Paths.Templates = "templates"
	}
	if config.Compose == nil {
		config.Compose = &ComposeConfig{}
	}
	if config.Compose.MaxLength <= 0 {
		config.Compose.MaxLength = compose.DefaultMaxLength
	}
}
