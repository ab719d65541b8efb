package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/ats-matcher/internal/ai/gemini"
)

const (
	app = "ats-matcher"
)

type Config struct {
	Embedding *EmbeddingConfig `mapstructure:"embedding"`
	AI        *AIConfig        `mapstructure:"ai"`
	Lexical   *LexicalConfig   `mapstructure:"lexical"`
}

type EmbeddingConfig struct {
	ModelPath      string `mapstructure:"model-path"`
	TokenizerPath  string `mapstructure:"tokenizer-path"`
	RuntimeLibrary string `mapstructure:"runtime-library"`
	OutputName     string `mapstructure:"output-name"`
	Pooled         bool   `mapstructure:"pooled"`
	Dimensions     int    `mapstructure:"dimensions"`
	MaxTokens      int    `mapstructure:"max-tokens"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey         string                      `mapstructure:"api-key" json:"-"`
	APIKeyFile     string                      `mapstructure:"api-key-file"`
	Model          string                      `mapstructure:"model"`
	MaxRetries     int                         `mapstructure:"max-retries"`
	MaxLogLength   int                         `mapstructure:"max-log-length"`
	CircuitBreaker gemini.CircuitBreakerConfig `mapstructure:"circuit-breaker"`
}

type LexicalConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ats-matcher scores how well a resume matches a job description and suggests improvements",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("embedding.output-name", "last_hidden_state")
	viper.SetDefault("embedding.dimensions", 384)
	viper.SetDefault("embedding.max-tokens", 256)

	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.timeout", 60*time.Second)
	viper.SetDefault("ai.gemini.model", gemini.DefaultModel)
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("ai.gemini.circuit-breaker.max-requests", 1)
	viper.SetDefault("ai.gemini.circuit-breaker.interval", time.Minute)
	viper.SetDefault("ai.gemini.circuit-breaker.timeout", 30*time.Second)
	viper.SetDefault("ai.gemini.circuit-breaker.min-requests", 3)
	viper.SetDefault("ai.gemini.circuit-breaker.failure-threshold", 0.6)

	viper.SetDefault("lexical.enabled", true)
}

func initConfig() {
	// A .env file is optional; it usually carries GEMINI_API_KEY.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)

	// Defaults are enough to run without a config file.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
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
