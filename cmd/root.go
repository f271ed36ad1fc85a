package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/jd"
	"github.com/spigell/ats-analyzer/internal/logger"
	"github.com/spigell/ats-analyzer/internal/vocabulary"
)

const (
	app       = "ats-analyzer"
	envPrefix = "ATS"

	defaultWorkers = 4
)

type Config struct {
	VocabularyFile string    `mapstructure:"vocabulary-file"`
	Workers        int       `mapstructure:"workers"`
	MaxLogLength   int       `mapstructure:"max-log-length"`
	OutputDir      string    `mapstructure:"output-dir"`
	Fetch          jd.Config `mapstructure:"fetch"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ats-analyzer scores resumes against ATS heuristics and matches them with job descriptions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-analyzer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("output-dir", "", "directory for reports written without an explicit path")
	rootCmd.PersistentFlags().String("vocabulary-file", "", "a vocabulary file overriding the built-in term lists")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("output-dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	viper.BindPFlag("vocabulary-file", rootCmd.PersistentFlags().Lookup("vocabulary-file"))

	viper.SetDefault("workers", defaultWorkers)
	viper.SetDefault("max-log-length", 200)
	viper.SetDefault("fetch.timeout", "30s")
	viper.SetDefault("fetch.retries", 2)
	viper.SetDefault("fetch.retry-delay", "1s")
}

func initConfig() {
	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	// Keys without defaults are invisible to Unmarshal unless bound explicitly.
	for _, key := range []string{"vocabulary-file", "output-dir", "fetch.user-agent"} {
		if err := viper.BindEnv(key); err != nil {
			log.Fatalf("binding environment variable for %s: %v", key, err)
		}
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
	viper.SetConfigType("yaml")

	// The default config file is optional.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	err := viper.Unmarshal(config)
	if err != nil {
		return config, err
	}

	if config.Workers <= 0 {
		config.Workers = defaultWorkers
	}

	return config, nil
}

// setup builds the logger, the config and the vocabulary shared by every command.
func setup() (*zap.Logger, *Config, *vocabulary.Vocabulary) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	vocab, err := vocabulary.Load(config.VocabularyFile)
	if err != nil {
		logger.Fatal("loading vocabulary", zap.Error(err), zap.String("path", config.VocabularyFile))
	}

	logger.Debug("starting the ats-analyzer",
		zap.String("version", resolveVersion()),
		zap.Int("vocabulary_version", vocab.Version()),
		zap.Int("workers", config.Workers),
	)

	return logger, config, vocab
}
