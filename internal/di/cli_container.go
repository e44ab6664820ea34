package di

import (
	"flag"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/config"
	"github.com/mikey/mailsift/internal/factory"
	"github.com/mikey/mailsift/internal/logging"
	"github.com/mikey/mailsift/internal/ports"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Classification flags
	Threshold        float64
	RelaxedThreshold float64
	RequireHigh      bool
	Models           string

	// Store flags
	TermDB   string
	DomainDB string

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Classification flags
	flag.Float64Var(&flags.Threshold, "threshold", 0.7, "Confidence threshold for category matches")
	flag.Float64Var(&flags.RelaxedThreshold, "relaxed-threshold", 0.5, "Threshold when domain or display-name signals look suspicious")
	flag.BoolVar(&flags.RequireHigh, "require-high-confidence", false, "Only delete on high-confidence verdicts")
	flag.StringVar(&flags.Models, "models", "keyword", "Comma-separated scoring models (keyword, bayes, forest, llm)")

	// Store flags
	flag.StringVar(&flags.TermDB, "term-db", "", "SQLite term database (built-in term lists if not specified)")
	flag.StringVar(&flags.DomainDB, "domain-db", "", "SQLite domain database (built-in domain list if not specified)")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for
// the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewWithFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register email filter
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// CLI specific settings
	v.Set("server.filter_type", "cli")
	v.Set("cli.verbose", flags.Verbose)

	// Classification settings
	v.Set("classifier.threshold", flags.Threshold)
	v.Set("classifier.relaxed_threshold", flags.RelaxedThreshold)
	v.Set("classifier.require_high_confidence", flags.RequireHigh)
	v.Set("models.enabled", splitModels(flags.Models))

	// Store settings
	if flags.TermDB != "" {
		v.Set("store.terms.type", "sqlite")
		v.Set("store.terms.sqlite_path", flags.TermDB)
	}
	if flags.DomainDB != "" {
		v.Set("store.domains.type", "sqlite")
		v.Set("store.domains.sqlite_path", flags.DomainDB)
	}

	// One-shot runs never record verdicts
	v.Set("store.results.enabled", false)

	return config.NewFromViper(v)
}

func splitModels(models string) []string {
	var out []string
	for _, m := range strings.Split(models, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
