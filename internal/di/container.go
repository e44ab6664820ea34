package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/brand"
	"github.com/mikey/mailsift/internal/classifier"
	"github.com/mikey/mailsift/internal/config"
	"github.com/mikey/mailsift/internal/content"
	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/domaincheck"
	"github.com/mikey/mailsift/internal/ensemble"
	"github.com/mikey/mailsift/internal/factory"
	"github.com/mikey/mailsift/internal/logging"
	"github.com/mikey/mailsift/internal/ports"
	"github.com/mikey/mailsift/internal/prefix"
	"github.com/mikey/mailsift/internal/registry"
	"github.com/mikey/mailsift/internal/twofactor"
	"github.com/mikey/mailsift/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
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

// provideCore registers the stores, heuristics, models and the classification
// engine. Shared between the daemon and CLI containers.
func provideCore(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewModelFactory); err != nil {
		return err
	}

	// Register stores
	if err := container.Provide(func(f *factory.StoreFactory) (core.TermStore, error) {
		return f.CreateTermStore()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.StoreFactory) (core.DomainStore, error) {
		return f.CreateDomainStore()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.StoreFactory) core.ProtectedStore {
		return f.CreateProtectedStore()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.StoreFactory) (core.ResultSink, error) {
		return f.CreateResultStore()
	}); err != nil {
		return err
	}

	// Register the category registry, built once at startup and swappable
	// out-of-band
	if err := container.Provide(func(cfg *config.Config, terms core.TermStore, logger *zap.Logger) (*registry.Handle, error) {
		classifierCfg := cfg.GetClassifier()
		reg, err := registry.Build(context.Background(), terms, classifierCfg.CategoryThresholds, logger)
		if err != nil {
			return nil, err
		}
		return registry.NewHandle(reg), nil
	}); err != nil {
		return err
	}

	// Register heuristic components
	if err := container.Provide(func(domains core.DomainStore, logger *zap.Logger) *domaincheck.Oracle {
		return domaincheck.NewOracle(domains, logger)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(cfg *config.Config) *prefix.Validator {
		return prefix.NewValidator(cfg.GetStringMapFloat64("prefix.overrides"))
	}); err != nil {
		return err
	}
	if err := container.Provide(twofactor.NewClassifier); err != nil {
		return err
	}
	if err := container.Provide(brand.NewDetector); err != nil {
		return err
	}
	if err := container.Provide(content.NewMatcher); err != nil {
		return err
	}

	// Register scoring models
	if err := container.Provide(func(f *factory.ModelFactory, matcher *content.Matcher) []core.ScoringModel {
		return f.CreateModels(matcher)
	}); err != nil {
		return err
	}

	// Register ensemble combiner
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *ensemble.Combiner {
		ensembleCfg := cfg.GetEnsemble()
		return ensemble.NewCombiner(
			ensembleCfg.Weights,
			ensembleCfg.HighLevel,
			ensembleCfg.MediumLevel,
			ensembleCfg.MarketingCategories,
			logger,
		)
	}); err != nil {
		return err
	}

	// Register whitelist verifier
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.AuthVerifier {
		return whitelist.NewVerifier(
			cfg.GetStringSlice("whitelist.senders"),
			cfg.GetStringSlice("whitelist.domains"),
			logger,
		)
	}); err != nil {
		return err
	}

	// Register the classification engine
	return container.Provide(func(
		cfg *config.Config,
		matcher *content.Matcher,
		oracle *domaincheck.Oracle,
		twoFactor *twofactor.Classifier,
		brands *brand.Detector,
		combiner *ensemble.Combiner,
		protected core.ProtectedStore,
		models []core.ScoringModel,
		modelFactory *factory.ModelFactory,
		auth core.AuthVerifier,
		results core.ResultSink,
		logger *zap.Logger,
	) *classifier.Classifier {
		classifierCfg := cfg.GetClassifier()
		return classifier.New(classifier.Params{
			Matcher:   matcher,
			Oracle:    oracle,
			TwoFactor: twoFactor,
			Brands:    brands,
			Combiner:  combiner,
			Protected: protected,
			Models:    models,
			FastPath:  modelFactory.SelectFastPath(models),
			Auth:      auth,
			Results:   results,
			Capabilities: classifier.Capabilities{
				TwoFactor:         classifierCfg.TwoFactor,
				SubdomainDetector: classifierCfg.SubdomainDetector,
				LogicalClassifier: classifierCfg.LogicalClassifier,
				Ensemble:          classifierCfg.Ensemble,
			},
			Threshold:        registry.NormalizeThreshold(classifierCfg.Threshold),
			RelaxedThreshold: registry.NormalizeThreshold(classifierCfg.RelaxedThreshold),
			RequireHigh:      classifierCfg.RequireHighConfidence,
			Logger:           logger,
		})
	})
}
