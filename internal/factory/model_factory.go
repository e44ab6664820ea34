package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/adapters/models"
	"github.com/mikey/mailsift/internal/config"
	"github.com/mikey/mailsift/internal/content"
	"github.com/mikey/mailsift/internal/core"
)

// ModelFactory creates the scoring models enabled by configuration
type ModelFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewModelFactory creates a new model factory
func NewModelFactory(cfg *config.Config, logger *zap.Logger) *ModelFactory {
	return &ModelFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateModels creates the enabled scoring models. A model that fails to load
// is skipped with a warning so the ensemble degrades rather than the process
// failing to start.
func (f *ModelFactory) CreateModels(matcher *content.Matcher) []core.ScoringModel {
	var created []core.ScoringModel

	for _, name := range f.cfg.GetStringSlice("models.enabled") {
		switch name {
		case "keyword":
			created = append(created,
				models.NewKeywordModel(matcher, f.cfg.GetFloat64("classifier.threshold")))
		case "bayes":
			m, err := models.LoadBayesModel(f.cfg.GetString("models.bayes.path"), f.logger)
			if err != nil {
				f.logger.Warn("Failed to load bayes model, skipping", zap.Error(err))
				continue
			}
			created = append(created, m)
		case "forest":
			m, err := models.LoadForestModel(f.cfg.GetString("models.forest.path"), f.logger)
			if err != nil {
				f.logger.Warn("Failed to load forest model, skipping", zap.Error(err))
				continue
			}
			created = append(created, m)
		case "llm":
			openaiCfg := f.cfg.GetOpenAI()
			if openaiCfg.APIKey == "" {
				f.logger.Warn("LLM model enabled but no API key configured, skipping")
				continue
			}
			created = append(created, models.NewLLMModel(
				openaiCfg.APIKey,
				openaiCfg.ModelName,
				openaiCfg.MaxTokens,
				openaiCfg.Temperature,
				openaiCfg.TopP,
				openaiCfg.MaxBodySize,
				f.logger,
			))
		default:
			f.logger.Warn("Unknown model name in models.enabled, skipping",
				zap.String("model", name))
		}
	}

	return created
}

// SelectFastPath returns the model named by models.fast_path, or nil when
// unset or absent.
func (f *ModelFactory) SelectFastPath(created []core.ScoringModel) core.ScoringModel {
	name := f.cfg.GetString("models.fast_path")
	if name == "" {
		return nil
	}
	for _, m := range created {
		if m.Name() == name {
			return m
		}
	}
	f.logger.Warn("Configured fast-path model is not loaded", zap.String("model", name))
	return nil
}
