package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/adapters/filter"
	"github.com/mikey/mailsift/internal/classifier"
	"github.com/mikey/mailsift/internal/config"
	"github.com/mikey/mailsift/internal/ports"
)

// FilterFactory creates email filter surfaces based on configuration
type FilterFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	engine *classifier.Classifier
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, engine *classifier.Classifier) *FilterFactory {
	return &FilterFactory{
		cfg:    cfg,
		logger: logger,
		engine: engine,
	}
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	serverCfg := f.cfg.GetServer()

	switch serverCfg.FilterType {
	case "smtp":
		return filter.NewSMTPFilter(
			f.engine,
			f.logger,
			serverCfg.ListenAddress,
			serverCfg.BlockSpam,
			serverCfg.CategoryHeader,
			serverCfg.ConfidenceHeader,
			serverCfg.ReasonHeader,
			serverCfg.ActionHeader,
			serverCfg.RelayAddress,
			serverCfg.RelayPort,
			serverCfg.RelayEnabled,
			serverCfg.SubjectPrefix,
			serverCfg.ModifySubject,
		), nil
	case "cli":
		return filter.NewCLIFilter(
			f.engine,
			f.logger,
			f.cfg.GetBool("cli.verbose"),
		)
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", serverCfg.FilterType)
	}
}
