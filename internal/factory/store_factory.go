package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/adapters/store"
	"github.com/mikey/mailsift/internal/config"
	"github.com/mikey/mailsift/internal/core"
)

// StoreFactory creates term, domain, protected and result stores based on
// configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTermStore creates a term store based on the configuration
func (f *StoreFactory) CreateTermStore() (core.TermStore, error) {
	storeType := f.cfg.GetString("store.terms.type")

	switch storeType {
	case "memory":
		return store.NewDefaultTermStore(), nil
	case "sqlite":
		sqlitePath := f.cfg.GetString("store.terms.sqlite_path")
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteTermStore(sqlitePath, f.logger)
	default:
		return nil, fmt.Errorf("unsupported term store type: %s", storeType)
	}
}

// CreateDomainStore creates a domain store based on the configuration
func (f *StoreFactory) CreateDomainStore() (core.DomainStore, error) {
	storeType := f.cfg.GetString("store.domains.type")

	switch storeType {
	case "memory":
		return store.NewDefaultDomainStore(), nil
	case "sqlite":
		sqlitePath := f.cfg.GetString("store.domains.sqlite_path")
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteDomainStore(sqlitePath, f.logger)
	case "mysql":
		mysqlDSN := f.cfg.GetString("store.domains.mysql_dsn")
		return store.NewMySQLDomainStore(mysqlDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported domain store type: %s", storeType)
	}
}

// CreateProtectedStore creates the protected-pattern store from the
// configured allow lists
func (f *StoreFactory) CreateProtectedStore() core.ProtectedStore {
	return store.NewMemoryProtectedStore(
		f.cfg.GetStringSlice("store.protected.senders"),
		f.cfg.GetStringSlice("store.protected.domains"),
		f.cfg.GetStringSlice("store.protected.subjects"),
	)
}

// CreateResultStore creates a verdict sink, or nil when recording is disabled
func (f *StoreFactory) CreateResultStore() (core.ResultSink, error) {
	if !f.cfg.GetBool("store.results.enabled") {
		return nil, nil
	}
	sqlitePath := f.cfg.GetString("store.results.sqlite_path")
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
	}
	return store.NewSQLiteResultStore(sqlitePath, f.logger)
}
