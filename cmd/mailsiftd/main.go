package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/config"
	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/di"
	"github.com/mikey/mailsift/internal/ports"
	"github.com/mikey/mailsift/internal/registry"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	emailFilter ports.EmailFilter,
	handle *registry.Handle,
	termStore core.TermStore,
	domainStore core.DomainStore,
	results core.ResultSink,
) error {
	defer logger.Sync()

	// Start the filter
	if err := emailFilter.Start(); err != nil {
		logger.Fatal("Failed to start filter", zap.Error(err))
		return err
	}

	// SIGHUP rebuilds the term registry from the store and swaps it in
	// without interrupting in-flight classifications. SIGINT/SIGTERM shut
	// down.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range sigCh {
		if sig != syscall.SIGHUP {
			break
		}
		logger.Info("Reloading term registry")
		reg, err := registry.Build(context.Background(), termStore,
			cfg.GetClassifier().CategoryThresholds, logger)
		if err != nil {
			logger.Error("Registry reload failed, keeping current registry", zap.Error(err))
			continue
		}
		handle.Swap(reg)
		logger.Info("Term registry reloaded", zap.Int("categories", reg.Len()))
	}
	logger.Info("Shutting down...")

	// Stop the filter
	if err := emailFilter.Stop(); err != nil {
		logger.Error("Failed to stop filter", zap.Error(err))
	}

	// Close any stores that hold database handles
	for _, resource := range []interface{}{termStore, domainStore, results} {
		if closer, ok := resource.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close store", zap.Error(err))
			}
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
