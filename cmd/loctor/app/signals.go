/*
Package app signal handling implementation provides graceful shutdown and
cleanup functionality for loctor. It handles system signals like SIGINT and
SIGTERM, ensuring proper resource cleanup and operation termination.
*/
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sonemaro/loctor/internal/config"
	"github.com/sonemaro/loctor/pkg/logger"
)

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
	forceShutdown     atomic.Bool
}

// setupSignalHandling initializes signal handling for graceful shutdown
func (a *App) setupSignalHandling() {
	state := &signalState{}

	a.log.Debug("Initializing signal handlers")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)

	go a.handleSignals(sigChan, state)
}

// handleSignals processes incoming system signals
func (a *App) handleSignals(sigChan chan os.Signal, state *signalState) {
	for sig := range sigChan {
		a.log.WithFields(logger.Fields{
			"signal": sig.String(),
		}).Debug("Received system signal")

		switch sig {
		case syscall.SIGINT, syscall.SIGTERM:
			if state.forceShutdown.Load() {
				a.handleForcedShutdown()
				return
			}

			if state.shutdownInitiated.Load() {
				a.log.Warn("Received second interrupt, initiating forced shutdown")
				state.forceShutdown.Store(true)
				continue
			}

			if !state.shutdownInitiated.CompareAndSwap(false, true) {
				continue
			}

			a.handleGracefulShutdown()

		case syscall.SIGHUP:
			a.handleHangup()
		}
	}
}

// handleGracefulShutdown performs a graceful shutdown of the application
func (a *App) handleGracefulShutdown() {
	a.log.Info("Initiating graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Cancel the in-flight count; Run observes the context and unwinds.
	a.cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Shutdown()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Error("Shutdown encountered errors")
		} else {
			a.log.Info("Graceful shutdown completed")
		}

	case <-ctx.Done():
		a.log.Error("Shutdown timed out")
	}

	os.Exit(130)
}

// handleForcedShutdown performs an immediate shutdown
func (a *App) handleForcedShutdown() {
	a.log.Warn("Forced shutdown initiated")

	a.cancel()

	if a.progress != nil {
		a.progress.Stop()
	}

	a.log.Info("Forced shutdown completed")
	os.Exit(1)
}

// handleHangup handles SIGHUP signal
func (a *App) handleHangup() {
	a.log.Info("Received SIGHUP signal")

	if err := a.reloadConfiguration(); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to reload configuration")
	}
}

// reloadConfiguration reloads application configuration
func (a *App) reloadConfiguration() error {
	a.log.Debug("Reloading configuration")

	a.mu.Lock()
	defer a.mu.Unlock()

	newConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	a.config = &newConfig
	a.initComponents()

	a.log.Info("Configuration reloaded successfully")
	return nil
}
