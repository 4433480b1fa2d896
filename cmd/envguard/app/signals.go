package app

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/sonemaro/envguard/pkg/logger"
)

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// setupSignalHandling cancels running checks on the first SIGINT or SIGTERM
// and exits on the second
func (a *App) setupSignalHandling() {
	a.log.Debug("Initializing signal handlers")

	signal.Notify(a.signals, syscall.SIGINT, syscall.SIGTERM)
	go a.handleSignals(a.signals, &signalState{})
}

func (a *App) stopSignalHandling() {
	a.stopOnce.Do(func() {
		signal.Stop(a.signals)
		close(a.done)
	})
}

// handleSignals processes incoming system signals
func (a *App) handleSignals(sigChan <-chan os.Signal, state *signalState) {
	for {
		select {
		case <-a.done:
			return
		case sig := <-sigChan:
			a.log.WithFields(logger.Fields{
				"signal": sig.String(),
			}).Debug("Received system signal")

			if !state.shutdownInitiated.CompareAndSwap(false, true) {
				a.handleForcedShutdown()
				return
			}
			a.handleGracefulShutdown()
		}
	}
}

// handleGracefulShutdown cancels outstanding checks; queued work fails with
// context.Canceled
func (a *App) handleGracefulShutdown() {
	a.log.Info("Interrupted, cancelling checks")
	a.cancel()
}

// handleForcedShutdown exits immediately
func (a *App) handleForcedShutdown() {
	a.log.Warn("Received second interrupt, exiting")
	os.Exit(130)
}
