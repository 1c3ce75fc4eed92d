package workflow

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imtaco/meet-embed/internal/errors"
	"github.com/imtaco/meet-embed/internal/log"
)

const (
	ErrShutdownTimeout errors.Code = "shutdown timeout"
	ErrShutdownPanic   errors.Code = "shutdown panic"
)

// GracefulShutdownAction receives a context bounded by the shutdown timeout.
type GracefulShutdownAction func(ctx context.Context)

// WaitGracefulShutdown blocks until ctx ends or SIGINT/SIGTERM arrives, then
// runs action within timeout.
func WaitGracefulShutdown(
	ctx context.Context,
	logger *log.Logger,
	action GracefulShutdownAction,
	timeout time.Duration,
) {
	if ctx == nil {
		ctx = context.Background()
	}
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Graceful shutdown handler registered")
	<-sigCtx.Done()

	if err := RunShutdown(logger, action, timeout); err != nil {
		logger.Warn("Graceful shutdown incomplete", log.Error(err))
		return
	}
	logger.Info("Graceful shutdown completed")
}

// RunShutdown runs action with a fresh deadline. It returns when action
// returns or the deadline passes, whichever is first; a panicking action is
// reported as an error.
func RunShutdown(logger *log.Logger, action GracefulShutdownAction, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- errors.Newf(ErrShutdownPanic, "%v", r)
			}
		}()
		logger.Info("Starting graceful shutdown", log.Duration("timeout", timeout))
		action(ctx)
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrShutdownTimeout
	}
}
