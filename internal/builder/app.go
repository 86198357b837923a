package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// App is the HTTP service with the resources it releases on shutdown
type App struct {
	server *http.Server
	// closers run in reverse order once the server has drained
	closers []func()
	logger  *zap.Logger
}

// Run serves HTTP until SIGINT/SIGTERM or a listener failure
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("prompt enhancer listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		a.logger.Error("HTTP server failed", zap.Error(err))
		a.release()
		return err
	case sig := <-sigChan:
		a.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	return a.shutdown()
}

// shutdown lets in-flight enhancements finish, then releases resources
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(ctx)
	if err != nil {
		a.logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	a.release()
	a.logger.Info("prompt enhancer stopped")
	_ = a.logger.Sync()

	return err
}

func (a *App) release() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
