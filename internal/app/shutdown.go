// internal/app/shutdown.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 15 * time.Second

// CloseFunc releases one resource within ctx.
type CloseFunc func(ctx context.Context) error

// ShutdownHandler closes registered resources in reverse order
type ShutdownHandler struct {
	logger   *zap.Logger
	mu       sync.Mutex
	services []namedService
	timeout  time.Duration
}

type namedService struct {
	name  string
	close CloseFunc
}

func NewShutdownHandler(logger *zap.Logger, timeout time.Duration) *ShutdownHandler {
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &ShutdownHandler{logger: logger, timeout: timeout}
}

// Add registers a resource for shutdown
func (sh *ShutdownHandler) Add(name string, fn CloseFunc) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.services = append(sh.services, namedService{name: name, close: fn})
	sh.logger.Debug("Registered service for shutdown", zap.String("service", name))
}

// Shutdown closes every resource (LIFO), each bounded by the handler timeout,
// and returns all failures combined. It is safe to call more than once.
func (sh *ShutdownHandler) Shutdown(ctx context.Context) error {
	sh.mu.Lock()
	services := sh.services
	sh.services = nil
	sh.mu.Unlock()

	var result *multierror.Error
	for i := len(services) - 1; i >= 0; i-- {
		svc := services[i]
		if err := sh.closeOne(ctx, svc); err != nil {
			sh.logger.Error("Failed to shutdown service", zap.String("service", svc.name), zap.Error(err))
			result = multierror.Append(result, fmt.Errorf("%s: %w", svc.name, err))
			continue
		}
		sh.logger.Debug("Service shutdown complete", zap.String("service", svc.name))
	}
	return result.ErrorOrNil()
}

func (sh *ShutdownHandler) closeOne(ctx context.Context, svc namedService) error {
	ctx, cancel := context.WithTimeout(ctx, sh.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- svc.close(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}
