// Package app runs the long-lived services (HTTP API, queue worker) with
// coordinated startup and graceful shutdown.
package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Service is one long-running unit.
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner supervises a set of services.
type Runner struct {
	services []Service
}

// NewRunner creates a runner. Nil entries are ignored.
func NewRunner(services ...Service) *Runner {
	r := &Runner{}
	for _, svc := range services {
		if svc != nil {
			r.services = append(r.services, svc)
		}
	}
	return r
}

// RunWithOptions runs the services and stops them on the configured signals.
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}

	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run starts every service and blocks until one exits or ctx ends, then
// stops the rest within stopTimeout. A clean shutdown (ctx cancelled by a
// signal) returns nil.
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exits := make(chan error, len(r.services))
	for _, svc := range r.services {
		go r.startOne(ctx, svc, log, exits)
	}

	var cause error
	select {
	case <-ctx.Done():
		cause = ctx.Err()
	case err := <-exits:
		cause = err
	}
	cancel()

	r.stopAll(stopTimeout, log)

	if errors.Is(cause, context.Canceled) {
		return nil
	}
	return cause
}

func (r *Runner) startOne(ctx context.Context, svc Service, log *zap.SugaredLogger, exits chan<- error) {
	if log != nil {
		log.Infow("service_start", "service", svc.Name())
	}
	err := svc.Start(ctx)
	if log != nil {
		log.Infow("service_exit", "service", svc.Name(), "error", err)
	}
	exits <- err
}

func (r *Runner) stopAll(stopTimeout time.Duration, log *zap.SugaredLogger) {
	if stopTimeout <= 0 {
		stopTimeout = 10 * time.Second
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()

	for _, svc := range r.services {
		if err := svc.Stop(stopCtx); err != nil && log != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
}
