package worker

import (
	"context"
	"errors"
	"time"

	"github.com/inkfolio-shop/internal/config"
	"github.com/inkfolio-shop/internal/logger"
	"github.com/inkfolio-shop/internal/queue"

	"github.com/hibiken/asynq"
)

// Abandoned carts whose expiry task got lost are swept on this interval.
const cartPurgeInterval = 15 * time.Minute

// Service runs the asynq server.
type Service struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the queue worker service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}

	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server:   asynq.NewServer(opt, serverCfg),
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string { return "worker" }

// Start runs the asynq server and the cart purge loop until ctx ends.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.CartService != nil {
		go s.runCartPurgeLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the asynq server down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runCartPurgeLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.CartService == nil {
		return
	}
	runOnce := func() {
		purged, err := s.consumer.CartService.PurgeExpired()
		if err != nil {
			logger.Warnw("worker_cart_purge_failed", "error", err)
			return
		}
		if purged > 0 {
			logger.Infow("worker_cart_purge_done", "purged", purged)
		}
	}
	runOnce()

	ticker := time.NewTicker(cartPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
