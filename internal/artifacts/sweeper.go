package artifacts

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkblot-io/inkblot/pkg/lifecycle"
)

// Sweeper periodically reclaims expired artifacts in the background.
type Sweeper struct {
	sys      System
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a retention sweeper running at the given interval.
func NewSweeper(sys System, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		sys:      sys,
		interval: interval,
		logger:   logger.With("system", "sweeper"),
	}
}

// Start launches the sweep loop. It stops when the lifecycle context is
// canceled.
func (s *Sweeper) Start(lc *lifecycle.Coordinator) error {
	ctx := lc.Context()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("retention sweeper started", "interval", s.interval)

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("retention sweeper stopped")
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()

	return nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.sys.DeleteExpired(ctx); err != nil {
		s.logger.Error("retention sweep failed", "error", err)
	}
}
