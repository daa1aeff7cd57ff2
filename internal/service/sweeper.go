package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pattarapk/storefront/internal/repository"
)

// Sweeper periodically removes expired refresh credentials. It runs
// independently of request traffic and shares no state beyond the store.
type Sweeper struct {
	rfrTokenRps repository.RefreshTokenRepository
	interval    time.Duration
}

// NewSweeper builds new Sweeper
func NewSweeper(rfrTokenRps repository.RefreshTokenRepository, interval time.Duration) *Sweeper {
	return &Sweeper{rfrTokenRps: rfrTokenRps, interval: interval}
}

// Run blocks until ctx is done, sweeping once per interval
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.rfrTokenRps.SweepExpired(ctx)
			if err != nil {
				logrus.Errorf("failed to sweep expired refresh tokens - %v", err)
				continue
			}
			if removed > 0 {
				logrus.Infof("swept %d expired refresh tokens", removed)
			}
		}
	}
}
