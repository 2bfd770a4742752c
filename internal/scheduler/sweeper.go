package scheduler

import (
	"context"
	"time"

	buyersservice "yuvna_backend/internal/buyers/service"
	"yuvna_backend/platform/logger"
)

const (
	defaultSweepInterval    = time.Hour
	defaultDispatchInterval = 15 * time.Minute
	sweepBatchSize          = 500
)

// Sweeper periodically enqueues refresh tasks for buyers whose scores have
// gone stale, and a dispatch task for due outreach steps. The heavy lifting
// happens in the worker so a slow batch never blocks the next tick.
type Sweeper struct {
	buyers           *buyersservice.Service
	client           *Client
	log              *logger.Logger
	sweepInterval    time.Duration
	dispatchInterval time.Duration
	gracePeriod      time.Duration
}

func NewSweeper(buyers *buyersservice.Service, client *Client, graceDays int, log *logger.Logger) *Sweeper {
	return &Sweeper{
		buyers:           buyers,
		client:           client,
		log:              log,
		sweepInterval:    defaultSweepInterval,
		dispatchInterval: defaultDispatchInterval,
		gracePeriod:      time.Duration(graceDays) * 24 * time.Hour,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	sweepTicker := time.NewTicker(s.sweepInterval)
	defer sweepTicker.Stop()
	dispatchTicker := time.NewTicker(s.dispatchInterval)
	defer dispatchTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweepTicker.C:
			s.sweep(ctx)
		case <-dispatchTicker.C:
			if err := s.client.EnqueueOutreachDispatch(ctx); err != nil {
				s.log.Warn("failed to enqueue outreach dispatch", "error", err)
			}
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	ids, err := s.buyers.StaleBuyerIDs(ctx, s.gracePeriod, sweepBatchSize)
	if err != nil {
		s.log.Warn("stale buyer sweep failed", "error", err)
		return
	}

	enqueued := 0
	for _, id := range ids {
		if err := s.client.EnqueueScoreRefresh(ctx, id.String()); err != nil {
			s.log.Warn("failed to enqueue score refresh", "buyer_id", id, "error", err)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		s.log.Info("stale buyer scores queued for refresh", "count", enqueued)
	}
}
