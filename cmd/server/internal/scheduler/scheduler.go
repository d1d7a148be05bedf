package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mohitrana7/Stock-Predictor/pkg/models"
)

// QuoteFetcher is satisfied by quote.Fetcher.
type QuoteFetcher interface {
	Fetch(ctx context.Context, symbol string) (*models.Quote, error)
}

// Broadcaster fans a quote out to connected clients; satisfied by hub.Hub.
type Broadcaster interface {
	Broadcast(q *models.Quote)
}

// UpdateSink receives a copy of every broadcast quote. The Kafka sink
// implements it; a nil sink disables mirroring.
type UpdateSink interface {
	Publish(ctx context.Context, q *models.Quote) error
}

// Scheduler fetches a bounded batch of roster symbols on a fixed period and
// broadcasts each result. Fetches within a tick are sequential on purpose:
// the upstream rate limit is the binding constraint, not throughput.
type Scheduler struct {
	roster      []string
	batchSize   int
	interval    time.Duration
	fetcher     QuoteFetcher
	broadcaster Broadcaster
	sink        UpdateSink
	logger      *zap.Logger

	cursor int // next roster index; only Run's goroutine touches it
}

func New(roster []string, batchSize int, interval time.Duration, fetcher QuoteFetcher, broadcaster Broadcaster, sink UpdateSink, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		roster:      roster,
		batchSize:   batchSize,
		interval:    interval,
		fetcher:     fetcher,
		broadcaster: broadcaster,
		sink:        sink,
		logger:      logger,
	}
}

// Run executes one Tick per interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler started",
		zap.Duration("interval", s.interval),
		zap.Int("batch_size", s.batchSize),
		zap.Int("roster_size", len(s.roster)))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick fetches the next batch and broadcasts every non-absent result. One
// symbol failing does not abort the rest of the batch; a failed symbol is
// simply retried whenever the rotation brings it around again.
func (s *Scheduler) Tick(ctx context.Context) {
	for _, symbol := range s.nextBatch() {
		if ctx.Err() != nil {
			return
		}

		q, err := s.fetcher.Fetch(ctx, symbol)
		if err != nil {
			continue // logged by the fetcher
		}

		s.broadcaster.Broadcast(q)

		if s.sink != nil {
			if err := s.sink.Publish(ctx, q); err != nil {
				s.logger.Error("Sink publish failed", zap.String("symbol", symbol), zap.Error(err))
			}
		}
	}
}

// nextBatch returns up to batchSize symbols, advancing a rotating window
// across ticks so every roster entry is eventually covered rather than only
// the prefix. The at-most-batchSize bound per tick is what keeps the
// upstream rate limiter happy.
func (s *Scheduler) nextBatch() []string {
	if len(s.roster) == 0 || s.batchSize <= 0 {
		return nil
	}

	n := s.batchSize
	if n > len(s.roster) {
		n = len(s.roster)
	}

	batch := make([]string, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, s.roster[(s.cursor+i)%len(s.roster)])
	}
	s.cursor = (s.cursor + n) % len(s.roster)
	return batch
}
