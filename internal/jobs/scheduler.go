package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"eblotter/api/internal/models"
)

const openBlotterStatsKey = "stats:blotters:open"

// SOSExpirer flips stale pending emergency requests to Expired.
type SOSExpirer interface {
	ExpireStale(ctx context.Context, staleAfter time.Duration) (int64, error)
}

// BlotterCounter reports how many reports sit at a given status.
type BlotterCounter interface {
	CountByStatus(ctx context.Context, status models.BlotterStatus) (int, error)
}

type Scheduler struct {
	cron       *cron.Cron
	sos        SOSExpirer
	blotters   BlotterCounter
	cache      *redis.Client
	staleAfter time.Duration
	log        zerolog.Logger
}

func NewScheduler(sos SOSExpirer, blotters BlotterCounter, cache *redis.Client, staleAfter time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		sos:        sos,
		blotters:   blotters,
		cache:      cache,
		staleAfter: staleAfter,
		log:        log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.expireStaleSOS); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.publishOpenCount); err != nil { // hourly refresh
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish, up to five seconds.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) expireStaleSOS() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := s.sos.ExpireStale(ctx, s.staleAfter)
	if err != nil {
		s.log.Error().Err(err).Msg("sos expiry job failed")
		return
	}
	s.log.Info().Int64("expired", expired).Msg("sos expiry job done")
}

// publishOpenCount caches the number of still-open reports so dashboards
// read a counter instead of hitting postgres.
func (s *Scheduler) publishOpenCount() {
	if s.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	open := 0
	for _, status := range []models.BlotterStatus{models.StatusPending, models.StatusUnderReview, models.StatusInvestigating} {
		count, err := s.blotters.CountByStatus(ctx, status)
		if err != nil {
			s.log.Error().Err(err).Str("status", string(status)).Msg("open count failed")
			return
		}
		open += count
	}

	if err := s.cache.Set(ctx, openBlotterStatsKey, open, 2*time.Hour).Err(); err != nil {
		s.log.Error().Err(err).Msg("publish open count failed")
		return
	}
	s.log.Debug().Int("open", open).Msg("open blotter count published")
}
