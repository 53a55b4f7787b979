package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const cleanupTimeout = 30 * time.Second

// ExpiredSessionReaper deletes session records that are past their expiry.
type ExpiredSessionReaper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// CleanupJob periodically reaps expired sessions. Session validation never
// depends on it having run.
type CleanupJob struct {
	sessions ExpiredSessionReaper
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewCleanupJob(sessions ExpiredSessionReaper, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		sessions: sessions,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	j.wg.Add(1)
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

// Stop signals the job and waits for an in-flight pass to finish.
func (j *CleanupJob) Stop() {
	close(j.done)
	j.wg.Wait()
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.reap()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.reap()
		}
	}
}

func (j *CleanupJob) reap() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	count, err := j.sessions.DeleteExpired(ctx)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("failed to reap expired sessions")
	case count > 0:
		log.Info().Int64("count", count).Msg("reaped expired sessions")
	}
}
