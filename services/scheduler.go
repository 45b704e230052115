// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRankingScheduler refreshes the ranking once at startup and then
// every interval. The caller owns Shutdown.
func (s *RankingService) StartRankingScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if _, err := s.Refresh(ctx); err != nil {
				log.Printf("[Scheduler] ranking refresh failed: %v", err)
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule ranking refresh: %w", err)
	}

	sched.Start()
	log.Printf("⏱️ [Scheduler] ranking refresh every %s", interval)
	return sched, nil
}
