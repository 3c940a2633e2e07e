// services/scheduler.go
package services

import (
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

func (s *CheckpointService) StartCheckpointScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: pull randomness for any completed checkpoints. The
	// loop catches up one bucket per call after downtime.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			for {
				cp, err := s.RequestRandomness()
				if errors.Is(err, ErrRandomnessTooSoon) {
					return
				}
				if err != nil {
					log.Printf("[Scheduler] Randomness request failed: %v", err)
					return
				}
				log.Printf("✅ Requested random word for checkpoint %d (request %s)", cp.Timestamp, cp.RequestID)
			}
		}),
	)

	// Daily: drop tickets whose random word can no longer be fetched.
	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			deleted, err := s.SweepExpiredTickets()
			if err != nil {
				log.Printf("[Scheduler] Ticket sweep failed: %v", err)
				return
			}
			if deleted > 0 {
				log.Printf("🧹 Swept %d expired reward tickets", deleted)
			}
		}),
	)
}
