package workers

import (
	"context"
	"errors"
	"log"
	"time"

	"action-quest-system/services"
)

// PollOracle polls the oracle service for fulfilled randomness requests
// and writes each word into its checkpoint. Words are write-once, so
// replaying a window after a crash is harmless.
func PollOracle(ctx context.Context, client *services.OracleServiceClient, checkpoints *services.CheckpointService, pollInterval time.Duration) {
	log.Println("Starting oracle fulfilment polling...")
	lastPollTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Oracle polling stopped.")
			return
		case <-ticker.C:
			pollStart := time.Now().UTC()

			fulfilments, err := client.GetFulfilments(lastPollTime)
			if err != nil {
				log.Printf("❌ Error polling oracle: %v", err)
				continue
			}
			if len(fulfilments) == 0 {
				continue
			}

			failed := false
			for _, f := range fulfilments {
				err := checkpoints.Fulfill(f.RequestID, f.Word)
				if errors.Is(err, services.ErrAlreadyFulfilled) || errors.Is(err, services.ErrRequestNotFound) {
					continue
				}
				if err != nil {
					log.Printf("❌ Failed to store word for request %s: %v", f.RequestID, err)
					failed = true
					continue
				}
				log.Printf("✅ Stored random word for request %s", f.RequestID)
			}

			// Keep the window on failure so the next tick retries it.
			if !failed {
				lastPollTime = pollStart
			}
		}
	}
}
