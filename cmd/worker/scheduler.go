package main

import (
	"log"

	"catalog-backend/internal/config"
	"catalog-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler with additional functionality
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler starts the periodic jobs. It returns nil when none is
// configured.
func setupScheduler(cfg *Config, queueConfig config.QueueConfig) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.RedisOpt, queueConfig)

	n, err := scheduler.RegisterJobs()
	if err != nil {
		log.Fatalf("[Scheduler] Failed to register: %v", err)
	}
	if n == 0 {
		log.Println("[Scheduler] No periodic jobs configured")
		return nil
	}

	log.Printf("[Scheduler] Starting with %d job(s)...", n)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("[Scheduler] Failed: %v", err)
	}

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	if s == nil {
		return
	}
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] Stopped")
}
