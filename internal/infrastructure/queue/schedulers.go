package queue

import (
	"encoding/json"
	"time"

	"catalog-backend/internal/config"
	"catalog-backend/internal/shared"
	"catalog-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// Scheduler enqueues periodic catalog maintenance tasks.
type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.QueueConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, cfg config.QueueConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		cfg:       cfg,
	}
}

// RegisterJobs registers every enabled periodic job. It returns the number
// of registered jobs.
func (s *Scheduler) RegisterJobs() (int, error) {
	registered := 0

	if s.cfg.S3SyncCron != "" {
		if err := s.registerImagesToS3Job(); err != nil {
			return registered, err
		}
		registered++
	}

	return registered, nil
}

// ================================================
// Sync local images to S3 (S3_SYNC_CRON)
// ================================================
func (s *Scheduler) registerImagesToS3Job() error {
	payload, err := json.Marshal(shared.ImagesToS3Payload{RequestedBy: "scheduler"})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeImagesToS3, payload)

	_, err = s.scheduler.Register(
		s.cfg.S3SyncCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
		asynq.Unique(time.Hour),
	)
	if err != nil {
		logger.Error("Failed to register ImagesToS3 job", err)
		return err
	}

	logger.Info("Registered ImagesToS3", map[string]interface{}{"cron": s.cfg.S3SyncCron})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
