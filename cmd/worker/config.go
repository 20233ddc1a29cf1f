package main

import (
	"log"
	"os"

	"catalog-backend/pkg/container"

	"github.com/hibiken/asynq"
)

// Config holds the worker process settings.
type Config struct {
	RedisOpt    asynq.RedisClientOpt
	Concurrency int
	HealthAddr  string
}

func loadConfig(c *container.Container) *Config {
	cfg := &Config{
		RedisOpt:    c.RedisOpt(),
		Concurrency: c.Config.Queue.Concurrency,
		HealthAddr:  os.Getenv("WORKER_HEALTH_ADDR"),
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.HealthAddr == "" {
		cfg.HealthAddr = ":9999"
	}

	log.Printf("[Config] Redis: %s, concurrency: %d", cfg.RedisOpt.Addr, cfg.Concurrency)
	return cfg
}
