package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"catalog-backend/pkg/container"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	container *container.Container
}

func startServices(c *container.Container, cfg *Config) error {
	log.Println("============================================")
	log.Println("Catalog worker starting...")
	log.Println("============================================")

	checker := &HealthChecker{container: c}
	if err := checker.checkAll(); err != nil {
		return err
	}

	go startHealthCheckServer(cfg.HealthAddr)
	return nil
}

func (h *HealthChecker) checkAll() error {
	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"Redis Connection", h.checkRedis},
		{"Database Connection", h.checkDatabase},
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			log.Printf("[Health] %s: %v", check.name, err)
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Printf("[Health] %s: OK", check.name)
	}
	return nil
}

// checkRedis fails when the container fell back to the no-op cache:
// the worker cannot consume tasks without Redis.
func (h *HealthChecker) checkRedis(ctx context.Context) error {
	if h.container.Redis == nil {
		return fmt.Errorf("redis is not connected")
	}
	return h.container.Redis.HealthCheck(ctx)
}

func (h *HealthChecker) checkDatabase(ctx context.Context) error {
	return h.container.DB.Ping(ctx)
}

func startHealthCheckServer(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthCheckHandler)
	mux.HandleFunc("/ready", readyCheckHandler)

	log.Printf("[Health] Starting health check server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("[Health] Failed to start: %v", err)
	}
}

func writeStatus(w http.ResponseWriter, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

func healthCheckHandler(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, map[string]string{"status": "UP", "service": "catalog-worker"})
}

func readyCheckHandler(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, map[string]string{"status": "READY"})
}
