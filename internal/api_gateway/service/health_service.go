package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const pingTimeout = 2 * time.Second

// HealthServiceImpl pings every registered dependency concurrently
type HealthServiceImpl struct {
	deps   map[string]Pinger
	logger *slog.Logger
}

func NewHealthService(logger *slog.Logger, deps map[string]Pinger) HealthService {
	return &HealthServiceImpl{deps: deps, logger: logger}
}

// Check maps each dependency name to "up" or "down"
func (s *HealthServiceImpl) Check(ctx context.Context) map[string]string {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = make(map[string]string, len(s.deps))
	)
	for name, dep := range s.deps {
		wg.Add(1)
		go func(name string, dep Pinger) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			defer cancel()

			state := "up"
			if err := dep.Ping(pctx); err != nil {
				s.logger.Warn("Dependency unavailable", "dependency", name, "error", err)
				state = "down"
			}
			mu.Lock()
			result[name] = state
			mu.Unlock()
		}(name, dep)
	}
	wg.Wait()
	return result
}
