package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// Pinger checks connectivity of the backing data store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService reports process liveness and store readiness. A down store is
// reported but does not make the service unready, because every layer
// degrades to the synthetic model.
type HealthService struct {
	pinger  Pinger
	logger  *slog.Logger
	version string
	started time.Time
}

// NewHealthService creates the health service. pinger may be nil when no
// store is configured.
func NewHealthService(pinger Pinger, version string, logger *slog.Logger) *HealthService {
	return &HealthService{
		pinger:  pinger,
		logger:  logger.With(slog.String("component", "health_service")),
		version: version,
		started: time.Now(),
	}
}

// HealthCheck returns the overall service health.
func (s *HealthService) HealthCheck(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"store":   s.storeStatus(ctx),
	}
}

// ReadinessCheck reports whether the service can serve traffic.
func (s *HealthService) ReadinessCheck(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"ready": true,
		"store": s.storeStatus(ctx),
	}
}

// LivenessCheck reports that the process is alive.
func (s *HealthService) LivenessCheck(_ context.Context) map[string]interface{} {
	return map[string]interface{}{
		"status": "alive",
	}
}

// Version returns build information.
func (s *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":    s.version,
		"go_version": runtime.Version(),
	}
}

func (s *HealthService) storeStatus(ctx context.Context) string {
	if s.pinger == nil {
		return "disabled"
	}
	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "store ping failed", slog.String("error", err.Error()))
		return "down"
	}
	return "up"
}
