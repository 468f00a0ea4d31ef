package services

import (
	"context"
	"sync"
	"time"

	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/NomadCrew/portfolio-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DatabasePinger is satisfied by the message archive and by *pgxpool.Pool.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

const healthCheckTimeout = 3 * time.Second

type HealthService struct {
	db                 DatabasePinger
	redisClient        *redis.Client
	deliveryConfigured bool
	deliveryProvider   string
	version            string
	startTime          time.Time
	log                *zap.SugaredLogger
}

// NewHealthService creates a health service. db and redisClient may be nil
// when the corresponding backend is disabled.
func NewHealthService(db DatabasePinger, redisClient *redis.Client, deliveryProvider string, deliveryConfigured bool, version string) *HealthService {
	return &HealthService{
		db:                 db,
		redisClient:        redisClient,
		deliveryConfigured: deliveryConfigured,
		deliveryProvider:   deliveryProvider,
		version:            version,
		startTime:          time.Now(),
		log:                logger.GetLogger(),
	}
}

// CheckHealth probes every configured component concurrently. An
// unconfigured delivery provider degrades the report; a failing backend takes
// it down.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var mu sync.Mutex
	components := make(map[string]types.HealthComponent)
	record := func(name string, c types.HealthComponent) {
		mu.Lock()
		components[name] = c
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	if h.redisClient != nil {
		g.Go(func() error {
			record("redis", h.checkRedis(gctx))
			return nil
		})
	}
	if h.db != nil {
		g.Go(func() error {
			record("database", h.checkDatabase(gctx))
			return nil
		})
	}
	_ = g.Wait()
	components["delivery"] = h.checkDelivery()

	return types.HealthCheck{
		Status:     overallStatus(components),
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func overallStatus(components map[string]types.HealthComponent) types.HealthStatus {
	status := types.HealthStatusUp
	for _, c := range components {
		switch c.Status {
		case types.HealthStatusDown:
			return types.HealthStatusDown
		case types.HealthStatusDegraded:
			status = types.HealthStatusDegraded
		}
	}
	return status
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	if err := h.db.Ping(ctx); err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkDelivery() types.HealthComponent {
	if !h.deliveryConfigured {
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "Delivery credentials for " + h.deliveryProvider + " are not configured",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp, Details: h.deliveryProvider}
}
