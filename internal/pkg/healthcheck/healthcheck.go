// Package healthcheck keeps the gRPC health service in step with the
// database connection.
package healthcheck

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
)

// ServiceName is the gRPC health service name reported alongside "".
const ServiceName = "omnipos.menu.v1.MenuService"

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Reporter struct {
	server   *health.Server
	db       Pinger
	interval time.Duration
	logger   logger.ZapLogger
}

func NewReporter(server *health.Server, db Pinger, interval time.Duration, log logger.ZapLogger) *Reporter {
	return &Reporter{server: server, db: db, interval: interval, logger: log}
}

// Check pings the database once and publishes the result.
func (r *Reporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := r.db.PingContext(ctx); err != nil {
		r.logger.Warn("database ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	r.server.SetServingStatus("", status)
	r.server.SetServingStatus(ServiceName, status)
	return status
}

// Start checks on every tick until ctx is done.
func (r *Reporter) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			r.server.Shutdown()
			return
		case <-ticker.C:
			r.Check(ctx)
		}
	}
}
