package transport

import (
	"context"
	"time"

	"github.com/goodnatureofminers/chainwalker/internal/clock"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthReporter mirrors runner health into a gRPC health server. Each network is reported
// under its own service name; the empty service is SERVING only while every network is.
type HealthReporter struct {
	server   *health.Server
	probes   []Probe
	interval time.Duration
	logger   *zap.Logger
}

// NewHealthReporter returns a HealthReporter polling probes every interval.
func NewHealthReporter(server *health.Server, interval time.Duration, logger *zap.Logger, probes ...Probe) *HealthReporter {
	return &HealthReporter{
		server:   server,
		probes:   probes,
		interval: interval,
		logger:   logger.Named("health"),
	}
}

// Update publishes the current health of every probe.
func (h *HealthReporter) Update() {
	overall := healthpb.HealthCheckResponse_SERVING
	for _, p := range h.probes {
		status := healthpb.HealthCheckResponse_SERVING
		if !p.Healthy() {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = status
		}
		h.server.SetServingStatus(p.Network().Name, status)
	}
	h.server.SetServingStatus("", overall)
}

// Run updates the health server until ctx is canceled, then marks every service NOT_SERVING.
func (h *HealthReporter) Run(ctx context.Context) error {
	for {
		h.Update()
		if err := clock.Sleep(ctx, h.interval); err != nil {
			h.logger.Info("health reporter stopped")
			h.server.Shutdown()
			return err
		}
	}
}
