package server

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// GRPCServer wraps a gRPC server with address and lifecycle methods.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	addr   string
}

// NewGRPCServer creates a GRPCServer with given server, health server and address.
func NewGRPCServer(
	server *grpc.Server,
	health *health.Server,
	addr string,
) *GRPCServer {
	return &GRPCServer{server: server, health: health, addr: addr}
}

// Start starts serving on the configured address using the provided security layer.
func (s *GRPCServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.server.Serve(listener)
}

// Stop reports NOT_SERVING and gracefully stops the server. Remaining
// calls are cut off when ctx expires.
func (s *GRPCServer) Stop(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}

// Address returns the configured listen address.
func (s *GRPCServer) Address() string {
	return s.addr
}

// Watch pings checks every interval and mirrors the result into the overall
// serving status until ctx is done.
func (s *GRPCServer) Watch(ctx context.Context, checks map[string]model.Pinger, interval time.Duration, logger *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.probe(ctx, checks, interval, logger)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *GRPCServer) probe(ctx context.Context, checks map[string]model.Pinger, timeout time.Duration, logger *logger.Logger) {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	serving := healthpb.HealthCheckResponse_SERVING
	for name, check := range checks {
		if err := check.Ping(pingCtx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("gRPC health: dependency unavailable",
				"dependency", name,
				"error", err.Error())
			serving = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", serving)
}
