// Package grpc serves the standard gRPC health protocol for the API process.
// The overall status and the "redis" and "db" services follow the liveness
// checks of the backing stores.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	ServiceRedis = "redis"
	ServiceDB    = "db"
)

// StatusChecker reports backing store liveness.
type StatusChecker interface {
	Status(ctx context.Context) services.Status
}

type GRPCServer struct {
	address  string
	status   StatusChecker
	health   *health.Server
	interval time.Duration
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, status StatusChecker, interval time.Duration) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		status:   status,
		health:   health.NewServer(),
		interval: interval,
	}
}

// Refresh runs the liveness checks once and publishes the result.
func (s *GRPCServer) Refresh(ctx context.Context) {
	st := s.status.Status(ctx)

	s.health.SetServingStatus(ServiceRedis, servingStatus(st.Redis))
	s.health.SetServingStatus(ServiceDB, servingStatus(st.DB))
	s.health.SetServingStatus("", servingStatus(st.Redis && st.DB))
}

func servingStatus(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}

func (s *GRPCServer) watch(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Refresh(ctx)
		}
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.health)

	s.Refresh(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
