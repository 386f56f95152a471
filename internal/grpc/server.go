// Package grpc exposes the standard gRPC health service. The reported status
// follows a periodic ping of the backing store.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service entry tracking the API as a whole.
const ServiceName = "innosistemas.api"

const pingTimeout = 5 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	grpc   *grpc.Server
	health *health.Server
	pinger Pinger
}

// NewServer builds the gRPC server. With a non-empty serviceToken every call
// except the health check requires the x-service-token header.
func NewServer(pinger Pinger, serviceToken string) (*Server, error) {
	var opts []grpc.ServerOption
	if serviceToken != "" {
		interceptor, err := NewServiceAuthUnaryInterceptor(serviceToken,
			healthpb.Health_Check_FullMethodName,
		)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.UnaryInterceptor(interceptor))
	}

	s := &Server{
		grpc:   grpc.NewServer(opts...),
		health: health.NewServer(),
		pinger: pinger,
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s, nil
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// CheckOnce pings the store and updates the serving status accordingly.
func (s *Server) CheckOnce(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.pinger.Ping(pingCtx); err != nil {
		ctxlog.From(ctx).Warn("store ping failed", "error", err)
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return false
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return true
}

// WatchHealth runs CheckOnce immediately and then every interval until ctx
// is done.
func (s *Server) WatchHealth(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	s.CheckOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckOnce(ctx)
		}
	}
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.grpc.GracefulStop()
	}()
	if err := s.grpc.Serve(lis); err != nil {
		return goerr.Wrap(err, "grpc serve", goerr.V("addr", lis.Addr().String()))
	}
	return nil
}
