package grpc

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
)

// DaemonServer serves the trade assistant over a Unix domain socket
type DaemonServer struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	logger     logging.Logger
}

// NewDaemonServer creates the server and binds the socket. backend answers
// every request; logger is attached to each request context.
func NewDaemonServer(backend daemon.Client, socketPath string, logger logging.Logger) (*DaemonServer, error) {
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// owner only
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	return newDaemonServer(backend, listener, logger), nil
}

// NewDaemonServerWithListener serves on an existing listener
func NewDaemonServerWithListener(backend daemon.Client, listener net.Listener, logger logging.Logger) *DaemonServer {
	return newDaemonServer(backend, listener, logger)
}

func newDaemonServer(backend daemon.Client, listener net.Listener, logger logging.Logger) *DaemonServer {
	if logger == nil {
		logger = logging.NoOp()
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(logger)))
	RegisterTradeAssistantServer(grpcServer, newDaemonServiceImpl(backend))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &DaemonServer{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		logger:     logger,
	}
}

// Addr returns the address the server listens on
func (s *DaemonServer) Addr() string {
	return s.listener.Addr().String()
}

// Serve blocks until ctx is cancelled or the server fails. On cancellation
// in-flight calls get shutdownTimeout to finish before being cut off.
func (s *DaemonServer) Serve(ctx context.Context, shutdownTimeout time.Duration) error {
	s.logger.Log(logging.LevelInfo, "Daemon server listening", map[string]interface{}{
		"socket": s.Addr(),
	})

	errChan := make(chan error, 1)
	go func() {
		if err := s.grpcServer.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	s.logger.Log(logging.LevelInfo, "Initiating graceful shutdown of gRPC server", nil)
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		s.logger.Log(logging.LevelWarning, "Graceful shutdown timed out, closing connections", map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
		s.grpcServer.Stop()
	}
	return nil
}

// loggingInterceptor puts the logger into every request context and logs
// failed RPCs
func loggingInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(logging.WithLogger(ctx, logger), req)
		if err != nil {
			logger.Log(logging.LevelWarning, "RPC failed", map[string]interface{}{
				"method":      info.FullMethod,
				"duration_ms": time.Since(start).Milliseconds(),
				"error":       err.Error(),
			})
		}
		return resp, err
	}
}
