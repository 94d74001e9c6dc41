package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
)

// DaemonClientGRPC implements daemon.Client over the daemon socket
type DaemonClientGRPC struct {
	conn   *grpc.ClientConn
	client *tradeAssistantClient
}

// NewDaemonClientGRPC creates a client for the daemon listening on socketPath
// (e.g. "/tmp/uexcorp-daemon.sock"). The connection is established lazily.
func NewDaemonClientGRPC(socketPath string) (*DaemonClientGRPC, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return NewDaemonClientWithConn(conn), nil
}

// NewDaemonClientWithConn wraps an existing connection
func NewDaemonClientWithConn(conn *grpc.ClientConn) *DaemonClientGRPC {
	return &DaemonClientGRPC{
		conn:   conn,
		client: &tradeAssistantClient{cc: conn},
	}
}

// Close closes the gRPC connection
func (c *DaemonClientGRPC) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Call executes one function on the daemon
func (c *DaemonClientGRPC) Call(ctx context.Context, name string, args map[string]interface{}) (*daemon.FunctionResult, error) {
	req, err := callRequest(name, args)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Call(ctx, req)
	if err != nil {
		return nil, fromStatus(err)
	}
	return callResultFromProto(resp), nil
}

// ListFunctions returns the declared functions and the model context
func (c *DaemonClientGRPC) ListFunctions(ctx context.Context) (*daemon.FunctionCatalog, error) {
	resp, err := c.client.ListFunctions(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, fromStatus(err)
	}
	return catalogFromProto(resp), nil
}

// Health reports the daemon's dataset state
func (c *DaemonClientGRPC) Health(ctx context.Context) (*daemon.HealthStatus, error) {
	resp, err := c.client.Health(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, fromStatus(err)
	}
	return healthFromProto(resp), nil
}

// Serving asks the standard gRPC health service whether the assistant is up
func (c *DaemonClientGRPC) Serving(ctx context.Context) (bool, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return false, fromStatus(err)
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}

// RecentErrors returns persisted warnings and errors, newest first
func (c *DaemonClientGRPC) RecentErrors(ctx context.Context, filter daemon.ErrorFilter) ([]daemon.ErrorEntry, error) {
	req, err := errorFilterToProto(filter)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.RecentErrors(ctx, req)
	if err != nil {
		return nil, fromStatus(err)
	}
	return errorsFromProto(resp), nil
}

// LoadHistory returns the most recent trading data loads
func (c *DaemonClientGRPC) LoadHistory(ctx context.Context, limit int) ([]daemon.DataLoadEntry, error) {
	resp, err := c.client.LoadHistory(ctx, wrapperspb.Int32(int32(limit)))
	if err != nil {
		return nil, fromStatus(err)
	}
	return loadsFromProto(resp), nil
}
