package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
)

// daemonServiceImpl translates protobuf messages to calls on the in-process client
type daemonServiceImpl struct {
	backend daemon.Client
}

func newDaemonServiceImpl(backend daemon.Client) *daemonServiceImpl {
	return &daemonServiceImpl{backend: backend}
}

func (s *daemonServiceImpl) Call(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := stringField(req, "name")
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "function name is required")
	}
	var args map[string]interface{}
	if a := req.GetFields()["arguments"].GetStructValue(); a != nil {
		args = a.AsMap()
	}

	result, err := s.backend.Call(ctx, name, args)
	if err != nil {
		return nil, toStatus(err)
	}
	return callResultToProto(result)
}

func (s *daemonServiceImpl) ListFunctions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	catalog, err := s.backend.ListFunctions(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return catalogToProto(catalog)
}

func (s *daemonServiceImpl) Health(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	health, err := s.backend.Health(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return healthToProto(health)
}

func (s *daemonServiceImpl) RecentErrors(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	entries, err := s.backend.RecentErrors(ctx, errorFilterFromProto(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return errorsToProto(entries)
}

func (s *daemonServiceImpl) LoadHistory(ctx context.Context, req *wrapperspb.Int32Value) (*structpb.ListValue, error) {
	loads, err := s.backend.LoadHistory(ctx, int(req.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}
	return loadsToProto(loads)
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, daemon.ErrUnknownFunction):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// fromStatus maps a gRPC error back to the daemon errors callers test for
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return errors.Join(daemon.ErrUnknownFunction, errors.New(st.Message()))
	case codes.Unavailable:
		return errors.Join(daemon.ErrDaemonUnavailable, errors.New(st.Message()))
	}
	return err
}
