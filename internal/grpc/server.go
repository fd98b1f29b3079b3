// Package grpcserver exposes the dispatcher over gRPC as dispatch.v1.DispatchService.
package grpcserver

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"droneDispatch/internal/apperr"
	"droneDispatch/internal/auth"
	"droneDispatch/internal/dispatch"
	"droneDispatch/internal/dispatcher"
	"droneDispatch/internal/logx"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

type dispatchUsecase interface {
	Queue(ctx context.Context) ([]dispatch.QueuedOrder, error)
	Recommend(ctx context.Context, orderID string) (*dispatcher.Recommendation, error)
	DispatchOrder(ctx context.Context, orderID string) (*dispatcher.Result, error)
	DispatchPending(ctx context.Context) (dispatcher.PassReport, error)
}

// Config configures NewServer.
type Config struct {
	JWTSecret string
	Users     auth.UserLookup
	Logger    logx.Logger
}

// DispatchServer implements DispatchService on top of the dispatcher.
type DispatchServer struct {
	svc   dispatchUsecase
	users auth.UserLookup
}

func NewDispatchServer(svc dispatchUsecase, users auth.UserLookup) *DispatchServer {
	return &DispatchServer{svc: svc, users: users}
}

// NewServer builds a gRPC server with authentication, request logging, DispatchService
// and the standard health service registered.
func NewServer(svc dispatchUsecase, cfg Config) *grpc.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logx.Nop()
	}
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		loggingInterceptor(logger),
		auth.NewUnaryAuthInterceptor(cfg.JWTSecret, healthCheckMethod),
	))
	RegisterDispatchServiceServer(srv, NewDispatchServer(svc, cfg.Users))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// Start serves srv on addr and returns a shutdown function. Shutdown waits for in-flight
// calls until ctx expires, then stops hard.
func Start(srv *grpc.Server, addr string) (func(context.Context) error, error) {
	if addr == "" {
		addr = ":50051"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() { _ = srv.Serve(lis) }()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}

func (s *DispatchServer) RecommendDrone(ctx context.Context, req *RecommendDroneRequest) (*RecommendDroneResponse, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(req.OrderID)
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	rec, err := s.svc.Recommend(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toRecommendResponse(rec), nil
}

// DispatchOrder assigns the best drone. No eligible drone is a normal response with
// Assigned=false, not an error.
func (s *DispatchServer) DispatchOrder(ctx context.Context, req *DispatchOrderRequest) (*DispatchOrderResponse, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(req.OrderID)
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	res, err := s.svc.DispatchOrder(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toDispatchResponse(res), nil
}

func (s *DispatchServer) ListQueue(ctx context.Context, req *ListQueueRequest) (*ListQueueResponse, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}
	queue, err := s.svc.Queue(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return toQueueResponse(queue, req.Limit), nil
}

// RunDispatchPass triggers one scheduling pass. Admin only.
func (s *DispatchServer) RunDispatchPass(ctx context.Context, _ *RunDispatchPassRequest) (*RunDispatchPassResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.users); err != nil {
		return nil, err
	}
	rep, err := s.svc.DispatchPending(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &RunDispatchPassResponse{Report: rep}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal: %v", err)
	}
}

func loggingInterceptor(logger logx.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		fields := []logx.Field{
			logx.String("method", info.FullMethod),
			logx.String("code", code.String()),
			logx.Duration("duration", time.Since(start)),
		}
		switch code {
		case codes.OK:
			logger.Debug("grpc request", fields...)
		case codes.Internal, codes.Unknown:
			logger.Error("grpc request failed", append(fields, logx.Err(err))...)
		default:
			logger.Warn("grpc request rejected", append(fields, logx.Err(err))...)
		}
		return resp, err
	}
}
