package grpcx

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"github.com/evgeniy-krivenko/notes-api/pkg/validatex"
)

type logger interface {
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)
}

type Options struct {
	Addr string `validate:"required,hostname_port"`

	Logger logger

	GRPCOptions []grpc.ServerOption

	MaxConnIdle          time.Duration
	Time                 time.Duration
	Timeout              time.Duration
	MaxConcurrentStreams uint32
}

// Server is a gRPC server that always hosts the standard health service.
type Server struct {
	opts   Options
	srv    *grpc.Server
	health *health.Server
}

func New(opts Options) (*Server, error) {
	if err := validatex.Struct(opts); err != nil {
		return nil, fmt.Errorf("grpc server validate: %v", err)
	}

	if opts.Logger == nil {
		opts.Logger = &noopLogger{}
	}
	if opts.MaxConnIdle == 0 {
		opts.MaxConnIdle = 5 * time.Minute
	}
	if opts.Time == 0 {
		opts.Time = 2 * time.Hour
	}
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}

	recoverPanic := recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		opts.Logger.Error(ctx, "panic in grpc handler", slog.Any("panic", p))
		return status.Error(codes.Internal, "internal error")
	})

	serverOpts := []grpc.ServerOption{
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: opts.MaxConnIdle,
			Time:              opts.Time,
			Timeout:           opts.Timeout,
		}),
		grpc.ChainUnaryInterceptor(recovery.UnaryServerInterceptor(recoverPanic)),
		grpc.ChainStreamInterceptor(recovery.StreamServerInterceptor(recoverPanic)),
	}
	if opts.MaxConcurrentStreams > 0 {
		serverOpts = append(serverOpts, grpc.MaxConcurrentStreams(opts.MaxConcurrentStreams))
	}

	srv := grpc.NewServer(append(serverOpts, opts.GRPCOptions...)...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &Server{opts: opts, srv: srv, health: hs}, nil
}

// SetServingStatus reports service as serving or not to health checks.
// The empty name stands for the whole server.
func (s *Server) SetServingStatus(service string, serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}

	s.health.SetServingStatus(service, st)
}

func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("run grpc: %v", err)
	}

	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.srv.GracefulStop()
	}()

	s.opts.Logger.Info(
		ctx,
		"run grpc server",
		slog.String("addr", listener.Addr().String()),
	)

	if err := s.srv.Serve(listener); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("listen and server: %v", err)
	}

	return nil
}

type noopLogger struct{}

func (n *noopLogger) Info(context.Context, string, ...slog.Attr)  {}
func (n *noopLogger) Error(context.Context, string, ...slog.Attr) {}
