package slogx

import (
	"context"
	"log/slog"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"
)

var loggingOpts = []logging.Option{
	logging.WithLogOnEvents(logging.StartCall, logging.FinishCall),
}

// InterceptorLogger adapts the global logger to go-grpc-middleware.
func InterceptorLogger() logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		Default().l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return logging.UnaryServerInterceptor(InterceptorLogger(), loggingOpts...)
}

func StreamLoggingInterceptor() grpc.StreamServerInterceptor {
	return logging.StreamServerInterceptor(InterceptorLogger(), loggingOpts...)
}
