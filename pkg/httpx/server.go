package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/evgeniy-krivenko/notes-api/pkg/validatex"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 3 * time.Second
)

type Logger interface {
	Info(context.Context, string, ...slog.Attr)
	Error(context.Context, string, ...slog.Attr)
}

type Options struct {
	Addr    string       `validate:"hostname_port"`
	Handler http.Handler `validate:"required"`

	// Middlewares wrap Handler in order, the last one is outermost.
	Middlewares []func(http.Handler) http.Handler
	Logger      Logger
}

type Server struct {
	Options
	srv *http.Server
}

func New(opts Options) (*Server, error) {
	if err := validatex.Struct(opts); err != nil {
		return nil, fmt.Errorf("validate http server opts: %v", err)
	}

	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}

	handler := recoverer(opts.Handler, opts.Logger)

	for _, md := range opts.Middlewares {
		handler = md(handler)
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return &Server{Options: opts, srv: srv}, nil
}

// Run listens on Addr and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %v", s.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return s.srv.Shutdown(ctx)
	})

	eg.Go(func() error {
		s.Logger.Info(ctx, "listen and serve", slog.String("addr", ln.Addr().String()))

		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %v", err)
		}

		return nil
	})

	return eg.Wait()
}

func recoverer(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}

			logger.Error(r.Context(), "panic in http handler", slog.Any("panic", p))
			w.WriteHeader(http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

type noopLogger struct{}

func (noopLogger) Info(context.Context, string, ...slog.Attr)  {}
func (noopLogger) Error(context.Context, string, ...slog.Attr) {}
