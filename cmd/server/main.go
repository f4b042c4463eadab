package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/evgeniy-krivenko/notes-api/internal/api/rest"
	"github.com/evgeniy-krivenko/notes-api/internal/config"
	"github.com/evgeniy-krivenko/notes-api/internal/credential"
	"github.com/evgeniy-krivenko/notes-api/internal/usecase/notes"
	"github.com/evgeniy-krivenko/notes-api/internal/usecase/users"
	"github.com/evgeniy-krivenko/notes-api/pkg/grpcx"
	"github.com/evgeniy-krivenko/notes-api/pkg/httpx"
	"github.com/evgeniy-krivenko/notes-api/pkg/logger/slogx"
)

const healthService = "notes-api"

func main() {
	if err := run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse cfg: %v", err)
	}

	if err := slogx.InitGlobal(os.Stdout, cfg.App.LogLevel, cfg.App.Pretty); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	st, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %v", cfg.Store.Driver, err)
	}
	defer st.close()

	creds, err := credential.New(credential.Options{
		Secret:     []byte(cfg.Auth.Secret),
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		return fmt.Errorf("init credential service: %v", err)
	}

	notesUC, err := notes.New(notes.Options{
		NotesRepo: st.repo,
		UsersRepo: st.repo,
		Tx:        st.tx,
	})
	if err != nil {
		return fmt.Errorf("init notes usecase: %v", err)
	}

	usersUC, err := users.New(users.Options{
		UsersRepo:   st.repo,
		Credentials: creds,
	})
	if err != nil {
		return fmt.Errorf("init users usecase: %v", err)
	}

	handler, err := rest.NewHandler(rest.Options{
		Notes:    notesUC,
		Users:    usersUC,
		Auth:     creds,
		Resolver: st.repo,
	})
	if err != nil {
		return fmt.Errorf("init rest handler: %v", err)
	}

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodPut,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler

	httpSrv, err := httpx.New(httpx.Options{
		Addr:        cfg.HTTP.Addr,
		Handler:     handler,
		Middlewares: []func(http.Handler) http.Handler{corsMiddleware, slogx.AccessLog},
		Logger:      slogx.Default(),
	})
	if err != nil {
		return fmt.Errorf("init http server: %v", err)
	}

	grpcSrv, err := grpcx.New(grpcx.Options{
		Addr:   cfg.GRPC.Addr,
		Logger: slogx.Default(),
		GRPCOptions: []grpc.ServerOption{
			grpc.ChainUnaryInterceptor(slogx.LoggingInterceptor()),
			grpc.ChainStreamInterceptor(slogx.StreamLoggingInterceptor()),
		},
		MaxConnIdle:          cfg.GRPC.MaxConnIdle,
		Time:                 cfg.GRPC.KeepaliveTime,
		Timeout:              cfg.GRPC.KeepaliveTimeout,
		MaxConcurrentStreams: cfg.GRPC.MaxConcurrentStreams,
	})
	if err != nil {
		return fmt.Errorf("init grpc server: %v", err)
	}
	grpcSrv.SetServingStatus(healthService, true)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return httpSrv.Run(ctx) })
	eg.Go(func() error { return grpcSrv.Run(ctx) })

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait app stop: %v", err)
	}

	return nil
}
