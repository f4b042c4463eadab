package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evgeniy-krivenko/notes-api/pkg/validatex"
)

type logger interface {
	Warn(context.Context, string, ...slog.Attr)
}

type Options struct {
	Address  string `validate:"required,hostname_port"`
	Username string `validate:"required"`
	Password string
	Database string `validate:"required"`

	Retry         bool
	RetryAttempts uint `validate:"omitempty,min=1,max=10"`

	Logger logger

	MaxConns int32 `validate:"omitempty,max=20"`
}

func NewPGX(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	if err := validatex.Struct(opts); err != nil {
		return nil, fmt.Errorf("validate options for pgx: %v", err)
	}

	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.RetryAttempts == 0 {
		opts.RetryAttempts = 1
	}

	ds := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(opts.Username, opts.Password),
		Host:   opts.Address,
		Path:   opts.Database,
	}

	cfg, err := pgxpool.ParseConfig(ds.String())
	if err != nil {
		return nil, fmt.Errorf("parse pgx pool config: %v", err)
	}

	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open new pgx pool: %v", err)
	}

	if !opts.Retry {
		return pool, pool.Ping(ctx)
	}

	if err := retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Context(ctx),
		retry.Delay(time.Millisecond*300),
		retry.Attempts(opts.RetryAttempts),
		retry.OnRetry(func(attempt uint, err error) {
			opts.Logger.Warn(
				ctx,
				"failed ping to database",
				slog.Any("err", err),
				slog.Uint64("attempt", uint64(attempt)),
			)
		}),
	); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping to database: %v", err)
	}

	return pool, nil
}

type noopLogger struct{}

func (n noopLogger) Warn(context.Context, string, ...slog.Attr) {}
