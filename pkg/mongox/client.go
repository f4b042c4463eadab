package mongox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/evgeniy-krivenko/notes-api/pkg/validatex"
)

type logger interface {
	Warn(context.Context, string, ...slog.Attr)
}

type Options struct {
	URI      string `validate:"required,uri"`
	Database string `validate:"required"`

	RetryAttempts uint `validate:"omitempty,min=1,max=10"`

	Logger logger
}

// Connect opens a client and pings the primary until it answers or
// the attempts run out.
func Connect(ctx context.Context, opts Options) (*mongo.Database, error) {
	if err := validatex.Struct(opts); err != nil {
		return nil, fmt.Errorf("validate options for mongo: %v", err)
	}

	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.RetryAttempts == 0 {
		opts.RetryAttempts = 1
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %v", err)
	}

	if err := retry.Do(
		func() error { return client.Ping(ctx, readpref.Primary()) },
		retry.Context(ctx),
		retry.Delay(time.Millisecond*300),
		retry.Attempts(opts.RetryAttempts),
		retry.OnRetry(func(attempt uint, err error) {
			opts.Logger.Warn(
				ctx,
				"failed ping to mongo",
				slog.Any("err", err),
				slog.Uint64("attempt", uint64(attempt)),
			)
		}),
	); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping to mongo: %v", err)
	}

	return client.Database(opts.Database), nil
}

type noopLogger struct{}

func (n noopLogger) Warn(context.Context, string, ...slog.Attr) {}
