package main

import (
	"context"
	"fmt"
	"net"

	"github.com/evgeniy-krivenko/notes-api/internal/config"
	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/internal/repository/mongodb"
	"github.com/evgeniy-krivenko/notes-api/internal/repository/postgres"
	"github.com/evgeniy-krivenko/notes-api/internal/repository/postgres/migrations"
	"github.com/evgeniy-krivenko/notes-api/pkg/database"
	"github.com/evgeniy-krivenko/notes-api/pkg/logger/slogx"
	"github.com/evgeniy-krivenko/notes-api/pkg/mongox"
)

type repository interface {
	Notes(ctx context.Context) ([]entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	CreateNote(ctx context.Context, note entity.Note) (entity.Note, error)
	UpdateNote(ctx context.Context, id string, upd entity.NoteUpdate) (entity.Note, error)
	DeleteNote(ctx context.Context, id string) error

	Users(ctx context.Context) ([]entity.User, error)
	GetUser(ctx context.Context, id string) (entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (entity.User, error)
	CreateUser(ctx context.Context, user entity.User) (entity.User, error)
	AppendUserNote(ctx context.Context, userID, noteID string) error
}

type transactor interface {
	RunInTx(ctx context.Context, f func(context.Context) error) error
}

type storage struct {
	repo  repository
	tx    transactor
	close func()
}

func openStorage(ctx context.Context, cfg config.Config) (storage, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		return openMongo(ctx, cfg)
	default:
		return openPostgres(ctx, cfg)
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (storage, error) {
	pool, err := database.NewPGX(ctx, database.Options{
		Address:       net.JoinHostPort(cfg.Database.Host, cfg.Database.Port),
		Username:      cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.Name,
		Retry:         true,
		RetryAttempts: cfg.Store.ConnectAttempts,
		Logger:        slogx.Default(),
	})
	if err != nil {
		return storage{}, fmt.Errorf("connect to postgres: %v", err)
	}

	if err := database.Migrate(ctx, pool, migrations.FS); err != nil {
		pool.Close()
		return storage{}, fmt.Errorf("migrate postgres: %v", err)
	}

	db := database.NewDatabase(pool)

	slogx.Info(ctx, "postgres storage ready")

	return storage{repo: postgres.New(db), tx: db, close: pool.Close}, nil
}

func openMongo(ctx context.Context, cfg config.Config) (storage, error) {
	db, err := mongox.Connect(ctx, mongox.Options{
		URI:           cfg.Mongo.URI,
		Database:      cfg.Mongo.Database,
		RetryAttempts: cfg.Store.ConnectAttempts,
		Logger:        slogx.Default(),
	})
	if err != nil {
		return storage{}, fmt.Errorf("connect to mongo: %v", err)
	}

	disconnect := func() {
		if err := db.Client().Disconnect(context.WithoutCancel(ctx)); err != nil {
			slogx.Warn(ctx, "disconnect mongo", slogx.Err(err))
		}
	}

	repo := mongodb.New(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		disconnect()
		return storage{}, fmt.Errorf("ensure mongo indexes: %v", err)
	}

	slogx.Info(ctx, "mongo storage ready")

	return storage{
		repo:  repo,
		tx:    mongox.NewTransactor(db.Client(), cfg.Mongo.Transactions),
		close: disconnect,
	}, nil
}
