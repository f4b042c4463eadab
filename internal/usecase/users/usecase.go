package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/pkg/logger/slogx"
	"github.com/evgeniy-krivenko/notes-api/pkg/validatex"
)

type usersRepository interface {
	Users(ctx context.Context) ([]entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (entity.User, error)
	CreateUser(ctx context.Context, user entity.User) (entity.User, error)
}

type credentials interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
	IssueToken(user entity.User) (string, error)
}

type Options struct {
	UsersRepo   usersRepository `validate:"required"`
	Credentials credentials     `validate:"required"`
}

type Usecase struct {
	Options
}

func New(opts Options) (*Usecase, error) {
	if err := validatex.Struct(opts); err != nil {
		return nil, fmt.Errorf("validate users usecase options: %v", err)
	}

	return &Usecase{Options: opts}, nil
}

func (u *Usecase) Users(ctx context.Context) ([]entity.User, error) {
	users, err := u.UsersRepo.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase list users: %w", err)
	}

	return users, nil
}

// CreateUser registers a user. A taken username is reported before the
// password is hashed.
func (u *Usecase) CreateUser(ctx context.Context, username, name, password string) (entity.User, error) {
	_, err := u.UsersRepo.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return entity.User{}, entity.ErrUsernameTaken
	case !errors.Is(err, entity.ErrNotFound):
		return entity.User{}, fmt.Errorf("usecase lookup username: %w", err)
	}

	hash, err := u.Credentials.HashPassword(password)
	if err != nil {
		return entity.User{}, fmt.Errorf("usecase hash password: %w", err)
	}

	user, err := u.UsersRepo.CreateUser(ctx, entity.User{
		Username:     username,
		Name:         name,
		PasswordHash: hash,
		Notes:        []string{},
	})
	if err != nil {
		return entity.User{}, fmt.Errorf("usecase create user: %w", err)
	}

	slogx.Info(ctx, "success to create user", slogx.UserID(user.ID))

	return user, nil
}

// Login checks the password of username and returns a signed token for it.
func (u *Usecase) Login(ctx context.Context, username, password string) (string, entity.User, error) {
	user, err := u.UsersRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return "", entity.User{}, entity.ErrInvalidCredentials
		}
		return "", entity.User{}, fmt.Errorf("usecase login: %w", err)
	}

	if !u.Credentials.VerifyPassword(password, user.PasswordHash) {
		slogx.Warn(ctx, "wrong password", slogx.UserID(user.ID))
		return "", entity.User{}, entity.ErrInvalidCredentials
	}

	token, err := u.Credentials.IssueToken(user)
	if err != nil {
		return "", entity.User{}, fmt.Errorf("usecase issue token: %w", err)
	}

	return token, user, nil
}
