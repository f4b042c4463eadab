package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
)

const userColumns = `id::text, username, name, password_hash, notes::text[]`

func scanUser(row pgx.Row) (entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.Notes); err != nil {
		return entity.User{}, err
	}

	if u.Notes == nil {
		u.Notes = []string{}
	}

	return u, nil
}

func (r *Repo) Users(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %v", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect users: %v", err)
	}

	return users, nil
}

func (r *Repo) GetUser(ctx context.Context, id string) (entity.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return entity.User{}, err
	}

	return r.getUser(ctx, `WHERE id = $1`, userID)
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (entity.User, error) {
	return r.getUser(ctx, `WHERE username = $1`, username)
}

func (r *Repo) getUser(ctx context.Context, where string, arg any) (entity.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, entity.ErrUserNotFound
		}
		return entity.User{}, fmt.Errorf("get user: %v", err)
	}

	return user, nil
}

func (r *Repo) CreateUser(ctx context.Context, user entity.User) (entity.User, error) {
	if err := user.Validate(); err != nil {
		return entity.User{}, err
	}

	created, err := scanUser(r.db.QueryRow(ctx,
		`INSERT INTO users (username, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		user.Username, user.Name, user.PasswordHash,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return entity.User{}, entity.ErrUsernameTaken
		}
		return entity.User{}, fmt.Errorf("create user: %v", err)
	}

	return created, nil
}

// AppendUserNote adds noteID to the end of the user's notes list.
func (r *Repo) AppendUserNote(ctx context.Context, userID, noteID string) error {
	uid, err := parseID(userID)
	if err != nil {
		return err
	}

	nid, err := parseID(noteID)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET notes = array_append(notes, $2) WHERE id = $1`,
		uid, nid,
	)
	if err != nil {
		return fmt.Errorf("append user note: %v", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrUserNotFound
	}

	return nil
}
