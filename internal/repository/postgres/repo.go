// Package postgres stores notes and users in PostgreSQL. Ids are UUIDs
// exposed as their canonical text form.
package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/pkg/database"
)

const uniqueViolation = "23505"

type Repo struct {
	db database.Tx
}

func New(db database.Tx) *Repo {
	return &Repo{db: db}
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", entity.ErrMalformedID, id)
	}

	return parsed, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
