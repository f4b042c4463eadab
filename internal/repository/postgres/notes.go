package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/pkg/logger/slogx"
)

const noteColumns = `id::text, content, important, date, owner_id::text`

func scanNote(row pgx.Row) (entity.Note, error) {
	var n entity.Note
	if err := row.Scan(&n.ID, &n.Content, &n.Important, &n.Date, &n.Owner); err != nil {
		return entity.Note{}, err
	}

	n.Date = n.Date.UTC()

	return n, nil
}

func (r *Repo) Notes(ctx context.Context) ([]entity.Note, error) {
	rows, err := r.db.Query(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %v", err)
	}

	notes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Note, error) {
		return scanNote(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect notes: %v", err)
	}

	return notes, nil
}

func (r *Repo) GetNote(ctx context.Context, id string) (entity.Note, error) {
	noteID, err := parseID(id)
	if err != nil {
		return entity.Note{}, err
	}

	note, err := scanNote(r.db.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1`,
		noteID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("get note: %v", err)
	}

	return note, nil
}

func (r *Repo) CreateNote(ctx context.Context, note entity.Note) (entity.Note, error) {
	if err := note.Validate(); err != nil {
		return entity.Note{}, err
	}

	ownerID, err := parseID(note.Owner)
	if err != nil {
		return entity.Note{}, err
	}

	created, err := scanNote(r.db.QueryRow(ctx,
		`INSERT INTO notes (content, important, date, owner_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+noteColumns,
		note.Content, note.Important, note.Date, ownerID,
	))
	if err != nil {
		return entity.Note{}, fmt.Errorf("create note: %v", err)
	}

	slogx.Debug(ctx, "success to create note", slogx.NoteID(created.ID), slogx.UserID(created.Owner))

	return created, nil
}

func (r *Repo) UpdateNote(ctx context.Context, id string, upd entity.NoteUpdate) (entity.Note, error) {
	noteID, err := parseID(id)
	if err != nil {
		return entity.Note{}, err
	}

	if err := upd.Validate(); err != nil {
		return entity.Note{}, err
	}

	note, err := scanNote(r.db.QueryRow(ctx,
		`UPDATE notes
		 SET content = COALESCE($2, content), important = COALESCE($3, important)
		 WHERE id = $1
		 RETURNING `+noteColumns,
		noteID, upd.Content, upd.Important,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("update note: %v", err)
	}

	return note, nil
}

func (r *Repo) DeleteNote(ctx context.Context, id string) error {
	noteID, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
	if err != nil {
		return fmt.Errorf("delete note: %v", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrNoteNotFound
	}

	return nil
}
