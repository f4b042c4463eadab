package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/pkg/logger/slogx"
	"github.com/evgeniy-krivenko/notes-api/pkg/validatex"
)

type notesRepository interface {
	Notes(ctx context.Context) ([]entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	CreateNote(ctx context.Context, note entity.Note) (entity.Note, error)
	UpdateNote(ctx context.Context, id string, upd entity.NoteUpdate) (entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

type usersRepository interface {
	GetUser(ctx context.Context, id string) (entity.User, error)
	AppendUserNote(ctx context.Context, userID, noteID string) error
}

type transactor interface {
	RunInTx(ctx context.Context, f func(context.Context) error) error
}

type Options struct {
	NotesRepo notesRepository `validate:"required"`
	UsersRepo usersRepository `validate:"required"`
	Tx        transactor      `validate:"required"`

	// Now stamps created notes. Defaults to time.Now.
	Now func() time.Time
}

type Usecase struct {
	Options
}

func New(opts Options) (*Usecase, error) {
	if err := validatex.Struct(opts); err != nil {
		return nil, fmt.Errorf("validate notes usecase options: %v", err)
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Usecase{Options: opts}, nil
}

func (u *Usecase) Notes(ctx context.Context) ([]entity.Note, error) {
	notes, err := u.NotesRepo.Notes(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase list notes: %w", err)
	}

	return notes, nil
}

func (u *Usecase) GetNote(ctx context.Context, id string) (entity.Note, error) {
	note, err := u.NotesRepo.GetNote(ctx, id)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase get note: %w", err)
	}

	return note, nil
}

// CreateNote stores a note owned by ownerID and appends it to the owner's
// notes, both within one transaction where the store supports it. An owner
// that no longer exists fails with entity.ErrTokenInvalid.
func (u *Usecase) CreateNote(ctx context.Context, ownerID, content string, important bool) (entity.Note, error) {
	note := entity.Note{
		Content:   content,
		Important: important,
		Date:      u.Now().UTC().Truncate(time.Millisecond),
		Owner:     ownerID,
	}

	var created entity.Note
	err := u.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := u.UsersRepo.GetUser(ctx, ownerID); err != nil {
			if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrMalformedID) {
				return entity.ErrTokenInvalid
			}
			return fmt.Errorf("get owner: %w", err)
		}

		var err error
		created, err = u.NotesRepo.CreateNote(ctx, note)
		if err != nil {
			return err
		}

		if err := u.UsersRepo.AppendUserNote(ctx, ownerID, created.ID); err != nil {
			return fmt.Errorf("link note to owner: %w", err)
		}

		return nil
	})
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase create note: %w", err)
	}

	slogx.Info(ctx, "success to create note", slogx.NoteID(created.ID), slogx.UserID(ownerID))

	return created, nil
}

func (u *Usecase) UpdateNote(ctx context.Context, id string, upd entity.NoteUpdate) (entity.Note, error) {
	note, err := u.NotesRepo.UpdateNote(ctx, id, upd)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase update note: %w", err)
	}

	return note, nil
}

func (u *Usecase) DeleteNote(ctx context.Context, id string) error {
	if err := u.NotesRepo.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("usecase delete note: %w", err)
	}

	slogx.Info(ctx, "success to delete note", slogx.NoteID(id))

	return nil
}
