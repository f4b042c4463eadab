// Package repotest provides an in-memory store with the same contract as the
// postgres and mongodb repositories, for use in tests.
package repotest

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
)

type Store struct {
	mu    sync.Mutex
	notes map[string]entity.Note
	users map[string]entity.User
	order []string
	// txMu serializes RunInTx callers.
	txMu sync.Mutex
}

func New() *Store {
	return &Store{
		notes: make(map[string]entity.Note),
		users: make(map[string]entity.User),
	}
}

func parseID(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", entity.ErrMalformedID
	}

	return id, nil
}

func (s *Store) Notes(context.Context) ([]entity.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := make([]entity.Note, 0, len(s.notes))
	for _, n := range s.notes {
		notes = append(notes, n)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Date.Equal(notes[j].Date) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].Date.Before(notes[j].Date)
	})

	return notes, nil
}

func (s *Store) GetNote(_ context.Context, id string) (entity.Note, error) {
	id, err := parseID(id)
	if err != nil {
		return entity.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	return n, nil
}

func (s *Store) CreateNote(ctx context.Context, note entity.Note) (entity.Note, error) {
	if err := note.Validate(); err != nil {
		return entity.Note{}, err
	}

	if _, err := parseID(note.Owner); err != nil {
		return entity.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note.ID = uuid.NewString()
	s.keepNote(ctx, note.ID)
	s.notes[note.ID] = note

	return note, nil
}

func (s *Store) UpdateNote(ctx context.Context, id string, upd entity.NoteUpdate) (entity.Note, error) {
	id, err := parseID(id)
	if err != nil {
		return entity.Note{}, err
	}

	if err := upd.Validate(); err != nil {
		return entity.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	s.keepNote(ctx, id)
	n = upd.Apply(n)
	s.notes[id] = n

	return n, nil
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return entity.ErrNoteNotFound
	}

	s.keepNote(ctx, id)
	delete(s.notes, id)

	return nil
}

func (s *Store) Users(context.Context) ([]entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]entity.User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, cloneUser(s.users[id]))
	}

	return users, nil
}

func (s *Store) GetUser(_ context.Context, id string) (entity.User, error) {
	id, err := parseID(id)
	if err != nil {
		return entity.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return entity.User{}, entity.ErrUserNotFound
	}

	return cloneUser(u), nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}

	return entity.User{}, entity.ErrUserNotFound
}

func (s *Store) CreateUser(ctx context.Context, user entity.User) (entity.User, error) {
	if err := user.Validate(); err != nil {
		return entity.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return entity.User{}, entity.ErrUsernameTaken
		}
	}

	user.ID = uuid.NewString()
	user.Notes = []string{}
	s.keepUser(ctx, user.ID)
	s.users[user.ID] = user
	s.order = append(s.order, user.ID)

	return cloneUser(user), nil
}

func (s *Store) AppendUserNote(ctx context.Context, userID, noteID string) error {
	userID, err := parseID(userID)
	if err != nil {
		return err
	}

	if _, err := parseID(noteID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return entity.ErrUserNotFound
	}

	s.keepUser(ctx, userID)
	u.Notes = append(slices.Clone(u.Notes), noteID)
	s.users[userID] = u

	return nil
}

// RunInTx undoes the writes made through f's context when f fails or
// panics. Writes made outside the transaction are kept, though a key written
// by both ends up with the value it had before the transaction. A nested
// call joins the outer one.
func (s *Store) RunInTx(ctx context.Context, f func(context.Context) error) (err error) {
	if s.txFrom(ctx) != nil {
		return f(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	t := &tx{store: s}
	defer func() {
		if p := recover(); p != nil {
			s.rollback(t)
			panic(p)
		}
		if err != nil {
			s.rollback(t)
		}
	}()

	return f(context.WithValue(ctx, txKey{}, t))
}

type txKey struct{}

type tx struct {
	store *Store
	undo  []func()
}

func (s *Store) txFrom(ctx context.Context) *tx {
	t, ok := ctx.Value(txKey{}).(*tx)
	if !ok || t.store != s {
		return nil
	}

	return t
}

// keepNote records how to restore note id. Callers hold s.mu.
func (s *Store) keepNote(ctx context.Context, id string) {
	t := s.txFrom(ctx)
	if t == nil {
		return
	}

	prev, had := s.notes[id]
	t.undo = append(t.undo, func() {
		if had {
			s.notes[id] = prev
			return
		}
		delete(s.notes, id)
	})
}

// keepUser records how to restore user id. Callers hold s.mu.
func (s *Store) keepUser(ctx context.Context, id string) {
	t := s.txFrom(ctx)
	if t == nil {
		return
	}

	prev, had := s.users[id]
	prev = cloneUser(prev)
	t.undo = append(t.undo, func() {
		if had {
			s.users[id] = prev
			return
		}
		delete(s.users, id)
		s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	})
}

func (s *Store) rollback(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
}

func cloneUser(u entity.User) entity.User {
	u.Notes = slices.Clone(u.Notes)
	if u.Notes == nil {
		u.Notes = []string{}
	}

	return u
}
