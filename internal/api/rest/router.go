// Package rest exposes the notes and users usecases over HTTP with JSON bodies.
package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/pkg/validatex"
)

type notesUsecase interface {
	Notes(ctx context.Context) ([]entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	CreateNote(ctx context.Context, ownerID, content string, important bool) (entity.Note, error)
	UpdateNote(ctx context.Context, id string, upd entity.NoteUpdate) (entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

type usersUsecase interface {
	Users(ctx context.Context) ([]entity.User, error)
	CreateUser(ctx context.Context, username, name, password string) (entity.User, error)
	Login(ctx context.Context, username, password string) (string, entity.User, error)
}

type tokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type userResolver interface {
	GetUser(ctx context.Context, id string) (entity.User, error)
}

type Options struct {
	Notes notesUsecase  `validate:"required"`
	Users usersUsecase  `validate:"required"`
	Auth  tokenVerifier `validate:"required"`
	// Resolver confirms that the user named by a token still exists.
	Resolver userResolver `validate:"required"`
}

type handler struct {
	notes notesUsecase
	users usersUsecase
}

// NewHandler returns the API router. Only routes that act on behalf of a
// user run behind the bearer token middleware.
func NewHandler(opts Options) (http.Handler, error) {
	if err := validatex.Struct(opts); err != nil {
		return nil, fmt.Errorf("validate rest handler options: %v", err)
	}

	h := &handler{notes: opts.Notes, users: opts.Users}

	auth := authenticate(opts.Auth, opts.Resolver)

	mux := http.NewServeMux()

	mux.Handle("GET /api/notes", handle(h.listNotes))
	mux.Handle("POST /api/notes", auth(handle(h.createNote)))
	mux.Handle("GET /api/notes/{id}", handle(h.getNote))
	mux.Handle("PUT /api/notes/{id}", handle(h.updateNote))
	mux.Handle("DELETE /api/notes/{id}", handle(h.deleteNote))

	mux.Handle("GET /api/users", handle(h.listUsers))
	mux.Handle("POST /api/users", handle(h.createUser))

	mux.Handle("POST /api/login", handle(h.login))

	mux.HandleFunc("/", unknownEndpoint)

	return mux, nil
}

func unknownEndpoint(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "unknown endpoint"})
}
