package rest

import (
	"errors"
	"net/http"

	"github.com/evgeniy-krivenko/notes-api/internal/ctxtr"
	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/pkg/logger/slogx"
)

func (h *handler) listNotes(w http.ResponseWriter, r *http.Request) error {
	notes, err := h.notes.Notes(r.Context())
	if err != nil {
		return err
	}

	writeJSON(r.Context(), w, http.StatusOK, convertNotes(notes))

	return nil
}

func (h *handler) getNote(w http.ResponseWriter, r *http.Request) error {
	note, err := h.notes.GetNote(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}

	writeJSON(r.Context(), w, http.StatusOK, convertNote(note))

	return nil
}

func (h *handler) createNote(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	ownerID, err := ctxtr.UserID(ctx)
	if err != nil {
		return entity.ErrTokenInvalid
	}

	var req CreateNoteRequest
	if err := decode(w, r, "note", &req); err != nil {
		return err
	}

	important := req.Important != nil && *req.Important

	note, err := h.notes.CreateNote(ctx, ownerID, req.Content, important)
	if err != nil {
		return err
	}

	writeJSON(ctx, w, http.StatusCreated, convertNote(note))

	return nil
}

func (h *handler) updateNote(w http.ResponseWriter, r *http.Request) error {
	var req UpdateNoteRequest
	if err := decode(w, r, "note", &req); err != nil {
		return err
	}

	note, err := h.notes.UpdateNote(r.Context(), r.PathValue("id"), req.toEntity())
	if err != nil {
		return err
	}

	writeJSON(r.Context(), w, http.StatusOK, convertNote(note))

	return nil
}

// deleteNote answers 204 whether or not the note existed.
func (h *handler) deleteNote(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")

	if err := h.notes.DeleteNote(r.Context(), id); err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			return err
		}
		slogx.Debug(r.Context(), "delete of absent note", slogx.NoteID(id))
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}
