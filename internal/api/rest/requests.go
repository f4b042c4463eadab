package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
)

const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed request body")

type CreateNoteRequest struct {
	Content   string `json:"content" validate:"required,min=5"`
	Important *bool  `json:"important"`
}

type UpdateNoteRequest struct {
	Content   *string `json:"content" validate:"omitnil,min=5"`
	Important *bool   `json:"important"`
}

func (r UpdateNoteRequest) toEntity() entity.NoteUpdate {
	return entity.NoteUpdate{Content: r.Content, Important: r.Important}
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// decode reads a single JSON value from the body into v and checks it
// against its validate tags. An empty body decodes as an empty object.
func decode(w http.ResponseWriter, r *http.Request, kind string, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	err := dec.Decode(v)
	if err == nil {
		var extra json.RawMessage
		if err = dec.Decode(&extra); err == nil {
			return fmt.Errorf("%w: unexpected data after json value", errMalformedBody)
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	return entity.Validate(kind, v)
}
