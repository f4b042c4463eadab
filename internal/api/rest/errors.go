package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/pkg/logger/slogx"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle turns a failing handlerFunc into a response via writeError.
func handle(f handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			writeError(r.Context(), w, err)
		}
	})
}

// writeError is the single place mapping failures to statuses and bodies.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		verr   *entity.ValidationError
		maxErr *http.MaxBytesError
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
	case errors.Is(err, entity.ErrMalformedID):
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: entity.ErrMalformedID.Error()})
	case errors.Is(err, entity.ErrUsernameTaken):
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: entity.ErrUsernameTaken.Error()})
	case errors.Is(err, errMalformedBody):
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: errMalformedBody.Error()})
	case errors.As(err, &maxErr):
		writeJSON(ctx, w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
	case errors.Is(err, entity.ErrTokenInvalid):
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: entity.ErrTokenInvalid.Error()})
	case errors.Is(err, entity.ErrInvalidCredentials):
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: entity.ErrInvalidCredentials.Error()})
	case errors.Is(err, entity.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		slogx.Error(ctx, "unhandled request error", slogx.Err(err))
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slogx.Warn(ctx, "write response body", slogx.Err(err))
	}
}
