package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/evgeniy-krivenko/notes-api/internal/ctxtr"
	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/pkg/logger/slogx"
)

const bearerPrefix = "bearer "

// authenticate attaches the user id of a valid bearer token to the request
// context. Requests without a bearer token pass through unauthenticated,
// requests with an unverifiable one are rejected with 401.
func authenticate(tokens tokenVerifier, users userResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			userID, err := tokens.VerifyToken(token)
			if err != nil {
				slogx.Debug(ctx, "reject bearer token", slogx.Err(err))
				writeError(ctx, w, err)
				return
			}

			user, err := users.GetUser(ctx, userID)
			if err != nil {
				if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrMalformedID) {
					slogx.Debug(ctx, "token of unknown user", slogx.UserID(userID))
					err = entity.ErrTokenInvalid
				}
				writeError(ctx, w, err)
				return
			}

			ctx = ctxtr.WithUserID(ctx, user.ID)
			ctx = slogx.ContextWithAttrs(ctx, slogx.UserID(user.ID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
