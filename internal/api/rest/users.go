package rest

import (
	"net/http"
)

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.users.Users(r.Context())
	if err != nil {
		return err
	}

	writeJSON(r.Context(), w, http.StatusOK, convertUsers(users))

	return nil
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) error {
	var req CreateUserRequest
	if err := decode(w, r, "user", &req); err != nil {
		return err
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, req.Name, req.Password)
	if err != nil {
		return err
	}

	writeJSON(r.Context(), w, http.StatusCreated, convertUser(user))

	return nil
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := decode(w, r, "login", &req); err != nil {
		return err
	}

	token, user, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	writeJSON(r.Context(), w, http.StatusOK, loginResponse{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	})

	return nil
}
