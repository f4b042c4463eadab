package rest

import (
	"time"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
)

type noteResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Important bool      `json:"important"`
	Date      time.Time `json:"date"`
	Owner     string    `json:"owner,omitempty"`
}

// userResponse never carries the password hash.
type userResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Notes    []string `json:"notes"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func convertNote(n entity.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Content:   n.Content,
		Important: n.Important,
		Date:      n.Date,
		Owner:     n.Owner,
	}
}

func convertNotes(notes []entity.Note) []noteResponse {
	res := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, convertNote(n))
	}

	return res
}

func convertUser(u entity.User) userResponse {
	notes := u.Notes
	if notes == nil {
		notes = []string{}
	}

	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Notes:    notes,
	}
}

func convertUsers(users []entity.User) []userResponse {
	res := make([]userResponse, 0, len(users))
	for _, u := range users {
		res = append(res, convertUser(u))
	}

	return res
}
