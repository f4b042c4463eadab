package entity

import (
	"time"
)

type Note struct {
	ID        string
	Content   string `validate:"required,min=5"`
	Important bool
	Date      time.Time
	Owner     string `validate:"required"`
}

func (n Note) Validate() error {
	return validate("note", n)
}

// NoteUpdate carries the mutable fields of a note. Nil fields are left as is.
type NoteUpdate struct {
	Content   *string `validate:"omitnil,min=5"`
	Important *bool
}

func (u NoteUpdate) Validate() error {
	return validate("note", u)
}

func (u NoteUpdate) Empty() bool {
	return u.Content == nil && u.Important == nil
}

// Apply returns n with the update fields set.
func (u NoteUpdate) Apply(n Note) Note {
	if u.Content != nil {
		n.Content = *u.Content
	}
	if u.Important != nil {
		n.Important = *u.Important
	}

	return n
}
