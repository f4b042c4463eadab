package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
)

type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Content   string             `bson:"content"`
	Important bool               `bson:"important"`
	Date      time.Time          `bson:"date"`
	User      primitive.ObjectID `bson:"user,omitempty"`
}

type userDocument struct {
	ID           primitive.ObjectID   `bson:"_id"`
	Username     string               `bson:"username"`
	Name         string               `bson:"name"`
	PasswordHash string               `bson:"passwordHash"`
	Notes        []primitive.ObjectID `bson:"notes"`
}

func convertNoteToEntity(doc noteDocument) entity.Note {
	n := entity.Note{
		ID:        doc.ID.Hex(),
		Content:   doc.Content,
		Important: doc.Important,
		Date:      doc.Date.UTC(),
	}
	if !doc.User.IsZero() {
		n.Owner = doc.User.Hex()
	}

	return n
}

func convertNotesToEntity(docs []noteDocument) []entity.Note {
	notes := make([]entity.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, convertNoteToEntity(d))
	}

	return notes
}

func convertUserToEntity(doc userDocument) entity.User {
	notes := make([]string, 0, len(doc.Notes))
	for _, id := range doc.Notes {
		notes = append(notes, id.Hex())
	}

	return entity.User{
		ID:           doc.ID.Hex(),
		Username:     doc.Username,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		Notes:        notes,
	}
}

func convertUsersToEntity(docs []userDocument) []entity.User {
	users := make([]entity.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, convertUserToEntity(d))
	}

	return users
}
