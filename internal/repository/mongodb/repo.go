// Package mongodb stores notes and users as MongoDB documents. Ids are
// ObjectIDs exposed as 24 character hex strings.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
)

const (
	notesCollection = "notes"
	usersCollection = "users"
)

type Repo struct {
	notes *mongo.Collection
	users *mongo.Collection
}

func New(db *mongo.Database) *Repo {
	return &Repo{
		notes: db.Collection(notesCollection),
		users: db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the unique username index.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %v", err)
	}

	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", entity.ErrMalformedID, id)
	}

	return oid, nil
}

func byID(oid primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: oid}}
}
