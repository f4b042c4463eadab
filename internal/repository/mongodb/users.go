package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
)

func (r *Repo) Users(ctx context.Context) ([]entity.User, error) {
	cur, err := r.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list users: %v", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %v", err)
	}

	return convertUsersToEntity(docs), nil
}

func (r *Repo) GetUser(ctx context.Context, id string) (entity.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return entity.User{}, err
	}

	return r.getUser(ctx, byID(oid))
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (entity.User, error) {
	return r.getUser(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *Repo) getUser(ctx context.Context, filter bson.D) (entity.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.User{}, entity.ErrUserNotFound
		}
		return entity.User{}, fmt.Errorf("get user: %v", err)
	}

	return convertUserToEntity(doc), nil
}

func (r *Repo) CreateUser(ctx context.Context, user entity.User) (entity.User, error) {
	if err := user.Validate(); err != nil {
		return entity.User{}, err
	}

	doc := userDocument{
		ID:           primitive.NewObjectID(),
		Username:     user.Username,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Notes:        []primitive.ObjectID{},
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entity.User{}, entity.ErrUsernameTaken
		}
		return entity.User{}, fmt.Errorf("create user: %v", err)
	}

	return convertUserToEntity(doc), nil
}

// AppendUserNote pushes noteID onto the user's notes array.
func (r *Repo) AppendUserNote(ctx context.Context, userID, noteID string) error {
	uid, err := parseID(userID)
	if err != nil {
		return err
	}

	nid, err := parseID(noteID)
	if err != nil {
		return err
	}

	res, err := r.users.UpdateOne(ctx, byID(uid), bson.D{
		{Key: "$push", Value: bson.D{{Key: "notes", Value: nid}}},
	})
	if err != nil {
		return fmt.Errorf("append user note: %v", err)
	}

	if res.MatchedCount == 0 {
		return entity.ErrUserNotFound
	}

	return nil
}
