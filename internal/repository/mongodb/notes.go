package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/pkg/logger/slogx"
)

func (r *Repo) Notes(ctx context.Context) ([]entity.Note, error) {
	cur, err := r.notes.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list notes: %v", err)
	}

	var docs []noteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %v", err)
	}

	return convertNotesToEntity(docs), nil
}

func (r *Repo) GetNote(ctx context.Context, id string) (entity.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return entity.Note{}, err
	}

	var doc noteDocument
	if err := r.notes.FindOne(ctx, byID(oid)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("get note: %v", err)
	}

	return convertNoteToEntity(doc), nil
}

func (r *Repo) CreateNote(ctx context.Context, note entity.Note) (entity.Note, error) {
	if err := note.Validate(); err != nil {
		return entity.Note{}, err
	}

	owner, err := parseID(note.Owner)
	if err != nil {
		return entity.Note{}, err
	}

	doc := noteDocument{
		ID:        primitive.NewObjectID(),
		Content:   note.Content,
		Important: note.Important,
		Date:      note.Date,
		User:      owner,
	}

	if _, err := r.notes.InsertOne(ctx, doc); err != nil {
		return entity.Note{}, fmt.Errorf("create note: %v", err)
	}

	created := convertNoteToEntity(doc)

	slogx.Debug(ctx, "success to create note", slogx.NoteID(created.ID), slogx.UserID(created.Owner))

	return created, nil
}

func (r *Repo) UpdateNote(ctx context.Context, id string, upd entity.NoteUpdate) (entity.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return entity.Note{}, err
	}

	if err := upd.Validate(); err != nil {
		return entity.Note{}, err
	}

	// an empty $set is rejected by the server
	if upd.Empty() {
		return r.GetNote(ctx, id)
	}

	set := bson.D{}
	if upd.Content != nil {
		set = append(set, bson.E{Key: "content", Value: *upd.Content})
	}
	if upd.Important != nil {
		set = append(set, bson.E{Key: "important", Value: *upd.Important})
	}

	var doc noteDocument
	err = r.notes.FindOneAndUpdate(
		ctx,
		byID(oid),
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("update note: %v", err)
	}

	return convertNoteToEntity(doc), nil
}

func (r *Repo) DeleteNote(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.notes.DeleteOne(ctx, byID(oid))
	if err != nil {
		return fmt.Errorf("delete note: %v", err)
	}

	if res.DeletedCount == 0 {
		return entity.ErrNoteNotFound
	}

	return nil
}
