package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// noteDocument is the BSON shape of a note in the `notes` collection.
// `user` references the owner's `_id` in the users collection.
type noteDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	User        primitive.ObjectID `bson:"user"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Tag         string             `bson:"tag"`
	Date        time.Time          `bson:"date"`
}

func (d *noteDocument) toNote() Note {
	return Note{
		ID:          d.ID.Hex(),
		Owner:       d.User.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Tag:         d.Tag,
		Date:        d.Date,
	}
}

// MongoStore keeps notes in a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a MongoStore using the `notes` collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection("notes")}
}

// EnsureIndexes creates the owner index used by ListByOwner. It is idempotent.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("notes_user_idx"),
	})
	if err != nil {
		return fmt.Errorf("create notes user index: %w", err)
	}
	return nil
}

func (s *MongoStore) ListByOwner(ctx context.Context, ownerID string) ([]Note, error) {
	list := []Note{}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return list, nil
	}

	// ObjectIDs start with their creation second, so _id order is creation order.
	cur, err := s.coll.Find(ctx, bson.M{"user": owner}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	var docs []noteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	for i := range docs {
		list = append(list, docs[i].toNote())
	}
	return list, nil
}

func (s *MongoStore) Create(ctx context.Context, n *Note) (*Note, error) {
	owner, err := primitive.ObjectIDFromHex(n.Owner)
	if err != nil {
		return nil, ErrOwnerNotFound
	}
	doc := noteDocument{
		ID:          primitive.NewObjectID(),
		User:        owner,
		Title:       n.Title,
		Description: n.Description,
		Tag:         n.Tag,
		Date:        time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	created := doc.toNote()
	return &created, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc noteDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, noDocumentOr(err, "find note")
	}
	n := doc.toNote()
	return &n, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, patch Patch) (*Note, error) {
	if patch.Empty() {
		return s.FindByID(ctx, id)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Tag != nil {
		set["tag"] = *patch.Tag
	}

	var doc noteDocument
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, noDocumentOr(err, "update note")
	}
	n := doc.toNote()
	return &n, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) (*Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc noteDocument
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, noDocumentOr(err, "delete note")
	}
	n := doc.toNote()
	return &n, nil
}

func noDocumentOr(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
