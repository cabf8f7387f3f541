package moments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("moment not found")

// Repository is the document-store capability the handlers and the migration
// runner consume.
type Repository interface {
	Insert(ctx context.Context, doc Document) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (Document, error)
	Find(ctx context.Context, filter bson.M, sort bson.D, limit int64) ([]Document, error)
	PatchByID(ctx context.Context, id primitive.ObjectID, set bson.M) (Document, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	Latest(ctx context.Context) (Document, error)
	Sample(ctx context.Context) (Document, error)

	// Migration surface.
	ForEach(ctx context.Context, fn func(Document) error) error
	SetImages(ctx context.Context, id primitive.ObjectID, images []string, updatedAt time.Time) error
	EnsureIndexes(ctx context.Context) error

	Ping(ctx context.Context) error
}

type mongoRepository struct {
	collection *mongo.Collection
}

// NewRepository wraps a Mongo collection as a Repository.
func NewRepository(collection *mongo.Collection) Repository {
	return &mongoRepository{collection: collection}
}

func (r *mongoRepository) Insert(ctx context.Context, doc Document) (primitive.ObjectID, error) {
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert moment: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected insert id type")
	}
	return id, nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (Document, error) {
	var doc Document
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("find moment: %w", err)
	}
	return doc, nil
}

func (r *mongoRepository) Find(ctx context.Context, filter bson.M, sort bson.D, limit int64) ([]Document, error) {
	opts := options.Find().SetSort(sort).SetLimit(limit)
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list moments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []Document
	for cur.Next(ctx) {
		var doc Document
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode moment: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list moments: %w", err)
	}

	return docs, nil
}

func (r *mongoRepository) PatchByID(ctx context.Context, id primitive.ObjectID, set bson.M) (Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc Document
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("update moment: %w", err)
	}
	return doc, nil
}

func (r *mongoRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete moment: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository) Latest(ctx context.Context) (Document, error) {
	sort := bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}
	docs, err := r.Find(ctx, bson.M{}, sort, 1)
	if err != nil {
		return Document{}, err
	}
	if len(docs) == 0 {
		return Document{}, ErrNotFound
	}
	return docs[0], nil
}

func (r *mongoRepository) Sample(ctx context.Context) (Document, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}},
	}
	cur, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return Document{}, fmt.Errorf("sample moment: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return Document{}, fmt.Errorf("sample moment: %w", err)
		}
		return Document{}, ErrNotFound
	}

	var doc Document
	if err := cur.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode moment: %w", err)
	}
	return doc, nil
}

func (r *mongoRepository) ForEach(ctx context.Context, fn func(Document) error) error {
	cur, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("scan moments: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc Document
		if err := cur.Decode(&doc); err != nil {
			return fmt.Errorf("decode moment: %w", err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return cur.Err()
}

func (r *mongoRepository) SetImages(ctx context.Context, id primitive.ObjectID, images []string, updatedAt time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"images":    images,
			"updatedAt": updatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("rewrite images: %w", err)
	}
	return nil
}

func (r *mongoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: -1}},
			Options: options.Index().SetName("date_desc"),
		},
		{
			Keys:    bson.D{{Key: "visibility", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("visibility_date_desc"),
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (r *mongoRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}
