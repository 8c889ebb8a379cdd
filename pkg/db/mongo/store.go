package mongo

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

// StoreOptions configures a Store. ErrNotFound and ErrInvalidID are the
// domain sentinels returned for missing documents and malformed ids.
type StoreOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ErrNotFound  error
	ErrInvalidID error
}

// Store is the collection-level data access shared by every entity
// repository. Repositories compose it and add their own queries.
type Store[T any] struct {
	collection *mongo.Collection
	opts       StoreOptions
}

func NewStore[T any](db *mongo.Database, collectionName string, opts StoreOptions) *Store[T] {
	if opts.ErrNotFound == nil {
		opts.ErrNotFound = mongo.ErrNoDocuments
	}
	if opts.ErrInvalidID == nil {
		opts.ErrInvalidID = primitive.ErrInvalidHex
	}
	return &Store[T]{
		collection: db.Collection(collectionName),
		opts:       opts,
	}
}

func (s *Store[T]) Collection() *mongo.Collection {
	return s.collection
}

// WithTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, timeout)
}

// ObjectID parses a hex id, mapping malformed input to the store's ErrInvalidID.
func (s *Store[T]) ObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", s.opts.ErrInvalidID, id)
	}
	return oid, nil
}

// ObjectIDs parses a batch of hex ids, failing on the first malformed one.
func (s *Store[T]) ObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := s.ObjectID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

// Insert stores doc and returns the generated id as hex.
func (s *Store[T]) Insert(ctx context.Context, doc *T) (string, error) {
	ctx, cancel := WithTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}

	switch id := result.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		return fmt.Sprint(id), nil
	}
}

func (s *Store[T]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := s.ObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.FindOne(ctx, bson.M{"_id": oid})
}

func (s *Store[T]) FindOne(ctx context.Context, filter any) (*T, error) {
	ctx, cancel := WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	var doc T
	if err := s.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.opts.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s document: %w", s.collection.Name(), err)
	}
	return &doc, nil
}

func (s *Store[T]) Find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]*T, error) {
	ctx, cancel := WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s documents: %w", s.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []*T{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s documents: %w", s.collection.Name(), err)
	}
	return docs, nil
}

func (s *Store[T]) FindPage(ctx context.Context, filter any, sort bson.D, limit int, offset int64) ([]*T, error) {
	opts := options.Find().
		SetSort(sort).
		SetLimit(int64(limit)).
		SetSkip(offset)
	return s.Find(ctx, filter, opts)
}

func (s *Store[T]) Count(ctx context.Context, filter any) (int64, error) {
	ctx, cancel := WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s documents: %w", s.collection.Name(), err)
	}
	return count, nil
}

// Exists reports whether at least one document matches filter.
func (s *Store[T]) Exists(ctx context.Context, filter any) (bool, error) {
	ctx, cancel := WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	count, err := s.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check %s documents: %w", s.collection.Name(), err)
	}
	return count > 0, nil
}

// SetFields applies a $set update to the document with the given id.
func (s *Store[T]) SetFields(ctx context.Context, id string, fields bson.M) error {
	oid, err := s.ObjectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := WithTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update %s document: %w", s.collection.Name(), err)
	}
	if result.MatchedCount == 0 {
		return s.opts.ErrNotFound
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	oid, err := s.ObjectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := WithTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete %s document: %w", s.collection.Name(), err)
	}
	if result.DeletedCount == 0 {
		return s.opts.ErrNotFound
	}
	return nil
}
