package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Shared single-collection helpers. Every repository method is one driver call.

func insertOne(ctx context.Context, col *mongo.Collection, doc any) error {
	if _, err := col.InsertOne(ctx, doc); err != nil {
		return mapError(col, "insert", err)
	}
	return nil
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, mapError(col, "find", err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(col, "find", err)
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, mapError(col, "decode", err)
	}
	return out, nil
}

func count(ctx context.Context, col *mongo.Collection, filter bson.M) (int64, error) {
	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, mapError(col, "count", err)
	}
	return n, nil
}

// updateOne applies set as a $set document and returns the updated document.
func updateOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M, set any) (*T, error) {
	return updateWith[T](ctx, col, filter, bson.M{"$set": set})
}

// updateWith applies a full update document and returns the document after it.
func updateWith[T any](ctx context.Context, col *mongo.Collection, filter bson.M, update bson.M) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if err != nil {
		return nil, mapError(col, "update", err)
	}
	return &out, nil
}

func deleteOne(ctx context.Context, col *mongo.Collection, filter bson.M) error {
	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return mapError(col, "delete", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func mapError(col *mongo.Collection, op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s %s: %w", op, col.Name(), ErrDuplicate)
	}
	return fmt.Errorf("%s %s: %w", op, col.Name(), err)
}
