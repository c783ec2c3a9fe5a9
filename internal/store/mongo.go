package store

import (
	"context"
	"errors"
	"time"

	"github.com/gitradar/topic-crawler/pkg/db"
	"go.mongodb.org/mongo-driver/mongo"
)

const opTimeout = 30 * time.Second

// MongoStore là hiện thực Store trên MongoDB qua connection pool dùng
// chung của pkg/db
type MongoStore struct {
	mongo *db.Mongo
}

func NewMongoStore(mongo *db.Mongo) *MongoStore {
	return &MongoStore{mongo: mongo}
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, document interface{}) error {
	coll, err := s.mongo.Collection(collection)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err = coll.InsertOne(ctx, document)
	return err
}

func (s *MongoStore) InsertMany(ctx context.Context, collection string, documents []interface{}) error {
	if len(documents) == 0 {
		return nil
	}
	coll, err := s.mongo.Collection(collection)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err = coll.InsertMany(ctx, documents)
	return err
}

func (s *MongoStore) DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error) {
	coll, err := s.mongo.Collection(collection)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	result, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter interface{}, results interface{}) error {
	coll, err := s.mongo.Collection(collection)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return err
	}
	return cursor.All(ctx, results)
}

func (s *MongoStore) FindOne(ctx context.Context, collection string, filter interface{}, result interface{}) error {
	coll, err := s.mongo.Collection(collection)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	err = coll.FindOne(ctx, filter).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.mongo.Close()
}
