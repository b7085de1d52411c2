package preferences

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps one document per user: {user_id, <key>: <value>, ...}.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

func (s *MongoStore) Get(ctx context.Context, userID, key string) (interface{}, bool, error) {
	if err := validateKey(userID, key); err != nil {
		return nil, false, nil
	}

	var doc bson.M
	opts := options.FindOne().SetProjection(bson.D{{Key: key, Value: 1}, {Key: "_id", Value: 0}})
	err := s.collection.FindOne(ctx, bson.D{{Key: "user_id", Value: userID}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find %s: %w", key, err)
	}

	v, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return fromBSON(v), true, nil
}

func (s *MongoStore) Set(ctx context.Context, userID, key string, value interface{}) error {
	if err := validateKey(userID, key); err != nil {
		return err
	}
	v, err := normalizeValue(value)
	if err != nil {
		return err
	}

	_, err = s.collection.UpdateOne(ctx,
		bson.D{{Key: "user_id", Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: key, Value: v}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo upsert %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.collection.Database().Client().Ping(ctx, nil)
}

func fromBSON(v interface{}) interface{} {
	switch n := v.(type) {
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return v
}
