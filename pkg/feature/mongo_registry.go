package feature

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoRegistry reads flags from a MongoDB collection maintained by the
// admin management surface. Documents use the Flag bson tags with "key" as
// the lookup field.
type MongoRegistry struct {
	coll *mongo.Collection
}

// NewMongoRegistry returns a registry reading from the given collection.
func NewMongoRegistry(coll *mongo.Collection) (*MongoRegistry, error) {
	if coll == nil {
		return nil, ErrNilClient
	}
	return &MongoRegistry{coll: coll}, nil
}

func (r *MongoRegistry) Get(ctx context.Context, key string) (*Flag, error) {
	var f Flag
	err := r.coll.FindOne(ctx, bson.M{"key": key}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrFlagNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrRegistryUnavailable, err)
	}
	return &f, nil
}
