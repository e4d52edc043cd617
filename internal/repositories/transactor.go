package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs fn inside a database transaction. Repository calls made
// with the ctx passed to fn take part in it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTransactor implements Transactor with a MongoDB session
type MongoTransactor struct {
	client *mongo.Client
}

// NewMongoTransactor creates a new MongoTransactor
func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	return &MongoTransactor{client: client}
}

// WithTransaction commits when fn returns nil and aborts otherwise, returning fn's error.
func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
