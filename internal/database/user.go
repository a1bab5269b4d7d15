package repository

import (
	"KolDesk/entity"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetUser looks a user up by uuid.
func (m *MongoDB) GetUser(ctx context.Context, userUUID string) (*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)

	var user entity.User
	err = collection.FindOne(ctx, bson.D{{Key: "uuid", Value: userUUID}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// UpsertUser creates or updates a user record.
func (m *MongoDB) UpsertUser(ctx context.Context, user *entity.User) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	if user.UUID == "" {
		user.UUID = uuid.NewString()
		user.CreatedAt = time.Now()
	}

	collection := connection.Database(m.database).Collection(usersCollection)

	filter := bson.D{{Key: "uuid", Value: user.UUID}}
	update := bson.D{{Key: "$set", Value: user}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// SetUserWallet binds a wallet address to a user.
func (m *MongoDB) SetUserWallet(ctx context.Context, userUUID, wallet string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)

	filter := bson.D{{Key: "uuid", Value: userUUID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "wallet", Value: wallet}}}}

	_, err = collection.UpdateOne(ctx, filter, update)
	return err
}
