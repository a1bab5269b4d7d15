package repository

import (
	"KolDesk/entity"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveConfirmation records a paid order's confirmation snapshot.
func (m *MongoDB) SaveConfirmation(ctx context.Context, userUUID string, conf *entity.OrderConfirmation) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ordersCollection)

	doc := bson.D{
		{Key: "user_uuid", Value: userUUID},
		{Key: "confirmation", Value: conf},
	}

	_, err = collection.InsertOne(ctx, doc)
	return err
}

// GetConfirmations lists a user's paid orders, newest first.
func (m *MongoDB) GetConfirmations(ctx context.Context, userUUID string) ([]entity.OrderConfirmation, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ordersCollection)

	filter := bson.D{{Key: "user_uuid", Value: userUUID}}
	opts := options.Find().SetSort(bson.D{{Key: "confirmation.paid_at", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Confirmation entity.OrderConfirmation `bson:"confirmation"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	confirmations := make([]entity.OrderConfirmation, len(rows))
	for i, r := range rows {
		confirmations[i] = r.Confirmation
	}
	return confirmations, nil
}
