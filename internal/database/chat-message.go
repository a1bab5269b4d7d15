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

// AppendMessage stores a new chat message and returns its id.
func (m *MongoDB) AppendMessage(ctx context.Context, msg *entity.ChatMessage) (string, error) {
	connection, err := m.connect()
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	if msg.Id == "" {
		msg.Id = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	collection := connection.Database(m.database).Collection(messagesCollection)
	_, err = collection.InsertOne(ctx, msg)
	if err != nil {
		return "", err
	}

	return msg.Id, nil
}

// UpdateMessageContent replaces a message's structured content. A nil
// content detaches the artifact (the message stays but renders empty).
func (m *MongoDB) UpdateMessageContent(ctx context.Context, id string, content any) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	filter := bson.D{{Key: "id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "content", Value: content}}}}

	_, err = collection.UpdateOne(ctx, filter, update)
	return err
}

// SetMessageKind reclassifies a message, e.g. a live progress artifact
// becoming the final order confirmation.
func (m *MongoDB) SetMessageKind(ctx context.Context, id, kind string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	filter := bson.D{{Key: "id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "kind", Value: kind}}}}

	_, err = collection.UpdateOne(ctx, filter, update)
	return err
}

// DeleteMessage removes a message from the transcript.
func (m *MongoDB) DeleteMessage(ctx context.Context, id string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	_, err = collection.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	return err
}

// GetConversation returns a conversation's messages, oldest first.
func (m *MongoDB) GetConversation(ctx context.Context, conversationId string, limit int64) ([]entity.ChatMessage, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	filter := bson.D{{Key: "conversation_id", Value: conversationId}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []entity.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
