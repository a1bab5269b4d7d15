package repository

import (
	"KolDesk/orderflow"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveFlowState persists a conversation's active order flow.
func (m *MongoDB) SaveFlowState(ctx context.Context, state *orderflow.FlowState) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(flowStatesCollection)

	state.UpdatedAt = time.Now()

	filter := bson.D{{Key: "conversation_id", Value: state.ConversationId}}
	update := bson.D{{Key: "$set", Value: state}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}

	return nil
}

// LoadFlowState retrieves a conversation's order flow, or nil if none.
func (m *MongoDB) LoadFlowState(ctx context.Context, conversationId string) (*orderflow.FlowState, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(flowStatesCollection)

	filter := bson.D{{Key: "conversation_id", Value: conversationId}}

	var state orderflow.FlowState
	err = collection.FindOne(ctx, filter).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &state, nil
}

// DeleteFlowState removes a conversation's order flow.
func (m *MongoDB) DeleteFlowState(ctx context.Context, conversationId string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(flowStatesCollection)

	filter := bson.D{{Key: "conversation_id", Value: conversationId}}

	_, err = collection.DeleteOne(ctx, filter)
	return err
}
