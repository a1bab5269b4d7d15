package chat

import (
	"KolDesk/entity"
	"context"
)

type Core interface {
	HandleUserMessage(ctx context.Context, in entity.HttpUserMsg) error
	GetConversation(ctx context.Context, conversationId string, limit int64) ([]entity.ChatMessage, error)
}
