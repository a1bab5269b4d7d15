package core

import (
	"KolDesk/entity"
	"KolDesk/internal/lib/sl"
	"KolDesk/orderflow"
	"context"
	"fmt"
	"log/slog"
)

// HandleUserMessage runs one turn of the chat: the message goes into
// the transcript, the assistant answers, and an order flow starts when
// the assistant recognized a promotion request.
func (c *Core) HandleUserMessage(ctx context.Context, in entity.HttpUserMsg) error {
	if c.ass == nil {
		return fmt.Errorf("not set Assistant")
	}

	user, err := c.repo.GetUser(ctx, in.UserUUID)
	if err != nil {
		return err
	}
	if user == nil {
		user = &entity.User{UUID: in.UserUUID}
		if err := c.repo.UpsertUser(ctx, user); err != nil {
			return err
		}
	}

	_, err = c.sink.Append(ctx, &entity.ChatMessage{
		ConversationId: in.ConversationId,
		UserUUID:       in.UserUUID,
		Role:           entity.RoleUser,
		Kind:           entity.KindText,
		Text:           in.Message,
	})
	if err != nil {
		return err
	}

	answer, err := c.ass.Ask(user, in.Message)
	if err != nil {
		c.log.Error("assistant", sl.Err(err), slog.String("userUUID", in.UserUUID))
		c.appendAssistantText(ctx, in, "Sorry, something went wrong. Please try again.")
		return err
	}

	if answer.Text != "" {
		c.appendAssistantText(ctx, in, answer.Text)
	}

	if !answer.StartOrder {
		return nil
	}

	selection := entity.KolSelection{}
	if answer.Selection != nil {
		selection = *answer.Selection
	}
	return c.startOrder(ctx, in, selection)
}

func (c *Core) appendAssistantText(ctx context.Context, in entity.HttpUserMsg, text string) {
	_, err := c.sink.Append(ctx, &entity.ChatMessage{
		ConversationId: in.ConversationId,
		UserUUID:       in.UserUUID,
		Role:           entity.RoleAssistant,
		Kind:           entity.KindText,
		Text:           text,
	})
	if err != nil {
		c.log.Error("append assistant reply", sl.Err(err))
	}
}

// startOrder opens a new flow for the conversation. One live flow per
// conversation: a running or input-waiting flow blocks a second one.
func (c *Core) startOrder(ctx context.Context, in entity.HttpUserMsg, sel entity.KolSelection) error {
	existing, err := c.repo.LoadFlowState(ctx, in.ConversationId)
	if err != nil {
		return err
	}
	if existing != nil &&
		(existing.Status == orderflow.StatusRunning || existing.Status == orderflow.StatusAwaitingInput) {
		c.appendAssistantText(ctx, in, "You already have an order in progress in this chat. Finish or cancel it first.")
		return nil
	}

	state := orderflow.NewFlowState(in.UserUUID, in.ConversationId)
	flowErr := c.flow.StartFlow(ctx, state, sel)

	if err := c.saveFlow(ctx, state); err != nil {
		return err
	}
	return flowErr
}

// saveFlow persists the flow state, dropping it once the flow reached
// its terminal state. The confirmation artifact is the durable record.
func (c *Core) saveFlow(ctx context.Context, state *orderflow.FlowState) error {
	if state.Status == orderflow.StatusCompleted {
		return c.repo.DeleteFlowState(ctx, state.ConversationId)
	}
	return c.repo.SaveFlowState(ctx, state)
}

// GetConversation returns the transcript for the web client.
func (c *Core) GetConversation(ctx context.Context, conversationId string, limit int64) ([]entity.ChatMessage, error) {
	return c.repo.GetConversation(ctx, conversationId, limit)
}
