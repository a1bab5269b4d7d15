package core

import (
	"KolDesk/entity"
	"KolDesk/orderflow"
	"context"
	"fmt"
	"io"
)

// ErrNoActiveFlow is returned when a flow operation targets a
// conversation with no stored flow.
var ErrNoActiveFlow = fmt.Errorf("no active order in this conversation")

func (c *Core) loadFlow(ctx context.Context, conversationId string) (*orderflow.FlowState, error) {
	state, err := c.repo.LoadFlowState(ctx, conversationId)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNoActiveFlow
	}
	return state, nil
}

// SubmitStepInput feeds a form submission to the waiting flow.
func (c *Core) SubmitStepInput(ctx context.Context, conversationId string, input orderflow.FormInput) error {
	state, err := c.loadFlow(ctx, conversationId)
	if err != nil {
		return err
	}

	flowErr := c.flow.HandleInput(ctx, state, input)
	if err := c.saveFlow(ctx, state); err != nil {
		return err
	}
	return flowErr
}

// GoBackStep rewinds the waiting flow to its previous form.
func (c *Core) GoBackStep(ctx context.Context, conversationId string) error {
	state, err := c.loadFlow(ctx, conversationId)
	if err != nil {
		return err
	}

	flowErr := c.flow.GoBack(ctx, state)
	if err := c.saveFlow(ctx, state); err != nil {
		return err
	}
	return flowErr
}

// RetryOrder resumes a failed flow from its stored snapshot.
func (c *Core) RetryOrder(ctx context.Context, conversationId string) error {
	state, err := c.loadFlow(ctx, conversationId)
	if err != nil {
		return err
	}

	resumed, flowErr := c.flow.Resume(ctx, state)
	if resumed != nil {
		if err := c.saveFlow(ctx, resumed); err != nil {
			return err
		}
	}
	return flowErr
}

// CancelOrder abandons the conversation's flow.
func (c *Core) CancelOrder(ctx context.Context, conversationId, reason string) error {
	state, err := c.loadFlow(ctx, conversationId)
	if err != nil {
		return err
	}

	flowErr := c.flow.ForceFail(ctx, state, reason)
	if err := c.saveFlow(ctx, state); err != nil {
		return err
	}
	return flowErr
}

// UploadMedia pushes a promotional image to the marketplace store.
func (c *Core) UploadMedia(ctx context.Context, filename string, size int64, file io.Reader) (*entity.Media, error) {
	if c.market == nil {
		return nil, fmt.Errorf("not set MarketService")
	}
	return c.market.UploadImage(ctx, filename, size, file)
}

// ListKols exposes the marketplace influencer listing.
func (c *Core) ListKols(ctx context.Context) ([]entity.Kol, error) {
	if c.market == nil {
		return nil, fmt.Errorf("not set MarketService")
	}
	return c.market.ListKols(ctx)
}

// GetOrders returns a user's paid order confirmations.
func (c *Core) GetOrders(ctx context.Context, userUUID string) ([]entity.OrderConfirmation, error) {
	return c.repo.GetConfirmations(ctx, userUUID)
}
