package flow

import (
	"KolDesk/orderflow"
	"context"
)

type Core interface {
	SubmitStepInput(ctx context.Context, conversationId string, input orderflow.FormInput) error
	GoBackStep(ctx context.Context, conversationId string) error
	RetryOrder(ctx context.Context, conversationId string) error
	CancelOrder(ctx context.Context, conversationId, reason string) error
}
