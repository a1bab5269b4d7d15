package order

import (
	"KolDesk/entity"
	"context"
)

type Core interface {
	GetOrders(ctx context.Context, userUUID string) ([]entity.OrderConfirmation, error)
}
