package user

import "context"

type Core interface {
	BindWallet(ctx context.Context, userUUID, wallet string) error
}
