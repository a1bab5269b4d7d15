package core

import (
	"KolDesk/entity"
	"context"
	"fmt"
	"strings"
)

// BindWallet attaches a wallet address to a user. The web client calls
// this once the user connects their wallet; without it no order flow
// can pass session verification.
func (c *Core) BindWallet(ctx context.Context, userUUID, wallet string) error {
	wallet = strings.TrimSpace(wallet)
	if userUUID == "" || wallet == "" {
		return fmt.Errorf("user and wallet are required")
	}

	user, err := c.repo.GetUser(ctx, userUUID)
	if err != nil {
		return err
	}
	if user == nil {
		return c.repo.UpsertUser(ctx, &entity.User{UUID: userUUID, Wallet: wallet})
	}
	return c.repo.SetUserWallet(ctx, userUUID, wallet)
}
