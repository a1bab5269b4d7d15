package kol

import (
	"KolDesk/entity"
	"context"
)

type Core interface {
	ListKols(ctx context.Context) ([]entity.Kol, error)
}
