package auth

import (
	"KolDesk/entity"
	"KolDesk/internal/lib/sl"
	"context"
	"log/slog"
)

// UserStore is the subset of the repository the session checks need.
type UserStore interface {
	GetUser(ctx context.Context, userUUID string) (*entity.User, error)
}

// AuthService resolves a user's login and wallet binding. It
// implements the order flow's SessionGateway.
type AuthService struct {
	users UserStore
	log   *slog.Logger
}

func NewAuthService(users UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		users: users,
		log:   logger.With(sl.Module("auth")),
	}
}

// Verify reports whether the user is logged in and has a wallet bound.
// A missing or blocked user yields a logged-out session rather than an
// error so the flow can route the user to login.
func (s *AuthService) Verify(ctx context.Context, userUUID string) (*entity.Session, error) {
	user, err := s.users.GetUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Blocked {
		return &entity.Session{UserUUID: userUUID}, nil
	}

	return &entity.Session{
		UserUUID: user.UUID,
		LoggedIn: true,
		Wallet:   user.Wallet,
	}, nil
}
