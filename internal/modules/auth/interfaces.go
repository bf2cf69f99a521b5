package auth

import (
	"context"
	"time"

	"rentmarket/internal/domain"
)

// UserRepository lists only the methods the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
	TTL() time.Duration
}
