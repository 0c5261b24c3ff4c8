package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/redmonkez12/devtree-api/internal/user"
)

// TokenService defines the interface for token creation and validation.
type TokenService interface {
	CreateToken(userID string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// UserRepository is the subset of the user store the auth package needs.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByHandle(ctx context.Context, handle string) (*user.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*user.User, error)
}
