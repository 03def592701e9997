package session

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt"

	"vtribe/internal/app/model"
)

var ErrInvalidToken = errors.New("invalid session token")

type Claims struct {
	jwt.StandardClaims
}

type Creator interface {
	// Create a session for the user, returns a signed token
	Create(ctx context.Context, u *model.User) (string, error)
}

type Reader interface {
	// Read resolves a token back to the authenticated user
	Read(ctx context.Context, token string) (*model.User, error)
}

type Manager interface {
	Creator
	Reader
}
