package user

import (
	"context"

	"devhub/internal/core/user"

	"github.com/gofrs/uuid"
)

// UserRepository is the port for storing and loading users.
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

type RegisterInput struct {
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=191"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

// DTOs for the use cases
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}
