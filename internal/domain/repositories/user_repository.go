package repositories

import (
	"context"

	"github.com/google/uuid"

	"wallet-kita.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// ServiceUserRepository resolves trusted operator accounts
type ServiceUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ServiceUser, error)
}
