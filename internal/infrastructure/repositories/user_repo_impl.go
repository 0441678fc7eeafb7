package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/infrastructure/models"
	"wallet-kita.backend/pkg/utils"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userToEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = utils.GenerateUUIDv7()
	}
	user.CreatedAt = time.Now()

	m := &models.User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.CreatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.Create(m).Error; err != nil {
		return domainerrors.Persistence(err)
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	db := GetDB(ctx, r.db)

	var m models.User
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return userToEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	db := GetDB(ctx, r.db)

	var m models.User
	if err := db.Where("email = ?", email).First(&m).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return userToEntity(&m), nil
}

// ServiceUserRepository resolves trusted operator accounts
type ServiceUserRepository struct {
	db *gorm.DB
}

// NewServiceUserRepository creates a new service user repository
func NewServiceUserRepository(db *gorm.DB) *ServiceUserRepository {
	return &ServiceUserRepository{db: db}
}

// GetByID gets a service user by ID
func (r *ServiceUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ServiceUser, error) {
	db := GetDB(ctx, r.db)

	var m models.ServiceUser
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &entities.ServiceUser{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}, nil
}
