package usecases

import (
	"context"
	"errors"
	"time"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/domain/repositories"
	"wallet-kita.backend/pkg/crypto"
	"wallet-kita.backend/pkg/jwt"
	"wallet-kita.backend/pkg/utils"
)

// AuthUsecase handles registration and login
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo repositories.UserRepository, jwtService *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a new user and issues a token pair
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, *jwt.TokenPair, error) {
	existing, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, domainerrors.Conflict("email already registered")
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, nil, domainerrors.InternalError(err)
	}

	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, false)
	if err != nil {
		return nil, nil, domainerrors.InternalError(err)
	}
	return user, tokens, nil
}

// Login authenticates a user and issues a token pair
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.User, *jwt.TokenPair, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil, domainerrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, nil, domainerrors.ErrInvalidCredentials
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, false)
	if err != nil {
		return nil, nil, domainerrors.InternalError(err)
	}
	return user, tokens, nil
}
