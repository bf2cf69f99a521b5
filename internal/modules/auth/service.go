package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"rentmarket/internal/database"
	"rentmarket/internal/domain"
	"rentmarket/internal/pkg/apperr"
	"rentmarket/internal/pkg/validator"
)

// Service contains the authentication logic
type Service struct {
	users UserRepository
	jwt   TokenIssuer
	cost  int
}

func NewService(users UserRepository, jwt TokenIssuer) *Service {
	return &Service{users: users, jwt: jwt, cost: bcrypt.DefaultCost}
}

// Register creates a renter or owner account and signs the user in.
// Admin accounts are only created by the seed command.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, apperr.Storage("check user exists", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(req.Password, s.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.UserRole(req.Role),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, apperr.Storage("create user", err)
	}
	log.Printf("user_registered user_id=%d role=%s", user.ID, user.Role)

	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Storage("get user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Storage("get user", err)
	}
	return user, nil
}

func (s *Service) GetPublicProfile(ctx context.Context, userID int64) (*domain.PublicUser, error) {
	user, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

func (s *Service) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresIn: int64(s.jwt.TTL().Seconds())}, nil
}

// HashPassword is shared with the seed command.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Validation("password", "must be at most 72 bytes")
		}
		return "", err
	}
	return string(hash), nil
}
