// File: internal/services/user_services/user_service.go
package user_services

import (
	"context"
	"errors"
	"strings"

	"github.com/mobile-messenger/backend/internal/apperrors"
	"github.com/mobile-messenger/backend/internal/auth"
	"github.com/mobile-messenger/backend/internal/domain"
	"github.com/mobile-messenger/backend/internal/repository/user"
	"github.com/mobile-messenger/backend/internal/services"
)

// DefaultSearchLimit caps user search results when the caller does not
// ask for a specific limit.
const DefaultSearchLimit = 10

type UserService struct {
	userRepo  user.UserRepository
	jwtSecret []byte
	logger    services.Logger
}

func NewUserService(userRepo user.UserRepository, jwtSecret []byte, logger services.Logger) (*UserService, error) {
	if userRepo == nil {
		return nil, errors.New("user repository is required")
	}
	if len(jwtSecret) == 0 {
		return nil, errors.New("JWT secret is required")
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &UserService{userRepo: userRepo, jwtSecret: jwtSecret, logger: logger}, nil
}

// Register creates a user with a server-side bcrypt hash of the supplied
// password. Client-supplied hashes are never accepted.
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	const op = "register_user"

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewInvalidInput(op, "username and password are required")
	}

	newUser := &domain.User{Username: username}
	if err := newUser.IsValid(); err != nil {
		return nil, apperrors.NewInvalidInput(op, err.Error())
	}
	if err := newUser.HashPassword(password); err != nil {
		return nil, apperrors.NewInvalidInput(op, err.Error())
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.NewStorage(op, err)
	}
	if exists {
		return nil, apperrors.NewConflict(op, "username already exists")
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		// The unique index may still fire under a concurrent register.
		s.logger.Error("user creation failed", "username", username, "error", err)
		return nil, apperrors.NewStorage(op, err)
	}

	s.logger.Info("user registered", "user_id", created.ID, "username", created.Username)
	return created, nil
}

// Login verifies the credentials and issues a signed token binding the
// user ID and username. Missing user and wrong password are deliberately
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	const op = "login_user"

	if username == "" || password == "" {
		return "", nil, apperrors.NewInvalidInput(op, "username and password are required")
	}

	found, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.logger.Warn("login failed", "username", username, "reason", "user_not_found")
			return "", nil, apperrors.NewUnauthorized(op, "invalid credentials")
		}
		return "", nil, apperrors.NewStorage(op, err)
	}

	if err := found.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed", "username", username, "reason", "invalid_password")
		return "", nil, apperrors.NewUnauthorized(op, "invalid credentials")
	}

	token, err := auth.GenerateToken(found.ID, found.Username, s.jwtSecret)
	if err != nil {
		s.logger.Error("token generation failed", "user_id", found.ID, "error", err)
		return "", nil, apperrors.NewStorage(op, err)
	}

	s.logger.Info("user logged in", "user_id", found.ID, "username", found.Username)
	return token, found, nil
}

// SearchUsers matches usernames on a case-insensitive substring.
func (s *UserService) SearchUsers(ctx context.Context, term string, limit int) ([]domain.UserInfo, error) {
	const op = "search_users"

	if strings.TrimSpace(term) == "" {
		return nil, apperrors.NewInvalidInput(op, "search name is required")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	results, err := s.userRepo.SearchByUsername(ctx, term, limit)
	if err != nil {
		return nil, apperrors.NewStorage(op, err)
	}
	return results, nil
}
