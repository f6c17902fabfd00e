package user

import (
	"context"

	"github.com/mobile-messenger/backend/internal/domain"
)

// UserRepository handles user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	SearchByUsername(ctx context.Context, term string, limit int) ([]domain.UserInfo, error)
}
