// File: internal/repository/user/gorm_user_repository.go
package user

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mobile-messenger/backend/internal/domain"
	"github.com/mobile-messenger/backend/internal/validation"
)

var ErrUserNotFound = errors.New("user not found")

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = validation.NewID()
	}
	user.CreatedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// No credential material in logs.
		log.Printf("[UserRepository] database error creating user %q: %v", user.Username, err)
		return nil, err
	}
	return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return r.handleFindError(err, &user, "FindByID")
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return r.handleFindError(err, &user, "FindByUsername")
}

func (r *gormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		log.Printf("[UserRepository] database error checking username: %v", err)
		return false, err
	}
	return count > 0, nil
}

// SearchByUsername matches usernames case-insensitively on a substring.
// The term is escaped so user input cannot smuggle LIKE wildcards.
func (r *gormUserRepository) SearchByUsername(ctx context.Context, term string, limit int) ([]domain.UserInfo, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)

	var users []domain.UserInfo
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("id, username").
		Where(`username LIKE ? ESCAPE '\' COLLATE NOCASE`, "%"+escaped+"%").
		Order("username ASC").
		Limit(limit).
		Scan(&users).Error
	if err != nil {
		log.Printf("[UserRepository] database error searching users: %v", err)
		return nil, err
	}
	return users, nil
}

func (r *gormUserRepository) handleFindError(err error, user *domain.User, operation string) (*domain.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("[UserRepository] database error in %s: %v", operation, err)
		return nil, err
	}
	return user, nil
}
