package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/videotube/account-service/internal/domain"
)

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository with the given GORM DB instance.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. Uniqueness of username and email is enforced by
// the database indexes; a collision surfaces as domain.ErrDuplicateKey rather
// than relying on a racy application-level pre-check.
func (r *userRepository) Create(user *domain.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *userRepository) GetByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByUsernameOrEmail retrieves the first user matching either identifier.
func (r *userRepository) GetByUsernameOrEmail(username, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("username = ? OR email = ?", username, email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateRefreshToken writes only the refresh_token column. An empty token
// clears the session.
func (r *userRepository) UpdateRefreshToken(userID uint, token string) error {
	return r.updateColumns(userID, map[string]interface{}{"refresh_token": token})
}

// UpdatePassword writes only the password column.
func (r *userRepository) UpdatePassword(userID uint, passwordHash string) error {
	return r.updateColumns(userID, map[string]interface{}{"password": passwordHash})
}

// UpdateAccount writes the mutable profile fields.
func (r *userRepository) UpdateAccount(userID uint, fullName, email string) error {
	return r.updateColumns(userID, map[string]interface{}{"full_name": fullName, "email": email})
}

// UpdateAvatar writes only the avatar column.
func (r *userRepository) UpdateAvatar(userID uint, url string) error {
	return r.updateColumns(userID, map[string]interface{}{"avatar": url})
}

// UpdateCoverImage writes only the cover_image column.
func (r *userRepository) UpdateCoverImage(userID uint, url string) error {
	return r.updateColumns(userID, map[string]interface{}{"cover_image": url})
}

// updateColumns performs a targeted column update with no cross-field
// validation, the counterpart of a full validated Create.
func (r *userRepository) updateColumns(userID uint, values map[string]interface{}) error {
	result := r.db.Model(&domain.User{}).Where("id = ?", userID).Updates(values)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
