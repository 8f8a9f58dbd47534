// Package users provides database operations for library member accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.FindByUserID("u1")
package users

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openshelf/librarium/internal/entities"
)

// ErrNotFound is returned when no user matches the given identifier.
var ErrNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new user. UserID and EmailAddress must be unique.
func (r *Repository) Create(user *entities.User) error {
	if user.Role == "" {
		user.Role = entities.UserRoleMember
	}
	return r.db.Create(user).Error
}

// FindByUserID retrieves a user by their public identifier.
func (r *Repository) FindByUserID(userID string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailAddress retrieves a user by their unique email address.
func (r *Repository) FindByEmailAddress(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email_address = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll returns every registered user.
func (r *Repository) FindAll() ([]entities.User, error) {
	var users []entities.User
	err := r.db.Find(&users).Error
	return users, err
}

// Update persists changes to an existing user row.
func (r *Repository) Update(user *entities.User) error {
	return r.db.Save(user).Error
}

// DeleteByUserID removes a user by their public identifier.
func (r *Repository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&entities.User{}).Error
}

// Count returns the number of registered users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
