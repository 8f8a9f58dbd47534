package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/openshelf/librarium/internal/config"
	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
)

// Validation patterns
var (
	userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrAuthRequired     = errors.New("authentication required")
	ErrInvalidRole      = errors.New("invalid role")
	ErrUserIDRequired   = errors.New("user id is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUserIDInvalid    = errors.New("user id must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid     = errors.New("invalid email format")
)

// Service handles authentication over the users repository.
type Service struct {
	users  *users.Repository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(repo *users.Repository, cfg config.Auth) *Service {
	return &Service{
		users:  repo,
		config: cfg,
	}
}

// Register creates a new account with password authentication.
func (s *Service) Register(userID, email, password string, role entities.UserRole) (*entities.User, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	if !userIDPattern.MatchString(userID) {
		return nil, ErrUserIDInvalid
	}

	// RFC 5321 limits addresses to 254 octets
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	switch role {
	case entities.UserRoleMember, entities.UserRoleLibrarian, entities.UserRoleAdmin:
		// Valid
	default:
		return nil, ErrInvalidRole
	}

	if _, err := s.users.FindByUserID(userID); err == nil {
		return nil, ErrUserExists
	}
	if _, err := s.users.FindByEmailAddress(email); err == nil {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		UserID:       userID,
		EmailAddress: email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user. The identifier may
// be either the public user id or the email address.
func (s *Service) Authenticate(identifier, password string) (*entities.User, error) {
	user, err := s.users.FindByUserID(identifier)
	if errors.Is(err, users.ErrNotFound) {
		user, err = s.users.FindByEmailAddress(identifier)
	}
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return user, nil
}

// GetUser retrieves an account by its public user id.
func (s *Service) GetUser(userID string) (*entities.User, error) {
	user, err := s.users.FindByUserID(userID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword updates an account's password after verifying the old one.
func (s *Service) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := CheckPassword(oldPassword, user.PasswordHash); err != nil {
		return err
	}

	newHash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = newHash
	return s.users.Update(user)
}

// HasUsers returns true if any accounts exist.
func (s *Service) HasUsers() (bool, error) {
	count, err := s.users.Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsAuthEnabled returns true if authentication is required.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}
