package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookmaster/bookmaster/internal/config"
	"github.com/bookmaster/bookmaster/internal/database/users"
	"github.com/bookmaster/bookmaster/internal/entities"
)

var (
	ErrFieldsRequired     = errors.New("all fields are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// Service handles registration and credential verification.
type Service struct {
	users  *users.Repository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(usersRepo *users.Repository, cfg config.Auth) *Service {
	return &Service{
		users:  usersRepo,
		config: cfg,
	}
}

// Register creates a new account. All three fields must be non-blank and
// the password must match its confirmation.
func (s *Service) Register(username, password, confirm string) (*entities.User, error) {
	if username == "" || password == "" || confirm == "" {
		return nil, ErrFieldsRequired
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}

	taken, err := s.users.Exists(username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(username, hash)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user. An unknown
// username and a wrong password both return ErrInvalidCredentials so the
// response does not reveal which accounts exist.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
