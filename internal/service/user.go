package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"corkboard/internal/model"
	"corkboard/internal/repo"
)

const (
	loginMinLen = 3
	loginMaxLen = 64
	// bcrypt ignores input past 72 bytes, so longer passwords are rejected
	// rather than silently truncated.
	passwordMinLen = 8
	passwordMaxLen = 72
	bioMaxLen      = 1000
)

// dummyHash is a bcrypt hash of an unused value. Login burns a compare
// against it when the login is unknown, so the unknown-login and
// wrong-password paths take comparable time.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// UserService owns registration and credential verification.
type UserService struct {
	repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Register creates an account, storing only the bcrypt hash of the password.
func (s *UserService) Register(ctx context.Context, login, password, bio string) (*model.User, error) {
	if err := validateRegistration(login, password, bio); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check login: %w", err)
	}
	if existing != nil {
		return nil, ErrLoginTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, &model.User{Login: login, Password: string(hash), Bio: bio})
	if err != nil {
		// a concurrent registration may win the unique index race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLoginTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials. Unknown login and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, login, password string) (*model.User, error) {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID fetches a profile for an already-authenticated user id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateBio edits the free-text biography of the authenticated user.
func (s *UserService) UpdateBio(ctx context.Context, id int64, bio string) (*model.User, error) {
	if utf8.RuneCountInString(bio) > bioMaxLen {
		return nil, fmt.Errorf("%w: bio longer than %d characters", ErrInvalidInput, bioMaxLen)
	}
	if err := s.repo.UpdateBio(ctx, id, bio); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update bio: %w", err)
	}
	return s.GetByID(ctx, id)
}

func validateRegistration(login, password, bio string) error {
	n := utf8.RuneCountInString(login)
	if n < loginMinLen || n > loginMaxLen {
		return fmt.Errorf("%w: login must be %d-%d characters", ErrInvalidInput, loginMinLen, loginMaxLen)
	}
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return fmt.Errorf("%w: password must be %d-%d bytes", ErrInvalidInput, passwordMinLen, passwordMaxLen)
	}
	if utf8.RuneCountInString(bio) > bioMaxLen {
		return fmt.Errorf("%w: bio longer than %d characters", ErrInvalidInput, bioMaxLen)
	}
	return nil
}
