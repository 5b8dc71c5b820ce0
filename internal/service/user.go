package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/brewlog/brewlog/internal/auth"
	"github.com/brewlog/brewlog/internal/cache"
	"github.com/brewlog/brewlog/internal/model"
	"github.com/brewlog/brewlog/internal/repository"
)

// User service errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNameTaken      = errors.New("name already taken")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	minPasswordLength = 6
	maxNameLength     = 50
)

// UserService handles registration, login and account lifecycle.
type UserService struct {
	repo       *repository.Repository
	cache      *cache.Cache
	sessionTTL time.Duration
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, c *cache.Cache, sessionTTL time.Duration) *UserService {
	return &UserService{
		repo:       repo,
		cache:      c,
		sessionTTL: sessionTTL,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new account with an argon2id password hash.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := validateUserProfile(name, email); err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, invalidInput(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	// Pre-check uniqueness before the hash work. The database constraints
	// remain the authority under concurrent registration.
	if taken, err := s.repo.UserEmailExists(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, ErrEmailExists
	}
	if taken, err := s.repo.UserNameExists(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to check name: %w", err)
	} else if taken {
		return nil, ErrUserNameTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrUserNameTaken):
			return nil, ErrUserNameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a session token stored in Redis.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &cache.Session{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.cache.SetSession(ctx, token, session, s.sessionTTL); err != nil {
		return nil, "", fmt.Errorf("failed to store session: %w", err)
	}

	return user, token, nil
}

// Logout revokes a session token. Unknown tokens are a no-op.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.cache.DeleteSession(ctx, token)
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput defines input for updating a profile.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// UpdateProfile updates the caller's name and email.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if err := validateUserProfile(user.Name, user.Email); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrUserNameTaken):
			return nil, ErrUserNameTaken
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the user and every bean and recipe they own in a
// single transaction, then revokes the presented session token.
func (s *UserService) DeleteAccount(ctx context.Context, userID, token string) error {
	if err := s.repo.DeleteUserCascade(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.Logout(ctx, token)
}

// validateUserProfile checks name and email constraints shared by register
// and profile update.
func validateUserProfile(name, email string) error {
	if name == "" {
		return invalidInput("Name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return invalidInput(fmt.Sprintf("Name must be at most %d characters", maxNameLength))
	}
	if email == "" {
		return invalidInput("Email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return invalidInput("Email is invalid")
	}
	return nil
}
