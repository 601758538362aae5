package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/debty-app/debty/internal/models"
	"github.com/debty-app/debty/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage storage.UserStore
	cost    int
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(users storage.UserStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: users,
		cost:    bcrypt.DefaultCost,
	}
}

// WithCost overrides the bcrypt cost, mainly to keep tests fast.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	a.cost = cost
	return a
}

// NormalizeEmail trims and lowercases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, credential string) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)

	existingUser, err := a.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, strings.TrimSpace(displayName), string(hashedPassword))
	if err := a.storage.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Lookup returns the user with the given ID.
func (a *PasswordAuthenticator) Lookup(ctx context.Context, userID string) (*models.User, error) {
	user, err := a.storage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
