package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/debty-app/debty/internal/models"
	"github.com/debty-app/debty/internal/storage"
)

const userColumns = "id, email, display_name, password_hash, created_at, updated_at"

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to create user %s: %w", user.Email, storage.ErrDuplicateEmail)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

// getUser looks a user up by a unique column. column is never user input.
func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = ?",
		value,
	).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return user, nil
}

// isUniqueViolation reports whether err is SQLite rejecting a duplicate key.
// The driver enables extended result codes; the bare code covers a
// connection that has them off.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlitedriver.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT:
		return true
	}
	return false
}
