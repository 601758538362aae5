// Package auth provides the login gate in front of the ledger: password
// accounts and signed session tokens.
package auth

import (
	"context"

	"github.com/debty-app/debty/internal/models"
)

// Authenticator owns user accounts. The account ID it hands out is the
// owner ID every ledger is keyed by.
type Authenticator interface {
	// Register creates an account. The email is normalized first, and a
	// taken email fails with ErrEmailExists.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate checks a login. Unknown email and wrong credential both
	// fail with ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// Lookup returns the user with the given ID, or ErrUserNotFound.
	Lookup(ctx context.Context, userID string) (*models.User, error)

	// ValidateCredential reports ErrWeakPassword for unacceptable credentials.
	ValidateCredential(credential string) error
}
