// Package auth issues and checks credentials for ledger API callers.
package auth

import (
	"context"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator registers accounts and verifies credentials.
// The credential format depends on the implementation.
type Authenticator interface {
	// Register creates a new account. Returns ErrEmailExists when the email is taken.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user owning email when credential matches.
	// Any mismatch, including an unknown email, yields ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the implementation's rules.
	ValidateCredential(credential string) error
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
