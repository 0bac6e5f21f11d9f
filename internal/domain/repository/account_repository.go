// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authd/internal/domain/entity"
)

// Domain-specific errors for account persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAccountNotFound is returned when no account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")
	// ErrVerificationTokenNotFound is returned when no account holds the given verification token.
	ErrVerificationTokenNotFound = errors.New("verification token not found")
	// ErrDuplicateEmail is returned when creating an account whose email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, never on a concrete implementation.
type AccountRepository interface {
	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByEmailForUpdate retrieves an account by email and locks its row for
	// the duration of the surrounding transaction, serializing concurrent
	// read-check-write sequences on the same record.
	FindByEmailForUpdate(ctx context.Context, email string) (*entity.Account, error)

	// FindByVerificationToken retrieves the account holding the given active
	// verification token, if any.
	FindByVerificationToken(ctx context.Context, token string) (*entity.Account, error)

	// Create persists a new account entity to the storage.
	Create(ctx context.Context, account *entity.Account) error

	// Update modifies an existing account entity in the storage.
	Update(ctx context.Context, account *entity.Account) error
}
