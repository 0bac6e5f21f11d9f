// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/repository"
	"authd/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// FindByEmailForUpdate retrieves an account by email with a row lock, so that
// concurrent read-check-write sequences on the same record run one at a time.
// Must run inside a transaction for the lock to mean anything.
func (repo *accountRepository) FindByEmailForUpdate(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("email = ?", email).
		First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email for update")
	}

	return toAccountDomain(&accountM), nil
}

// FindByVerificationToken retrieves the account holding the given active verification token.
func (repo *accountRepository) FindByVerificationToken(ctx context.Context, token string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVerificationTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by verification token")
	}

	return toAccountDomain(&accountM), nil
}

// Create persists a new account entity to the database.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEmail
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrAccountCreationFailed.WrapMessage("missing required account information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	// Propagate generated ID and timestamps back to the entity.
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update modifies an existing account entity in the database. Save writes all
// columns, which is what the lifecycle needs: clearing the token on verify
// means writing NULLs, and Updates-style partial writes would skip them.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Save(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAccountUpdateFailed.WrapMessage("conflicting unique value")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrAccountUpdateFailed.WrapMessage("missing required account information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update account")
	}

	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:                data.ID,
		Email:             data.Email,
		PasswordHash:      data.PasswordHash,
		Verified:          data.Verified,
		VerificationToken: data.VerificationToken,
		TokenExpiresAt:    data.TokenExpiresAt,
		LastNotifiedAt:    data.LastNotifiedAt,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:                data.ID,
		Email:             data.Email,
		PasswordHash:      data.PasswordHash,
		Verified:          data.Verified,
		VerificationToken: data.VerificationToken,
		TokenExpiresAt:    data.TokenExpiresAt,
		LastNotifiedAt:    data.LastNotifiedAt,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}
