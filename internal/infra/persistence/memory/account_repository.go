// Package memory provides an in-process implementation of the account
// persistence interfaces. It backs local development runs and the use case
// tests, with the same transactional semantics the PostgreSQL layer provides:
// mutations roll back when the callback fails, and concurrent
// read-check-write sequences are serialized.
package memory

import (
	"context"
	"sync"
	"time"

	"authd/internal/domain/entity"
	"authd/internal/domain/repository"

	"github.com/google/uuid"
)

// Store holds all accounts behind a single mutex. The coarse lock stands in
// for row-level FOR UPDATE locking: at this scale, whole-store serialization
// of transactions is indistinguishable from per-row serialization.
type Store struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*entity.Account
}

// NewStore creates an empty in-memory account store.
func NewStore() *Store {
	return &Store{accounts: make(map[uuid.UUID]*entity.Account)}
}

// NewTransactionManager returns a TransactionManager backed by the store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &memoryTransactionManager{store: store}
}

// NewAccountRepository returns a standalone repository for single operations
// outside a transaction. Each call takes the store lock individually.
func NewAccountRepository(store *Store) repository.AccountRepository {
	return &lockedRepository{store: store}
}

type memoryTransactionManager struct {
	store *Store
}

type memoryRepositoryFactory struct {
	repo repository.AccountRepository
}

func (f *memoryRepositoryFactory) AccountRepo() repository.AccountRepository {
	return f.repo
}

// Execute runs fn while holding the store lock, against a snapshot-backed
// repository. If fn fails, the snapshot is restored, discarding every
// mutation the callback made.
func (tm *memoryTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	snapshot := cloneAccounts(tm.store.accounts)

	factory := &memoryRepositoryFactory{repo: &unlockedRepository{store: tm.store}}
	if err := fn(factory); err != nil {
		tm.store.accounts = snapshot

		return err
	}

	return nil
}

// unlockedRepository operates on the store without taking the lock; it only
// exists inside Execute, which already holds it.
type unlockedRepository struct {
	store *Store
}

func (r *unlockedRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	for _, account := range r.store.accounts {
		if account.Email == email {
			return cloneAccount(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *unlockedRepository) FindByEmailForUpdate(ctx context.Context, email string) (*entity.Account, error) {
	// The transaction already holds the store lock, which subsumes a row lock.
	return r.FindByEmail(ctx, email)
}

func (r *unlockedRepository) FindByVerificationToken(_ context.Context, token string) (*entity.Account, error) {
	for _, account := range r.store.accounts {
		if account.VerificationToken != nil && *account.VerificationToken == token {
			return cloneAccount(account), nil
		}
	}

	return nil, repository.ErrVerificationTokenNotFound
}

func (r *unlockedRepository) Create(_ context.Context, account *entity.Account) error {
	for _, existing := range r.store.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.store.accounts[account.ID] = cloneAccount(account)

	return nil
}

func (r *unlockedRepository) Update(_ context.Context, account *entity.Account) error {
	if _, ok := r.store.accounts[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = time.Now()
	r.store.accounts[account.ID] = cloneAccount(account)

	return nil
}

// lockedRepository wraps every operation in the store lock for use outside
// transactions.
type lockedRepository struct {
	store *Store
}

func (r *lockedRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return (&unlockedRepository{store: r.store}).FindByEmail(ctx, email)
}

func (r *lockedRepository) FindByEmailForUpdate(ctx context.Context, email string) (*entity.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return (&unlockedRepository{store: r.store}).FindByEmailForUpdate(ctx, email)
}

func (r *lockedRepository) FindByVerificationToken(ctx context.Context, token string) (*entity.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return (&unlockedRepository{store: r.store}).FindByVerificationToken(ctx, token)
}

func (r *lockedRepository) Create(ctx context.Context, account *entity.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return (&unlockedRepository{store: r.store}).Create(ctx, account)
}

func (r *lockedRepository) Update(ctx context.Context, account *entity.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return (&unlockedRepository{store: r.store}).Update(ctx, account)
}

func cloneAccount(account *entity.Account) *entity.Account {
	cloned := *account
	if account.VerificationToken != nil {
		token := *account.VerificationToken
		cloned.VerificationToken = &token
	}
	if account.TokenExpiresAt != nil {
		expiresAt := *account.TokenExpiresAt
		cloned.TokenExpiresAt = &expiresAt
	}
	if account.LastNotifiedAt != nil {
		notifiedAt := *account.LastNotifiedAt
		cloned.LastNotifiedAt = &notifiedAt
	}

	return &cloned
}

func cloneAccounts(accounts map[uuid.UUID]*entity.Account) map[uuid.UUID]*entity.Account {
	cloned := make(map[uuid.UUID]*entity.Account, len(accounts))
	for id, account := range accounts {
		cloned[id] = cloneAccount(account)
	}

	return cloned
}
