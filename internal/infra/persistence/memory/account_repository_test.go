package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"authd/internal/domain/entity"
	"authd/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, store *Store, email string) *entity.Account {
	t.Helper()

	account := &entity.Account{
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, NewAccountRepository(store).Create(context.Background(), account))

	return account
}

func TestStore_CreateAndFind(t *testing.T) {
	store := NewStore()
	repo := NewAccountRepository(store)
	seedAccount(t, store, "alice@example.com")

	found, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", found.Email)

	_, err = repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.True(t, errors.Is(err, repository.ErrAccountNotFound))
}

func TestStore_DuplicateEmail(t *testing.T) {
	store := NewStore()
	repo := NewAccountRepository(store)
	seedAccount(t, store, "alice@example.com")

	err := repo.Create(context.Background(), &entity.Account{Email: "alice@example.com"})
	assert.True(t, errors.Is(err, repository.ErrDuplicateEmail))
}

func TestStore_FindByVerificationToken(t *testing.T) {
	store := NewStore()
	repo := NewAccountRepository(store)

	account := seedAccount(t, store, "alice@example.com")
	account.AttachVerificationToken("the-token", time.Now().Add(10*time.Minute), time.Now())
	require.NoError(t, repo.Update(context.Background(), account))

	found, err := repo.FindByVerificationToken(context.Background(), "the-token")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	_, err = repo.FindByVerificationToken(context.Background(), "other-token")
	assert.True(t, errors.Is(err, repository.ErrVerificationTokenNotFound))
}

func TestStore_FindReturnsCopies(t *testing.T) {
	store := NewStore()
	repo := NewAccountRepository(store)
	seedAccount(t, store, "alice@example.com")

	first, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	// Mutating the returned entity must not leak into the store.
	first.Verified = true

	second, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.False(t, second.Verified)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	store := NewStore()
	txManager := NewTransactionManager(store)
	seedAccount(t, store, "alice@example.com")

	err := txManager.Execute(context.Background(), func(factory repository.RepositoryFactory) error {
		account, err := factory.AccountRepo().FindByEmailForUpdate(context.Background(), "alice@example.com")
		require.NoError(t, err)

		account.Verified = true
		require.NoError(t, factory.AccountRepo().Update(context.Background(), account))

		return errors.New("business rule failed")
	})
	require.Error(t, err)

	account, err := NewAccountRepository(store).FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.False(t, account.Verified, "rolled-back mutation leaked into the store")
}

func TestTransactionManager_SerializesReadCheckWrite(t *testing.T) {
	store := NewStore()
	txManager := NewTransactionManager(store)
	seedAccount(t, store, "alice@example.com")

	// Many concurrent transactions each try to claim the account if nobody
	// has. With serialized transactions exactly one claims it.
	const workers = 32
	var winners int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_ = txManager.Execute(context.Background(), func(factory repository.RepositoryFactory) error {
				account, err := factory.AccountRepo().FindByEmailForUpdate(context.Background(), "alice@example.com")
				if err != nil {
					return err
				}
				if account.Verified {
					return nil
				}

				account.Verified = true
				if err := factory.AccountRepo().Update(context.Background(), account); err != nil {
					return err
				}

				mu.Lock()
				winners++
				mu.Unlock()

				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), winners)
}
