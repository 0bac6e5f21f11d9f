package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"authd/config"
	"authd/internal/domain/service"
	"authd/internal/infra/persistence/memory"
	"authd/internal/usecase"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// plainHasher is a transparent stand-in for bcrypt so tests stay fast.
type plainHasher struct {
	mu          sync.Mutex
	dummyChecks int
}

func (h *plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *plainHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

func (h *plainHasher) DummyCheck(string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dummyChecks++
}

func (h *plainHasher) DummyChecks() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.dummyChecks
}

// sequenceTokenGenerator mints predictable tokens: token-1, token-2, ...
type sequenceTokenGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *sequenceTokenGenerator) NewVerificationToken() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++

	return fmt.Sprintf("token-%d", g.n), nil
}

// capturePublisher records published events on a channel so tests can wait
// for the detached dispatch goroutine.
type capturePublisher struct {
	events chan *service.VerificationEvent
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{events: make(chan *service.VerificationEvent, 16)}
}

func (p *capturePublisher) PublishVerificationEvent(_ context.Context, event *service.VerificationEvent) error {
	p.events <- event

	return nil
}

func (p *capturePublisher) Close() error {
	return nil
}

func (p *capturePublisher) waitEvent(t *testing.T) *service.VerificationEvent {
	t.Helper()

	select {
	case event := <-p.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for verification event")

		return nil
	}
}

func (p *capturePublisher) assertNoEvent(t *testing.T) {
	t.Helper()

	select {
	case event := <-p.events:
		t.Fatalf("unexpected verification event for %s", event.Email)
	case <-time.After(50 * time.Millisecond):
	}
}

type testEnv struct {
	store     *memory.Store
	clock     *fakeClock
	hasher    *plainHasher
	tokens    *sequenceTokenGenerator
	publisher *capturePublisher
	accounts  usecase.AccountUsecase
	auth      usecase.AuthUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Verification: &config.VerificationConfig{
			TokenTTL:       10 * time.Minute,
			ResendCooldown: 5 * time.Minute,
			BaseURL:        "http://localhost:8080",
		},
		Auth: &config.AuthConfig{
			SessionTokenTTL: 15 * time.Minute,
		},
	}

	env := &testEnv{
		store:     memory.NewStore(),
		clock:     newFakeClock(),
		hasher:    &plainHasher{},
		tokens:    &sequenceTokenGenerator{},
		publisher: newCapturePublisher(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	txManager := memory.NewTransactionManager(env.store)

	env.accounts = NewAccountService(AccountServiceParams{
		TxManager:      txManager,
		Hasher:         env.hasher,
		TokenGenerator: env.tokens,
		Publisher:      env.publisher,
		Clock:          env.clock,
		Config:         cfg,
		Logger:         logger,
	})
	env.auth = NewAuthService(AuthServiceParams{
		TxManager:      txManager,
		Hasher:         env.hasher,
		SessionTokens:  &staticSessionTokens{ttl: cfg.Auth.SessionTokenTTL},
		AccountUsecase: env.accounts,
		Logger:         logger,
	})

	return env
}

// staticSessionTokens issues predictable tokens without real signing.
type staticSessionTokens struct {
	ttl time.Duration
}

func (s *staticSessionTokens) IssueSessionToken(email string) (string, error) {
	return "session-for-" + email, nil
}

func (s *staticSessionTokens) ValidateSessionToken(tokenString string) (*service.SessionClaims, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *staticSessionTokens) SessionTokenDuration() time.Duration {
	return s.ttl
}
