// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"authd/config"
	deliverycontext "authd/internal/delivery/context"
	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/lifecycle"
	"authd/internal/domain/repository"
	"authd/internal/domain/service"
	"authd/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Response messages returned by the verification lifecycle. Handlers pass
// them through verbatim so API consumers see stable wording.
const (
	msgRegistered      = "User registered successfully. Please check your email for verification."
	msgVerified        = "Account verified successfully. You can now login."
	msgTokenExpired    = "Token expired. Please login to receive a new verification email."
	msgResent          = "Verification email sent successfully."
	msgAlreadyVerified = "Account is already verified."
)

// accountService implements the AccountUsecase interface. It owns the account
// verification lifecycle: every token the system hands out and every state
// transition of the Verified flag goes through here.
type accountService struct {
	txManager      repository.TransactionManager
	hasher         service.PasswordHasher
	tokenGenerator service.VerificationTokenGenerator
	publisher      service.EventPublisher
	clock          service.Clock
	tokenTTL       time.Duration
	resendCooldown time.Duration
	logger         *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	Hasher         service.PasswordHasher
	TokenGenerator service.VerificationTokenGenerator
	Publisher      service.EventPublisher
	Clock          service.Clock
	Config         *config.Config
	Logger         *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:      params.TxManager,
		hasher:         params.Hasher,
		tokenGenerator: params.TokenGenerator,
		publisher:      params.Publisher,
		clock:          params.Clock,
		tokenTTL:       params.Config.Verification.TokenTTL,
		resendCooldown: params.Config.Verification.ResendCooldown,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an unverified account with a fresh verification token and
// dispatches the verification mail after the transaction commits.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	// Hash outside the transaction: bcrypt is CPU-bound and must not hold
	// a database connection hostage.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	token, err := srv.tokenGenerator.NewVerificationToken()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate verification token during registration")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		_, findErr := accountRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return errors.Wrap(domainerrors.ErrAlreadyRegistered, "email already registered")
		}
		if !errors.Is(findErr, repository.ErrAccountNotFound) {
			return errors.Wrap(findErr, "failed to check existing account")
		}

		now := srv.clock.Now()
		newAccount := &entity.Account{
			Email:        input.Email,
			PasswordHash: hashedPassword,
		}
		newAccount.AttachVerificationToken(token, now.Add(srv.tokenTTL), now)

		if createErr := accountRepo.Create(ctx, newAccount); createErr != nil {
			// A concurrent registration can slip past the existence check;
			// the unique constraint is the real arbiter.
			if errors.Is(createErr, repository.ErrDuplicateEmail) {
				return errors.Wrap(domainerrors.ErrAlreadyRegistered, "email already registered")
			}

			return errors.Wrap(createErr, "failed to create account during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.dispatchVerificationMail(ctx, input.Email, token)
	srv.log(ctx).Debug("Registration completed", slog.String("email", input.Email))

	return &usecase.RegisterOutput{Message: msgRegistered}, nil
}

// Verify redeems a verification token. An expired token is a soft outcome:
// the account keeps its token state so a later login or resend can mint a
// replacement, and an attacker learns nothing beyond what a valid-looking
// token already told them.
func (srv *accountService) Verify(ctx context.Context, token string) (*usecase.VerifyOutput, error) {
	var output *usecase.VerifyOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, findErr := accountRepo.FindByVerificationToken(ctx, token)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrVerificationTokenNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidVerificationToken, "verification token not found")
			}

			return errors.Wrap(findErr, "failed to find account by verification token")
		}

		if account.TokenExpired(srv.clock.Now()) {
			output = &usecase.VerifyOutput{Expired: true, Message: msgTokenExpired}

			return nil
		}

		account.MarkVerified()
		if updateErr := accountRepo.Update(ctx, account); updateErr != nil {
			return errors.Wrap(updateErr, "failed to persist verified account")
		}

		output = &usecase.VerifyOutput{Verified: true, Message: msgVerified}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Verification failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute verification transaction")
	}

	if output.Verified {
		srv.log(ctx).Info("Account verified")
	} else {
		srv.log(ctx).Info("Verification token expired")
	}

	return output, nil
}

// ResendVerification replaces the pending verification token with a fresh one
// and dispatches a new mail, subject to the resend cooldown. The row lock
// serializes concurrent resends for the same account so exactly one wins.
func (srv *accountService) ResendVerification(ctx context.Context, email string) (*usecase.ResendOutput, error) {
	var output *usecase.ResendOutput
	var token string

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, findErr := accountRepo.FindByEmailForUpdate(ctx, email)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrAccountNotFound) {
				return errors.Wrap(domainerrors.ErrAccountNotFound, "no account for email")
			}

			return errors.Wrap(findErr, "failed to load account for resend")
		}

		if account.Verified {
			output = &usecase.ResendOutput{AlreadyVerified: true, Message: msgAlreadyVerified}

			return nil
		}

		now := srv.clock.Now()
		if account.LastNotifiedAt != nil {
			elapsed := now.Sub(*account.LastNotifiedAt)
			if elapsed < srv.resendCooldown {
				return domainerrors.NewCooldownError(srv.resendCooldown - elapsed)
			}
		}

		freshToken, genErr := srv.tokenGenerator.NewVerificationToken()
		if genErr != nil {
			return errors.Wrap(genErr, "failed to generate verification token for resend")
		}

		// The previous token, expired or not, dies here.
		account.AttachVerificationToken(freshToken, now.Add(srv.tokenTTL), now)
		if updateErr := accountRepo.Update(ctx, account); updateErr != nil {
			return errors.Wrap(updateErr, "failed to persist regenerated verification token")
		}

		token = freshToken
		output = &usecase.ResendOutput{Message: msgResent}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Resend verification failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute resend verification transaction")
	}

	if token != "" {
		srv.dispatchVerificationMail(ctx, email, token)
	}

	return output, nil
}

// dispatchVerificationMail hands the verification event to the notification
// path on a detached goroutine. Delivery failures are logged and swallowed:
// the account mutation that triggered the mail has already committed and must
// not be unwound by a notification hiccup.
func (srv *accountService) dispatchVerificationMail(ctx context.Context, email, token string) {
	event := &service.VerificationEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		Email:     email,
		Token:     token,
	}
	logger := srv.log(ctx)

	go func() {
		dispatchCtx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
		defer cancel()

		if err := srv.publisher.PublishVerificationEvent(dispatchCtx, event); err != nil {
			logger.Error("Failed to publish verification event",
				slog.String("email", email),
				slog.Any("error", err))
		}
	}()
}
