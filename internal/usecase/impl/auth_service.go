package impl

import (
	"context"
	"log/slog"

	deliverycontext "authd/internal/delivery/context"
	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/repository"
	"authd/internal/domain/service"
	"authd/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const msgLoginSuccessful = "Login successful"

// bearerTokenType is the token_type value of the issued credential, per RFC 6750.
const bearerTokenType = "Bearer"

// authService implements the AuthUsecase interface. It is the only path that
// issues session tokens.
type authService struct {
	txManager      repository.TransactionManager
	hasher         service.PasswordHasher
	sessionTokens  service.SessionTokenService
	accountUsecase usecase.AccountUsecase
	logger         *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	Hasher         service.PasswordHasher
	SessionTokens  service.SessionTokenService
	AccountUsecase usecase.AccountUsecase
	Logger         *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:      params.TxManager,
		hasher:         params.Hasher,
		sessionTokens:  params.SessionTokens,
		accountUsecase: params.AccountUsecase,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login verifies credentials and issues a session token for a verified
// account. Unknown email and wrong password collapse into the same error, and
// the unknown-email path burns an equivalent bcrypt comparison so response
// timing does not reveal which case occurred.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	account, err := srv.loadLoginAccount(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.hasher.DummyCheck(input.Password)
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load account for login")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	// Credentials are correct but the account is unverified: refuse the
	// session and push a fresh verification mail instead.
	if !account.Verified {
		srv.resendAfterUnverifiedLogin(ctx, input.Email)

		return nil, errors.Wrap(domainerrors.ErrAccountNotVerified, "login refused for unverified account")
	}

	accessToken, err := srv.sessionTokens.IssueSessionToken(account.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Debug("Login successful", slog.String("email", input.Email))

	return &usecase.LoginOutput{
		Message:     msgLoginSuccessful,
		AccessToken: accessToken,
		TokenType:   bearerTokenType,
		ExpiresIn:   int64(srv.sessionTokens.SessionTokenDuration().Seconds()),
	}, nil
}

func (srv *authService) loadLoginAccount(ctx context.Context, email string) (*entity.Account, error) {
	var account *entity.Account

	// Load from primary in a short transaction to avoid stale reads on replicas.
	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var findErr error
		account, findErr = repoFactory.AccountRepo().FindByEmail(ctx, email)

		return findErr
	}); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to execute login account transaction")
	}

	return account, nil
}

// resendAfterUnverifiedLogin triggers a verification resend as a best-effort
// side effect of a refused login. A cooldown hit here is expected noise, not a
// failure: the account holder still gets the not-verified response either way.
func (srv *authService) resendAfterUnverifiedLogin(ctx context.Context, email string) {
	if _, err := srv.accountUsecase.ResendVerification(ctx, email); err != nil {
		var cooldownErr *domainerrors.CooldownError
		if errors.As(err, &cooldownErr) {
			srv.log(ctx).Debug("Verification resend on login still cooling down",
				slog.String("email", email),
				slog.Int("remainingMinutes", cooldownErr.RemainingMinutes()))

			return
		}

		srv.log(ctx).Error("Failed to resend verification after unverified login",
			slog.String("email", email),
			slog.Any("error", err))
	}
}
