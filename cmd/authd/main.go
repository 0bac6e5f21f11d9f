package main

import (
	"context"
	"log/slog"
	"os"

	"authd/config"
	"authd/internal/delivery"
	"authd/internal/delivery/http"
	"authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/router/handler"
	"authd/internal/domain/repository"
	"authd/internal/infra/auth"
	"authd/internal/infra/clock"
	logs "authd/internal/infra/log"
	"authd/internal/infra/mail"
	"authd/internal/infra/persistence/memory"
	"authd/internal/infra/persistence/postgres"
	"authd/internal/infra/pubsub"
	"authd/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newTransactionManager,
		),
	)
}

// newTransactionManager picks the persistence backend: PostgreSQL when
// configured, otherwise the in-memory store so local runs need no database.
func newTransactionManager(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (repository.TransactionManager, error) {
	if cfg.Postgres == nil {
		logger.Warn("Postgres not configured, using in-memory account store")

		return memory.NewTransactionManager(memory.NewStore()), nil
	}

	db, err := postgres.New(postgres.Params{
		Lifecycle: lc,
		Config:    cfg,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	return postgres.NewTransactionManager(db), nil
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			clock.New,
			auth.NewBcryptHasher,
			auth.NewJWTService,
			auth.NewVerificationTokenGenerator,
			mail.NewMailSender,
			pubsub.NewEventPublisher,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewAuthService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
