// Package accessgate собирает HTTP-сервис контроля доступа: хранилище,
// кеш, сессионного провайдера, бизнес-сервисы и маршруты.
package accessgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/access-gate/internal/cache"
	"github.com/magabrotheeeer/access-gate/internal/config"
	"github.com/magabrotheeeer/access-gate/internal/lib/jwt"
	"github.com/magabrotheeeer/access-gate/internal/migrations"
	"github.com/magabrotheeeer/access-gate/internal/rabbitmq"
	affiliateservice "github.com/magabrotheeeer/access-gate/internal/services/affiliate"
	authservice "github.com/magabrotheeeer/access-gate/internal/services/auth"
	subscriptionservice "github.com/magabrotheeeer/access-gate/internal/services/subscription"
	"github.com/magabrotheeeer/access-gate/internal/session"
	"github.com/magabrotheeeer/access-gate/internal/storage/repository"
)

const (
	rabbitMaxRetries = 5
	rabbitRetryDelay = 3 * time.Second
)

// App представляет приложение сервиса контроля доступа.
type App struct {
	server           *http.Server
	logger           *slog.Logger
	db               *repository.Storage
	conn             *amqp.Connection
	ch               *amqp.Channel
	referralQueue    string
	affiliateService *affiliateservice.AffiliateService
}

// New создает приложение: подключает хранилище, применяет миграции,
// инициализирует кеш и собирает маршруты. Подключение к брокеру
// реферальных событий выполняется только при заданном адресе.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	oracle := session.NewJWTOracle(jwtMaker)

	authService := authservice.NewAuthService(db, jwtMaker)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, cacheRedis, logger, cfg.Billing.Period)
	affiliateService := affiliateservice.NewAffiliateService(db, logger)

	app := &App{
		logger:           logger,
		db:               db,
		affiliateService: affiliateService,
	}

	if cfg.RabbitMQ.Address != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.Address, rabbitMaxRetries, rabbitRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		queues := []rabbitmq.QueueConfig{
			{QueueName: cfg.RabbitMQ.Queue, RoutingKey: cfg.RabbitMQ.RoutingKey},
		}
		ch, err := rabbitmq.SetupChannel(conn, queues)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
		}
		app.conn = conn
		app.ch = ch
		app.referralQueue = cfg.RabbitMQ.Queue
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, oracle, authService, subscriptionService, affiliateService)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return app, nil
}

// Run запускает HTTP-сервер и потребителя реферальных событий,
// останавливая их по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	if a.ch != nil {
		err := rabbitmq.ConsumerMessage(ctx, a.ch, a.referralQueue, a.affiliateService.HandleReferralEvent)
		if err != nil {
			a.logger.Error("failed to start referral events consumer", slog.Any("err", err))
			return err
		}
		a.logger.Info("referral events consumer started", slog.String("queue", a.referralQueue))
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeResources()
		return err
	}
}

func (a *App) closeResources() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", slog.Any("err", err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", slog.Any("err", err))
		}
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.Any("err", err))
	}
}
