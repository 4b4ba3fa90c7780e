// Package cloudchaser собирает основное HTTP-приложение: хранилище,
// миграции, кэш, брокер уведомлений, сервисы и маршруты.
package cloudchaser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/cloud-chaser/internal/cache"
	"github.com/magabrotheeeer/cloud-chaser/internal/config"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/jwt"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/migrations"
	"github.com/magabrotheeeer/cloud-chaser/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/cloud-chaser/internal/services/auth"
	campaignservice "github.com/magabrotheeeer/cloud-chaser/internal/services/campaign"
	catalogservice "github.com/magabrotheeeer/cloud-chaser/internal/services/catalog"
	clientservice "github.com/magabrotheeeer/cloud-chaser/internal/services/client"
	subscriptionservice "github.com/magabrotheeeer/cloud-chaser/internal/services/subscription"
	"github.com/magabrotheeeer/cloud-chaser/internal/storage/repository"
)

// App основное HTTP-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает хранилище, прогоняет миграции,
// поднимает кэш и брокер, собирает сервисы и маршруты.
// Брокер необязателен: при ошибке подключения приложение стартует
// без публикации событий уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var (
		conn      *amqp.Connection
		ch        *amqp.Channel
		publisher *rabbitmq.NotifyPublisher
	)
	conn, err = rabbitmq.Connect(cfg.AddressRabbitMQ, cfg.RetriesRabbitMQ, cfg.DelayRabbitMQ)
	if err != nil {
		logger.Warn("rabbitmq unavailable, notifications disabled", sl.Err(err))
	} else {
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		publisher = rabbitmq.NewNotifyPublisher(ch)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	var authPublisher authservice.Publisher
	var campaignPublisher campaignservice.Publisher
	if publisher != nil {
		authPublisher = publisher
		campaignPublisher = publisher
	}

	authService := authservice.NewAuthService(db, jwtMaker, authPublisher, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, cacheRedis, logger)
	campaignService := campaignservice.NewCampaignService(db, campaignPublisher, logger)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	clientService := clientservice.NewClientService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Subscription: subscriptionService,
		Campaign:     campaignService,
		Catalog:      catalogService,
		Client:       clientService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста
// или ошибки сервера. Остановка graceful, с тайм-аутом.
func (a *App) Run(ctx context.Context) error {
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
		if a.ch != nil {
			_ = a.ch.Close()
		}
		if a.conn != nil {
			_ = a.conn.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
