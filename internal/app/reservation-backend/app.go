package reservationbackend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/solarclean/reservation-backend/internal/cache"
	"github.com/solarclean/reservation-backend/internal/config"
	"github.com/solarclean/reservation-backend/internal/identity"
	"github.com/solarclean/reservation-backend/internal/lib/jwt"
	"github.com/solarclean/reservation-backend/internal/migrations"
	"github.com/solarclean/reservation-backend/internal/notify"
	"github.com/solarclean/reservation-backend/internal/rabbitmq"
	authservice "github.com/solarclean/reservation-backend/internal/services/auth"
	clientservice "github.com/solarclean/reservation-backend/internal/services/client"
	reconcileservice "github.com/solarclean/reservation-backend/internal/services/reconcile"
	reservationservice "github.com/solarclean/reservation-backend/internal/services/reservation"
	"github.com/solarclean/reservation-backend/internal/storage/repository"
	"github.com/solarclean/reservation-backend/internal/widget"
)

// App инкапсулирует HTTP-сервер и ресурсы основного приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает все зависимости основного приложения: хранилище с миграциями,
// кеш, брокер уведомлений, клиентов внешних сервисов и HTTP-маршруты.
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

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	identityClient := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey)
	widgetNotifier := widget.NewNotifier(cfg.WidgetAuthToken)
	queueNotifier := notify.NewQueueNotifier(ch)
	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewService(db, maker, logger)
	clientService := clientservice.NewService(db, cacheRedis, identityClient, widgetNotifier, logger)
	reservationService := reservationservice.NewService(db, queueNotifier, logger)
	engine := reconcileservice.NewEngine(db, identityClient, queueNotifier, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, maker, authService, clientService, reservationService, engine)

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

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
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
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		_ = a.db.DB.Close()
		return err
	}
}
