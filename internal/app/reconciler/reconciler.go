// Package reconciler содержит приложение фонового воркера сверки платежей.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/solarclean/reservation-backend/internal/config"
	"github.com/solarclean/reservation-backend/internal/identity"
	"github.com/solarclean/reservation-backend/internal/notify"
	"github.com/solarclean/reservation-backend/internal/rabbitmq"
	reconcileservice "github.com/solarclean/reservation-backend/internal/services/reconcile"
	"github.com/solarclean/reservation-backend/internal/storage/repository"
)

// App представляет приложение воркера сверки платежей.
type App struct {
	engine   *reconcileservice.Engine
	interval time.Duration
	conn     *amqp.Connection
	ch       *amqp.Channel
	db       *repository.Storage
	logger   *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения воркера.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	identityClient := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey)
	queueNotifier := notify.NewQueueNotifier(ch)
	engine := reconcileservice.NewEngine(db, identityClient, queueNotifier, logger)

	return &App{
		engine:   engine,
		interval: cfg.ReconcileInterval,
		conn:     conn,
		ch:       ch,
		db:       db,
		logger:   logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает периодическую сверку платежей до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.engine.RunDaily(ctx, a.interval)

	<-ctx.Done()

	a.logger.Info("shutting down reconciler")

	closeResources(a.ch, a.conn, a.logger)
	_ = a.db.DB.Close()
	return nil
}
