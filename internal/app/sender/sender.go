// Package sender содержит приложение воркера доставки уведомлений.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/solarclean/reservation-backend/internal/config"
	librabbitmq "github.com/solarclean/reservation-backend/internal/lib/rabbitmq"
	"github.com/solarclean/reservation-backend/internal/notify"
	"github.com/solarclean/reservation-backend/internal/rabbitmq"
	senderservice "github.com/solarclean/reservation-backend/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	whatsappSender := notify.NewWhatsAppSender(cfg.WhatsAppAPIURL, cfg.WhatsAppPhone, cfg.WhatsAppAPIKey)
	senderService := senderservice.NewService(whatsappSender, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, librabbitmq.WhatsAppQueue, a.senderService.HandleMessage)
	if err != nil {
		a.logger.Error("failed to start whatsapp queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
