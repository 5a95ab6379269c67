// Package sender обрабатывает уведомления из очереди RabbitMQ и передаёт
// их в WhatsApp-релей.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/models"
)

// WhatsAppSender отправляет готовый текст сообщения клиенту.
type WhatsAppSender interface {
	Send(ctx context.Context, text string) error
}

// Service разбирает сообщения очереди и отправляет их через релей.
type Service struct {
	sender WhatsAppSender
	log    *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(sender WhatsAppSender, log *slog.Logger) *Service {
	return &Service{
		sender: sender,
		log:    log,
	}
}

// HandleMessage разбирает тело сообщения из очереди и отправляет уведомление.
// Невалидный JSON не возвращает ошибку, чтобы сообщение не зацикливалось
// в очереди; ошибка отправки возвращается для повторной доставки.
func (s *Service) HandleMessage(body []byte) error {
	const op = "sender.HandleMessage"

	var n models.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		s.log.Error("failed to unmarshal notification, dropping message", sl.Err(err))
		return nil
	}

	if err := s.sender.Send(context.Background(), n.Text); err != nil {
		s.log.Error("failed to send whatsapp message",
			slog.String("client_id", n.ClientID), slog.String("kind", n.Kind), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("notification delivered",
		slog.String("client_id", n.ClientID), slog.String("kind", n.Kind))
	return nil
}
