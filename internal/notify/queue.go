package notify

import (
	"context"

	"github.com/streadway/amqp"

	"github.com/solarclean/reservation-backend/internal/lib/rabbitmq"
	"github.com/solarclean/reservation-backend/internal/models"
)

// QueueNotifier публикует уведомления в RabbitMQ; фактическую доставку
// в WhatsApp выполняет воркер notification-sender.
type QueueNotifier struct {
	ch *amqp.Channel
}

// NewQueueNotifier создаёт нотификатор поверх открытого канала RabbitMQ.
func NewQueueNotifier(ch *amqp.Channel) *QueueNotifier {
	return &QueueNotifier{ch: ch}
}

// Notify публикует одно уведомление в очередь WhatsApp-сообщений.
func (q *QueueNotifier) Notify(_ context.Context, n models.Notification) error {
	return rabbitmq.PublishMessage(q.ch, rabbitmq.NotificationsExchange, rabbitmq.WhatsAppRoutingKey, n)
}
