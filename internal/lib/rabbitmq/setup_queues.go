package rabbitmq

// Exchange и ключи маршрутизации уведомлений.
const (
	NotificationsExchange = "notifications"
	WhatsAppRoutingKey    = "whatsapp"
	WhatsAppQueue         = "notification.whatsapp"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые должен объявить канал.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: WhatsAppQueue, RoutingKey: WhatsAppRoutingKey},
	}
}
