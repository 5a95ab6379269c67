package models

// Виды уведомлений, публикуемых движком сверки в очередь.
const (
	NotificationDueSoon  = "due_soon"
	NotificationOverdue  = "overdue"
	NotificationDisabled = "account_disabled"
	NotificationBooking  = "booking"
)

// Notification — сообщение для отправки клиенту через WhatsApp-релей.
// Публикуется в RabbitMQ и потребляется воркером notification-sender.
type Notification struct {
	ClientID string `json:"client_id"`
	Phone    string `json:"phone"`
	Kind     string `json:"kind"`
	Text     string `json:"text"`
}
