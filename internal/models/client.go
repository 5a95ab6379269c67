// Package models содержит доменные структуры: клиентов с абонементами,
// бронирования и вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Планы абонементов и соответствующие интервалы оплаты.
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// Client представляет клиента с абонементом на обслуживание.
// Все даты хранятся как time.Time, усечённые до дня (UTC).
// NextPaymentDate — единственный источник истины о дате следующего платежа.
type Client struct {
	ID                  string     // Уникальный идентификатор клиента (uuid)
	FullName            string     // Полное имя
	Phone               string     // Телефон для WhatsApp-уведомлений
	Email               string     // Электронная почта
	SignupDate          time.Time  // Дата регистрации, якорь платёжного цикла
	Plan                string     // Тип абонемента: monthly или yearly
	NextPaymentDate     time.Time  // Дата следующего платежа
	IdentityRef         *string    // Ссылка на аккаунт во внешнем identity-провайдере
	AccountDisabled     bool       // Аккаунт отключён за неуплату
	AccountDisabledDate *time.Time // Дата отключения аккаунта
	WidgetDisabled      bool       // Внешний виджет клиента отключён
	WidgetEndpoint      *string    // URL виджета клиента (если настроен)
}

// IdentityLinked сообщает, привязан ли клиент к аккаунту identity-провайдера.
func (c *Client) IdentityLinked() bool {
	return c.IdentityRef != nil && *c.IdentityRef != ""
}

// DummyClient используется для приёма данных регистрации из JSON-запроса,
// прежде чем конвертировать их в Client. Даты приходят строками.
type DummyClient struct {
	FullName   string `json:"full_name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	SignupDate string `json:"signup_date" validate:"required,datetime=2006-01-02"`
	Plan       string `json:"plan" validate:"required,oneof=monthly yearly"`
}
