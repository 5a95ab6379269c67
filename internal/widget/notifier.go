// Package widget уведомляет внешний виджет клиента о смене доступа.
// Вызов выполняется только для клиентов с настроенным endpoint и ограничен
// таймаутом, чтобы один недоступный адрес не останавливал обработку.
package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Event — тело webhook-запроса к виджету клиента.
type Event struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Disabled   bool   `json:"disabled"`
	AuthToken  string `json:"auth_token"`
	Timestamp  string `json:"timestamp"`
}

// Notifier отправляет webhook-уведомления виджетам клиентов.
type Notifier struct {
	authToken  string
	httpClient *http.Client
}

// NewNotifier создаёт Notifier с общим токеном авторизации.
func NewNotifier(authToken string) *Notifier {
	return &Notifier{
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify отправляет событие на endpoint клиента. Ошибка возвращается
// вызывающему, который логирует её и продолжает работу: уведомление
// виджета никогда не блокирует основную операцию.
func (n *Notifier) Notify(ctx context.Context, endpoint, clientID, clientName string, disabled bool) error {
	event := Event{
		ClientID:   clientID,
		ClientName: clientName,
		Disabled:   disabled,
		AuthToken:  n.authToken,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(event); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("unexpected status: " + resp.Status)
	}
	return nil
}
