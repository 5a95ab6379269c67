// Package notify реализует отправку WhatsApp-сообщений через релей CallMeBot.
// Отправка всегда best-effort: ошибка возвращается вызывающему, который
// логирует её и никогда не прерывает основную операцию.
package notify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// WhatsAppSender отправляет текстовые сообщения через HTTP-релей.
type WhatsAppSender struct {
	apiURL     string
	phone      string
	apiKey     string
	httpClient *http.Client
}

// NewWhatsAppSender создаёт новый отправитель для номера phone с ключом apiKey.
func NewWhatsAppSender(apiURL, phone, apiKey string) *WhatsAppSender {
	return &WhatsAppSender{
		apiURL:     apiURL,
		phone:      phone,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send отправляет одно текстовое сообщение. Релей принимает GET-запрос
// с url-encoded текстом.
func (s *WhatsAppSender) Send(ctx context.Context, text string) error {
	params := url.Values{}
	params.Set("phone", s.phone)
	params.Set("text", text)
	params.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status: " + resp.Status)
	}
	return nil
}
