// Package identity реализует клиент внешнего identity-провайдера,
// в котором заведены аккаунты клиентов. Провайдер умеет отключать,
// включать и удалять аккаунты и искать их по email.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// ErrAccountNotFound возвращается, когда аккаунт отсутствует у провайдера.
var ErrAccountNotFound = errors.New("identity account not found")

// Client инкапсулирует HTTP-доступ к identity-провайдеру.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент identity-провайдера.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrAccountNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status: " + resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Disable отключает аккаунт провайдера по его ссылке.
func (c *Client) Disable(ctx context.Context, ref string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/accounts/"+url.PathEscape(ref),
		UpdateAccountRequest{Disabled: true})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Enable включает ранее отключённый аккаунт провайдера.
func (c *Client) Enable(ctx context.Context, ref string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/accounts/"+url.PathEscape(ref),
		UpdateAccountRequest{Disabled: false})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Delete удаляет аккаунт провайдера.
func (c *Client) Delete(ctx context.Context, ref string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/accounts/"+url.PathEscape(ref), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Get возвращает аккаунт провайдера по ссылке.
func (c *Client) Get(ctx context.Context, ref string) (*Account, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/accounts/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, err
	}
	var acc Account
	if err := c.do(req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// GetByEmail ищет аккаунт провайдера по адресу почты.
func (c *Client) GetByEmail(ctx context.Context, email string) (*Account, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/accounts?email="+url.QueryEscape(email), nil)
	if err != nil {
		return nil, err
	}
	var acc Account
	if err := c.do(req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
