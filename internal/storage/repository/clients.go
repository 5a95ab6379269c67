package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solarclean/reservation-backend/internal/models"
)

const clientColumns = `id, full_name, phone, email, signup_date, plan, next_payment_date,
	identity_ref, account_disabled, account_disabled_date, widget_disabled, widget_endpoint`

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	var c models.Client
	if err := row.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.SignupDate, &c.Plan,
		&c.NextPaymentDate, &c.IdentityRef, &c.AccountDisabled, &c.AccountDisabledDate,
		&c.WidgetDisabled, &c.WidgetEndpoint); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClient вставляет нового клиента. ID назначается заранее (uuid).
func (s *Storage) CreateClient(ctx context.Context, c models.Client) error {
	const op = "storage.CreateClient"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clients (id, full_name, phone, email, signup_date, plan,
			      next_payment_date, identity_ref, account_disabled, widget_disabled, widget_endpoint)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := s.DB.ExecContext(ctx, query,
		c.ID, c.FullName, c.Phone, c.Email, c.SignupDate, c.Plan,
		c.NextPaymentDate, c.IdentityRef, c.AccountDisabled, c.WidgetDisabled, c.WidgetEndpoint)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadClient возвращает клиента по его ID.
func (s *Storage) ReadClient(ctx context.Context, id string) (*models.Client, error) {
	const op = "storage.ReadClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	result, err := scanClient(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListClients возвращает список клиентов с пагинацией.
func (s *Storage) ListClients(ctx context.Context, limit, offset int) ([]*models.Client, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + clientColumns + `
			  FROM clients
			  ORDER BY signup_date, id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Client
	for rows.Next() {
		item, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteClient удаляет клиента по ID и возвращает количество удалённых строк.
// Каскадной очистки аккаунта в identity-провайдере нет, для этого есть отвязка.
func (s *Storage) DeleteClient(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM clients WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindClientsDueSoon находит клиентов, чья дата платежа совпадает с переданной.
// Движок сверки передаёт сюда дату "сегодня плюс два дня".
func (s *Storage) FindClientsDueSoon(ctx context.Context, date time.Time) ([]*models.Client, error) {
	const op = "storage.FindClientsDueSoon"
	return s.findClientsByPaymentDate(ctx, op,
		`SELECT `+clientColumns+` FROM clients WHERE next_payment_date = $1`, date)
}

// FindClientsOverdue находит клиентов с датой платежа строго раньше переданной.
func (s *Storage) FindClientsOverdue(ctx context.Context, date time.Time) ([]*models.Client, error) {
	const op = "storage.FindClientsOverdue"
	return s.findClientsByPaymentDate(ctx, op,
		`SELECT `+clientColumns+` FROM clients WHERE next_payment_date < $1`, date)
}

func (s *Storage) findClientsByPaymentDate(ctx context.Context, op, query string, date time.Time) ([]*models.Client, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Client
	for rows.Next() {
		item, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkAccountDisabled выставляет флаг отключения аккаунта и дату отключения.
func (s *Storage) MarkAccountDisabled(ctx context.Context, id string, date time.Time) error {
	const op = "storage.MarkAccountDisabled"
	return s.execOnClient(ctx, op,
		`UPDATE clients SET account_disabled = true, account_disabled_date = $1 WHERE id = $2`,
		date, id)
}

// ClearAccountDisabled снимает флаг отключения и очищает дату одной операцией,
// чтобы поля не могли разойтись.
func (s *Storage) ClearAccountDisabled(ctx context.Context, id string) error {
	const op = "storage.ClearAccountDisabled"
	return s.execOnClient(ctx, op,
		`UPDATE clients SET account_disabled = false, account_disabled_date = NULL WHERE id = $1`,
		id)
}

// UpdateNextPaymentDate обновляет дату следующего платежа клиента.
func (s *Storage) UpdateNextPaymentDate(ctx context.Context, id string, date time.Time) error {
	const op = "storage.UpdateNextPaymentDate"
	return s.execOnClient(ctx, op,
		`UPDATE clients SET next_payment_date = $1 WHERE id = $2`, date, id)
}

// UpdatePlan меняет тип абонемента вместе с пересчитанной датой платежа.
func (s *Storage) UpdatePlan(ctx context.Context, id, plan string, next time.Time) error {
	const op = "storage.UpdatePlan"
	return s.execOnClient(ctx, op,
		`UPDATE clients SET plan = $1, next_payment_date = $2 WHERE id = $3`, plan, next, id)
}

// SetIdentityRef привязывает клиента к аккаунту identity-провайдера.
func (s *Storage) SetIdentityRef(ctx context.Context, id, ref string) error {
	const op = "storage.SetIdentityRef"
	return s.execOnClient(ctx, op,
		`UPDATE clients SET identity_ref = $1 WHERE id = $2`, ref, id)
}

// UnlinkIdentity удаляет привязку к identity-провайдеру вместе с флагами
// отключения, остальные поля клиента не трогает.
func (s *Storage) UnlinkIdentity(ctx context.Context, id string) error {
	const op = "storage.UnlinkIdentity"
	return s.execOnClient(ctx, op,
		`UPDATE clients
		 SET identity_ref = NULL, account_disabled = false, account_disabled_date = NULL
		 WHERE id = $1`, id)
}

// SetWidgetDisabled сохраняет состояние внешнего виджета клиента.
func (s *Storage) SetWidgetDisabled(ctx context.Context, id string, disabled bool) error {
	const op = "storage.SetWidgetDisabled"
	return s.execOnClient(ctx, op,
		`UPDATE clients SET widget_disabled = $1 WHERE id = $2`, disabled, id)
}

func (s *Storage) execOnClient(ctx context.Context, op, query string, args ...any) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
