// Package reconcile содержит движок сверки платежей: классификацию клиентов
// по срокам оплаты и каскадные действия по просрочке. Отключение аккаунта
// выполняется не более одного раза на эпизод просрочки (страж — флаг
// account_disabled), напоминания повторяются каждый запуск, пока клиент
// не оплатит.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/solarclean/reservation-backend/internal/lib/billing"
	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/metrics"
	"github.com/solarclean/reservation-backend/internal/models"
)

// Ошибки ручных операций включения и отключения.
var (
	// ErrIdentityNotLinked — у клиента нет привязанного аккаунта провайдера.
	ErrIdentityNotLinked = errors.New("client has no linked identity account")
	// ErrAlreadyDisabled — аккаунт клиента уже отключён.
	ErrAlreadyDisabled = errors.New("client account already disabled")
)

// ClientRepository определяет методы хранилища, нужные движку сверки.
type ClientRepository interface {
	// FindClientsDueSoon возвращает клиентов с датой платежа, равной переданной.
	FindClientsDueSoon(ctx context.Context, date time.Time) ([]*models.Client, error)
	// FindClientsOverdue возвращает клиентов с датой платежа раньше переданной.
	FindClientsOverdue(ctx context.Context, date time.Time) ([]*models.Client, error)
	// ReadClient возвращает клиента по ID.
	ReadClient(ctx context.Context, id string) (*models.Client, error)
	// MarkAccountDisabled выставляет флаг и дату отключения.
	MarkAccountDisabled(ctx context.Context, id string, date time.Time) error
	// ClearAccountDisabled снимает флаг и дату отключения одной операцией.
	ClearAccountDisabled(ctx context.Context, id string) error
}

// IdentityProvider определяет операции внешнего identity-провайдера.
type IdentityProvider interface {
	Disable(ctx context.Context, ref string) error
	Enable(ctx context.Context, ref string) error
}

// Notifier отправляет уведомления клиентам. Доставка best-effort:
// ошибки логируются движком и никогда не прерывают обработку.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// Summary — итог одного запуска сверки.
type Summary struct {
	DueSoon           int `json:"due_soon"`
	Overdue           int `json:"overdue"`
	NotificationsSent int `json:"notifications_sent"`
	Disabled          int `json:"disabled"`
}

// Engine реализует сверку платежей и ручные операции с доступом клиента.
type Engine struct {
	repo     ClientRepository
	identity IdentityProvider
	notifier Notifier
	log      *slog.Logger
}

// NewEngine создает новый экземпляр Engine.
func NewEngine(repo ClientRepository, identity IdentityProvider, notifier Notifier, log *slog.Logger) *Engine {
	return &Engine{
		repo:     repo,
		identity: identity,
		notifier: notifier,
		log:      log,
	}
}

// Run выполняет один проход сверки на дату today. Ошибка выборки клиентов
// фатальна для запуска; ошибки по отдельным клиентам логируются, и клиент
// обрабатывается заново при следующем запуске.
func (e *Engine) Run(ctx context.Context, today time.Time) (Summary, error) {
	const op = "reconcile.Run"
	var sum Summary

	today = billing.Day(today)
	dueSoonDate := today.AddDate(0, 0, 2)

	dueSoon, err := e.repo.FindClientsDueSoon(ctx, dueSoonDate)
	if err != nil {
		return sum, fmt.Errorf("%s: %w", op, err)
	}
	overdue, err := e.repo.FindClientsOverdue(ctx, today)
	if err != nil {
		return sum, fmt.Errorf("%s: %w", op, err)
	}
	metrics.ReconcileRuns.Inc()
	e.log.Info("reconciliation run started",
		slog.Int("due_soon", len(dueSoon)), slog.Int("overdue", len(overdue)))

	sum.DueSoon = len(dueSoon)
	sum.Overdue = len(overdue)

	for _, c := range dueSoon {
		if e.send(ctx, c, models.NotificationDueSoon, dueSoonText(c)) {
			sum.NotificationsSent++
		}
	}

	for _, c := range overdue {
		days := billing.DaysOverdue(c.NextPaymentDate, today)
		if e.send(ctx, c, models.NotificationOverdue, overdueText(c, days)) {
			sum.NotificationsSent++
		}

		if !c.IdentityLinked() || c.AccountDisabled {
			continue
		}
		if err := e.identity.Disable(ctx, *c.IdentityRef); err != nil {
			e.log.Error("failed to disable identity account, will retry next run",
				slog.String("client_id", c.ID), sl.Err(err))
			continue
		}
		if err := e.repo.MarkAccountDisabled(ctx, c.ID, today); err != nil {
			e.log.Error("failed to mark account disabled, will retry next run",
				slog.String("client_id", c.ID), sl.Err(err))
			continue
		}
		sum.Disabled++
		metrics.AccountsDisabled.Inc()
		if e.send(ctx, c, models.NotificationDisabled, disabledText(c)) {
			sum.NotificationsSent++
		}
	}

	e.log.Info("reconciliation run finished",
		slog.Int("notifications_sent", sum.NotificationsSent),
		slog.Int("disabled", sum.Disabled))
	return sum, nil
}

// RunDaily запускает сверку сразу и далее по тикеру, пока контекст жив.
func (e *Engine) RunDaily(ctx context.Context, interval time.Duration) {
	e.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.runOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (e *Engine) runOnce(ctx context.Context) {
	if _, err := e.Run(ctx, time.Now().UTC()); err != nil {
		e.log.Error("reconciliation run failed", sl.Err(err))
	}
}

// DisableClient отключает аккаунт одного клиента вручную, минуя классификацию
// по датам. Требует привязанного аккаунта провайдера и снятого флага.
func (e *Engine) DisableClient(ctx context.Context, id string) error {
	const op = "reconcile.DisableClient"

	c, err := e.repo.ReadClient(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !c.IdentityLinked() {
		return fmt.Errorf("%s: %w", op, ErrIdentityNotLinked)
	}
	if c.AccountDisabled {
		return fmt.Errorf("%s: %w", op, ErrAlreadyDisabled)
	}

	if err := e.identity.Disable(ctx, *c.IdentityRef); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := e.repo.MarkAccountDisabled(ctx, id, billing.Day(time.Now().UTC())); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.AccountsDisabled.Inc()
	e.send(ctx, c, models.NotificationDisabled, disabledText(c))
	return nil
}

// EnableClient включает аккаунт клиента обратно. Флаг и дата отключения
// очищаются только после успешного вызова провайдера: при ошибке оба поля
// остаются нетронутыми.
func (e *Engine) EnableClient(ctx context.Context, id string) error {
	const op = "reconcile.EnableClient"

	c, err := e.repo.ReadClient(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !c.IdentityLinked() {
		return fmt.Errorf("%s: %w", op, ErrIdentityNotLinked)
	}

	if err := e.identity.Enable(ctx, *c.IdentityRef); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := e.repo.ClearAccountDisabled(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (e *Engine) send(ctx context.Context, c *models.Client, kind, text string) bool {
	err := e.notifier.Notify(ctx, models.Notification{
		ClientID: c.ID,
		Phone:    c.Phone,
		Kind:     kind,
		Text:     text,
	})
	if err != nil {
		e.log.Error("failed to send notification",
			slog.String("client_id", c.ID), slog.String("kind", kind), sl.Err(err))
		return false
	}
	metrics.NotificationsSent.WithLabelValues(kind).Inc()
	return true
}

func dueSoonText(c *models.Client) string {
	return fmt.Sprintf("Здравствуйте, %s! Платёж по вашему абонементу назначен на %s, через два дня. Пожалуйста, оплатите его заранее.",
		c.FullName, c.NextPaymentDate.Format("2006-01-02"))
}

func overdueText(c *models.Client, days int) string {
	return fmt.Sprintf("Здравствуйте, %s! Ваш платёж просрочен на %d дн. (срок был %s). Пожалуйста, оплатите абонемент, иначе доступ будет отключён.",
		c.FullName, days, c.NextPaymentDate.Format("2006-01-02"))
}

func disabledText(c *models.Client) string {
	return fmt.Sprintf("Здравствуйте, %s! Ваш аккаунт отключён за неуплату. Доступ восстановится после оплаты абонемента.",
		c.FullName)
}
