// Package client содержит бизнес-логику управления клиентами с абонементами:
// регистрацию с привязкой к identity-провайдеру, подтверждение платежей,
// смену типа абонемента и ручное управление внешним виджетом.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/solarclean/reservation-backend/internal/identity"
	"github.com/solarclean/reservation-backend/internal/lib/billing"
	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/models"
)

// Repository определяет методы хранилища для работы с клиентами.
type Repository interface {
	CreateClient(ctx context.Context, c models.Client) error
	ReadClient(ctx context.Context, id string) (*models.Client, error)
	ListClients(ctx context.Context, limit, offset int) ([]*models.Client, error)
	DeleteClient(ctx context.Context, id string) (int, error)
	UpdateNextPaymentDate(ctx context.Context, id string, date time.Time) error
	UpdatePlan(ctx context.Context, id, plan string, next time.Time) error
	SetIdentityRef(ctx context.Context, id, ref string) error
	UnlinkIdentity(ctx context.Context, id string) error
	SetWidgetDisabled(ctx context.Context, id string, disabled bool) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// IdentityFinder ищет аккаунты у identity-провайдера при регистрации.
type IdentityFinder interface {
	GetByEmail(ctx context.Context, email string) (*identity.Account, error)
}

// WidgetNotifier уведомляет внешний виджет клиента о смене доступа.
type WidgetNotifier interface {
	Notify(ctx context.Context, endpoint, clientID, clientName string, disabled bool) error
}

// Service реализует бизнес-логику работы с клиентами, включая кеширование.
type Service struct {
	repo   Repository
	cache  Cache
	finder IdentityFinder
	widget WidgetNotifier
	log    *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, finder IdentityFinder, widget WidgetNotifier, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		finder: finder,
		widget: widget,
		log:    log,
	}
}

// Register создаёт нового клиента. Дата первого платежа выводится из даты
// регистрации и типа абонемента. Если у identity-провайдера уже есть аккаунт
// с такой почтой, он привязывается сразу; ошибка поиска не мешает регистрации.
func (s *Service) Register(ctx context.Context, req models.DummyClient) (string, error) {
	signupDate, err := time.Parse("2006-01-02", req.SignupDate)
	if err != nil {
		return "", fmt.Errorf("invalid signup date: %w", err)
	}

	c := models.Client{
		ID:              uuid.New().String(),
		FullName:        req.FullName,
		Phone:           req.Phone,
		Email:           req.Email,
		SignupDate:      billing.Day(signupDate),
		Plan:            req.Plan,
		NextPaymentDate: billing.NextFromSignup(signupDate, req.Plan, signupDate),
	}

	acc, err := s.finder.GetByEmail(ctx, req.Email)
	if err != nil {
		s.log.Warn("identity lookup failed, client left unlinked",
			slog.String("email", req.Email), sl.Err(err))
	} else if acc != nil {
		c.IdentityRef = &acc.Ref
	}

	if err := s.repo.CreateClient(ctx, c); err != nil {
		return "", err
	}
	s.log.Info("registered new client", slog.String("id", c.ID))

	cacheKey := fmt.Sprintf("client:%s", c.ID)
	if err := s.cache.Set(cacheKey, c, time.Hour); err != nil {
		s.log.Warn("failed to cache client", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return c.ID, nil
}

// Read возвращает клиента по ID, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, id string) (*models.Client, error) {
	var result *models.Client
	cacheKey := fmt.Sprintf("client:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}

// List возвращает список клиентов с пагинацией.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Client, error) {
	return s.repo.ListClients(ctx, limit, offset)
}

// ConfirmPayment подтверждает оплату: дата следующего платежа двигается на
// один интервал вперёд от прежнего значения, независимо от сегодняшнего дня.
// Если клиент пропустил несколько циклов, каждое подтверждение закрывает
// ровно один из них.
func (s *Service) ConfirmPayment(ctx context.Context, id string) (time.Time, error) {
	c, err := s.repo.ReadClient(ctx, id)
	if err != nil {
		return time.Time{}, err
	}

	next := billing.AdvanceOnPayment(c.NextPaymentDate, c.Plan)
	if err := s.repo.UpdateNextPaymentDate(ctx, id, next); err != nil {
		return time.Time{}, err
	}
	s.invalidate(id)
	s.log.Info("payment confirmed", slog.String("id", id),
		slog.String("next_payment_date", next.Format("2006-01-02")))
	return next, nil
}

// ChangePlan меняет тип абонемента и пересчитывает дату платежа от даты
// регистрации: новая дата — ближайшая точка решётки строго в будущем.
func (s *Service) ChangePlan(ctx context.Context, id, plan string) (time.Time, error) {
	c, err := s.repo.ReadClient(ctx, id)
	if err != nil {
		return time.Time{}, err
	}

	next := billing.NextFromSignup(c.SignupDate, plan, time.Now().UTC())
	if err := s.repo.UpdatePlan(ctx, id, plan, next); err != nil {
		return time.Time{}, err
	}
	s.invalidate(id)
	return next, nil
}

// LinkIdentity привязывает клиента к аккаунту identity-провайдера по его
// почте. Нужен, когда аккаунт появился у провайдера уже после регистрации
// или привязка была снята вручную.
func (s *Service) LinkIdentity(ctx context.Context, id string) (string, error) {
	c, err := s.repo.ReadClient(ctx, id)
	if err != nil {
		return "", err
	}

	acc, err := s.finder.GetByEmail(ctx, c.Email)
	if err != nil {
		return "", fmt.Errorf("identity lookup: %w", err)
	}

	if err := s.repo.SetIdentityRef(ctx, id, acc.Ref); err != nil {
		return "", err
	}
	s.invalidate(id)
	s.log.Info("linked client to identity account",
		slog.String("id", id), slog.String("ref", acc.Ref))
	return acc.Ref, nil
}

// UnlinkIdentity отвязывает клиента от identity-провайдера и снимает флаги
// отключения; остальные поля клиента не меняются. Аккаунт у провайдера
// при этом не удаляется.
func (s *Service) UnlinkIdentity(ctx context.Context, id string) error {
	if err := s.repo.UnlinkIdentity(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

// Delete удаляет клиента и возвращает количество удалённых записей.
func (s *Service) Delete(ctx context.Context, id string) (int, error) {
	s.invalidate(id)
	count, err := s.repo.DeleteClient(ctx, id)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ToggleWidget вручную переключает внешний виджет клиента и, если у клиента
// настроен endpoint, уведомляет его webhook-запросом. Ошибка уведомления
// логируется и не отменяет сохранённое состояние.
func (s *Service) ToggleWidget(ctx context.Context, id string, disabled bool) error {
	c, err := s.repo.ReadClient(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SetWidgetDisabled(ctx, id, disabled); err != nil {
		return err
	}
	s.invalidate(id)

	if c.WidgetEndpoint == nil || *c.WidgetEndpoint == "" {
		return nil
	}
	if err := s.widget.Notify(ctx, *c.WidgetEndpoint, c.ID, c.FullName, disabled); err != nil {
		s.log.Error("failed to notify widget", slog.String("id", id), sl.Err(err))
	}
	return nil
}

func (s *Service) invalidate(id string) {
	cacheKey := fmt.Sprintf("client:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
