// Package reservation содержит бизнес-логику бронирования выездов бригады:
// проверку занятости слота и уведомление клиента о создании записи.
package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/solarclean/reservation-backend/internal/lib/billing"
	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/models"
)

// Repository определяет методы хранилища для работы с бронированиями.
type Repository interface {
	CreateReservation(ctx context.Context, r models.Reservation) (int, error)
	ReadReservation(ctx context.Context, id int) (*models.Reservation, error)
	ListReservations(ctx context.Context, limit, offset int) ([]*models.Reservation, error)
	DeleteReservation(ctx context.Context, id int) (int, error)
	ReadClient(ctx context.Context, id string) (*models.Client, error)
}

// Notifier отправляет клиенту подтверждение бронирования. Доставка
// best-effort: ошибка логируется и не отменяет созданную запись.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// Service реализует бизнес-логику бронирований.
type Service struct {
	repo     Repository
	notifier Notifier
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// Create создаёт бронирование со статусом pending. Если слот на эту дату и
// время уже занят, возвращается ошибка хранилища ErrSlotTaken. После создания
// клиенту отправляется уведомление с датой и слотом.
func (s *Service) Create(ctx context.Context, req models.DummyReservation) (int, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return 0, fmt.Errorf("invalid reservation date: %w", err)
	}

	r := models.Reservation{
		ClientID:       req.ClientID,
		Date:           billing.Day(date),
		TimeSlot:       req.TimeSlot,
		Longitude:      req.Longitude,
		Latitude:       req.Latitude,
		NumberOfPanels: req.NumberOfPanels,
		Status:         models.ReservationPending,
	}

	id, err := s.repo.CreateReservation(ctx, r)
	if err != nil {
		return 0, err
	}
	s.log.Info("created reservation", slog.Int("id", id),
		slog.String("client_id", r.ClientID), slog.String("time_slot", r.TimeSlot))

	s.notifyClient(ctx, r)
	return id, nil
}

// Read возвращает бронирование по ID.
func (s *Service) Read(ctx context.Context, id int) (*models.Reservation, error) {
	return s.repo.ReadReservation(ctx, id)
}

// List возвращает бронирования с пагинацией.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Reservation, error) {
	return s.repo.ListReservations(ctx, limit, offset)
}

// Delete удаляет бронирование и возвращает количество удалённых записей.
func (s *Service) Delete(ctx context.Context, id int) (int, error) {
	return s.repo.DeleteReservation(ctx, id)
}

func (s *Service) notifyClient(ctx context.Context, r models.Reservation) {
	c, err := s.repo.ReadClient(ctx, r.ClientID)
	if err != nil {
		s.log.Warn("failed to read client for booking notification",
			slog.String("client_id", r.ClientID), sl.Err(err))
		return
	}

	n := models.Notification{
		ClientID: c.ID,
		Phone:    c.Phone,
		Kind:     models.NotificationBooking,
		Text: fmt.Sprintf("Здравствуйте, %s! Ваша заявка принята: выезд бригады %s, слот %s.",
			c.FullName, r.Date.Format("2006-01-02"), r.TimeSlot),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Error("failed to send booking notification",
			slog.String("client_id", c.ID), sl.Err(err))
	}
}
