package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solarclean/reservation-backend/internal/models"
)

// CreateReservation вставляет новое бронирование и возвращает его ID.
// Слот на дату и время может быть занят только одной записью.
func (s *Storage) CreateReservation(ctx context.Context, r models.Reservation) (int, error) {
	const op = "storage.CreateReservation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var taken bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE date = $1 AND time_slot = $2)`,
		r.Date, r.TimeSlot).Scan(&taken)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return 0, fmt.Errorf("%s: %w", op, ErrSlotTaken)
	}

	query := `INSERT INTO reservations (client_id, date, time_slot, longitude, latitude,
			      number_of_panels, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		r.ClientID, r.Date, r.TimeSlot, r.Longitude, r.Latitude,
		r.NumberOfPanels, r.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadReservation возвращает бронирование по его ID.
func (s *Storage) ReadReservation(ctx context.Context, id int) (*models.Reservation, error) {
	const op = "storage.ReadReservation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, client_id, date, time_slot, longitude, latitude, number_of_panels, status
			  FROM reservations WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var r models.Reservation
	err := row.Scan(&r.ID, &r.ClientID, &r.Date, &r.TimeSlot, &r.Longitude, &r.Latitude,
		&r.NumberOfPanels, &r.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &r, nil
}

// ListReservations возвращает бронирования, отсортированные по дате, с пагинацией.
func (s *Storage) ListReservations(ctx context.Context, limit, offset int) ([]*models.Reservation, error) {
	const op = "storage.ListReservations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, client_id, date, time_slot, longitude, latitude, number_of_panels, status
			  FROM reservations
			  ORDER BY date, time_slot
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Reservation
	for rows.Next() {
		var item models.Reservation
		if err := rows.Scan(&item.ID, &item.ClientID, &item.Date, &item.TimeSlot,
			&item.Longitude, &item.Latitude, &item.NumberOfPanels, &item.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteReservation удаляет бронирование и возвращает количество удалённых строк.
func (s *Storage) DeleteReservation(ctx context.Context, id int) (int, error) {
	const op = "storage.DeleteReservation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
