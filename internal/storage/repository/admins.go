package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solarclean/reservation-backend/internal/models"
)

// GetAdminUser возвращает учётную запись оператора по имени.
func (s *Storage) GetAdminUser(ctx context.Context, username string) (*models.AdminUser, error) {
	const op = "storage.GetAdminUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT username, password_hash, role FROM admin_users WHERE username = $1`
	row := s.DB.QueryRowContext(ctx, query, username)

	var u models.AdminUser
	err := row.Scan(&u.Username, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
