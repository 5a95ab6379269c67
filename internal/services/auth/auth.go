// Package auth реализует вход операторов панели управления: проверку пароля
// по bcrypt-хэшу из базы и выдачу JWT с ролью.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/solarclean/reservation-backend/internal/lib/jwt"
	"github.com/solarclean/reservation-backend/internal/lib/password"
	"github.com/solarclean/reservation-backend/internal/models"
)

// ErrInvalidCredentials — имя оператора не найдено или пароль не совпал.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminRepository определяет методы хранилища для учётных записей операторов.
type AdminRepository interface {
	GetAdminUser(ctx context.Context, username string) (*models.AdminUser, error)
}

// Service реализует аутентификацию операторов.
type Service struct {
	repo  AdminRepository
	maker jwt.Maker
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo AdminRepository, maker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		maker: maker,
		log:   log,
	}
}

// Login проверяет учётные данные и возвращает подписанный JWT и роль.
// Неизвестное имя и неверный пароль неразличимы для вызывающего.
func (s *Service) Login(ctx context.Context, username, pass string) (string, string, error) {
	const op = "auth.Login"

	u, err := s.repo.GetAdminUser(ctx, username)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err := password.CompareHash(u.PasswordHash, pass); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.maker.GenerateToken(u.Username, u.Role)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, u.Role, nil
}
