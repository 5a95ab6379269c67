package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/solarclean/reservation-backend/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateClient создает тестового клиента и возвращает его ID.
func (f *TestDataFactory) CreateClient(t *testing.T, c models.Client) string {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := f.storage.DB.Exec(`INSERT INTO clients
		(id, full_name, phone, email, signup_date, plan, next_payment_date,
		 identity_ref, account_disabled, account_disabled_date, widget_disabled, widget_endpoint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.FullName, c.Phone, c.Email, c.SignupDate, c.Plan, c.NextPaymentDate,
		c.IdentityRef, c.AccountDisabled, c.AccountDisabledDate, c.WidgetDisabled, c.WidgetEndpoint)
	require.NoError(t, err)
	return c.ID
}

// CreateAdminUser создает тестовую учётную запись оператора.
func (f *TestDataFactory) CreateAdminUser(t *testing.T, username, passwordHash, role string) {
	_, err := f.storage.DB.Exec(`INSERT INTO admin_users (username, password_hash, role)
		VALUES ($1, $2, $3)`,
		username, passwordHash, role)
	require.NoError(t, err)
}

// GetTestClientData возвращает стандартные тестовые данные клиента.
func GetTestClientData() models.Client {
	signup := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Client{
		ID:              uuid.New().String(),
		FullName:        "Amer Kiwan",
		Phone:           "+962790000001",
		Email:           "amer@example.com",
		SignupDate:      signup,
		Plan:            models.PlanMonthly,
		NextPaymentDate: signup.AddDate(0, 0, 30),
	}
}

// GetTestReservationData возвращает стандартные тестовые данные бронирования.
func GetTestReservationData(clientID string) models.Reservation {
	return models.Reservation{
		ClientID:       clientID,
		Date:           time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:       "10:00-12:00",
		Longitude:      35.93,
		Latitude:       31.96,
		NumberOfPanels: 12,
		Status:         models.ReservationPending,
	}
}

// VerifyClientDisabled проверяет флаг отключения аккаунта в БД.
func VerifyClientDisabled(t *testing.T, s *Storage, id string, disabled bool) {
	var got bool
	err := s.DB.QueryRow(`SELECT account_disabled FROM clients WHERE id = $1`, id).Scan(&got)
	require.NoError(t, err)
	require.Equal(t, disabled, got)
}
