package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDb(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(`
        CREATE TABLE clients (
            id UUID PRIMARY KEY,
            full_name TEXT NOT NULL,
            phone TEXT NOT NULL,
            email TEXT NOT NULL,
            signup_date DATE NOT NULL,
            plan TEXT NOT NULL,
            next_payment_date DATE NOT NULL,
            identity_ref TEXT,
            account_disabled BOOLEAN NOT NULL DEFAULT FALSE,
            account_disabled_date DATE,
            widget_disabled BOOLEAN NOT NULL DEFAULT FALSE,
            widget_endpoint TEXT
        );

        CREATE TABLE reservations (
            id SERIAL PRIMARY KEY,
            client_id UUID NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
            date DATE NOT NULL,
            time_slot TEXT NOT NULL,
            longitude DOUBLE PRECISION NOT NULL,
            latitude DOUBLE PRECISION NOT NULL,
            number_of_panels INT NOT NULL,
            status TEXT NOT NULL,
            UNIQUE (date, time_slot)
        );

        CREATE TABLE admin_users (
            username TEXT PRIMARY KEY,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'admin'
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		_ = postgresContainer.Terminate(ctx)
	}

	return storage, cleanup
}

func TestStorage_CreateAndReadClient(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	c := GetTestClientData()
	require.NoError(t, storage.CreateClient(context.Background(), c))

	got, err := storage.ReadClient(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.FullName, got.FullName)
	assert.Equal(t, c.Plan, got.Plan)
	assert.True(t, got.NextPaymentDate.Equal(c.NextPaymentDate))
	assert.Nil(t, got.IdentityRef)
	assert.False(t, got.AccountDisabled)

	_, err = storage.ReadClient(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_FindClientsByPaymentDate(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	dueSoon := GetTestClientData()
	dueSoon.Email = "duesoon@example.com"
	dueSoon.NextPaymentDate = today.AddDate(0, 0, 2)
	dueSoonID := factory.CreateClient(t, dueSoon)

	overdue := GetTestClientData()
	overdue.ID = uuid.New().String()
	overdue.Email = "overdue@example.com"
	overdue.NextPaymentDate = today.AddDate(0, 0, -3)
	overdueID := factory.CreateClient(t, overdue)

	current := GetTestClientData()
	current.ID = uuid.New().String()
	current.Email = "current@example.com"
	current.NextPaymentDate = today.AddDate(0, 0, 10)
	factory.CreateClient(t, current)

	gotDueSoon, err := storage.FindClientsDueSoon(context.Background(), today.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, gotDueSoon, 1)
	assert.Equal(t, dueSoonID, gotDueSoon[0].ID)

	gotOverdue, err := storage.FindClientsOverdue(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, gotOverdue, 1)
	assert.Equal(t, overdueID, gotOverdue[0].ID)
}

func TestStorage_AccountDisabledFlags(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	c := GetTestClientData()
	ref := "firebase-uid-1"
	c.IdentityRef = &ref
	id := factory.CreateClient(t, c)

	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, storage.MarkAccountDisabled(context.Background(), id, date))
	VerifyClientDisabled(t, storage, id, true)

	got, err := storage.ReadClient(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got.AccountDisabledDate)
	assert.True(t, got.AccountDisabledDate.Equal(date))

	require.NoError(t, storage.ClearAccountDisabled(context.Background(), id))
	VerifyClientDisabled(t, storage, id, false)

	got, err = storage.ReadClient(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got.AccountDisabledDate)

	err = storage.MarkAccountDisabled(context.Background(), uuid.New().String(), date)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_UnlinkIdentity(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	c := GetTestClientData()
	ref := "firebase-uid-2"
	c.IdentityRef = &ref
	c.AccountDisabled = true
	disabledDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c.AccountDisabledDate = &disabledDate
	id := factory.CreateClient(t, c)

	require.NoError(t, storage.UnlinkIdentity(context.Background(), id))

	got, err := storage.ReadClient(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got.IdentityRef)
	assert.False(t, got.AccountDisabled)
	assert.Nil(t, got.AccountDisabledDate)
	// Остальные поля не затронуты.
	assert.Equal(t, c.FullName, got.FullName)
}

func TestStorage_CreateReservation_SlotConflict(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	clientID := factory.CreateClient(t, GetTestClientData())

	r := GetTestReservationData(clientID)
	id, err := storage.CreateReservation(context.Background(), r)
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = storage.CreateReservation(context.Background(), r)
	assert.ErrorIs(t, err, ErrSlotTaken)

	other := r
	other.TimeSlot = "12:00-14:00"
	id2, err := storage.CreateReservation(context.Background(), other)
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
}

func TestStorage_GetAdminUser(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateAdminUser(t, "admin", "hashedpassword", "admin")

	got, err := storage.GetAdminUser(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)
	assert.Equal(t, "hashedpassword", got.PasswordHash)

	_, err = storage.GetAdminUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
