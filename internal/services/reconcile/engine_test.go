package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/solarclean/reservation-backend/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindClientsDueSoon(ctx context.Context, date time.Time) ([]*models.Client, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockRepository) FindClientsOverdue(ctx context.Context, date time.Time) ([]*models.Client, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockRepository) ReadClient(ctx context.Context, id string) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockRepository) MarkAccountDisabled(ctx context.Context, id string, date time.Time) error {
	args := m.Called(ctx, id, date)
	return args.Error(0)
}

func (m *MockRepository) ClearAccountDisabled(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) Disable(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockIdentity) Enable(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strptr(s string) *string { return &s }

func overdueClient(disabled bool) *models.Client {
	c := &models.Client{
		ID:              "11111111-1111-1111-1111-111111111111",
		FullName:        "Amer Kiwan",
		Phone:           "+962790000001",
		Email:           "amer@example.com",
		SignupDate:      date(2024, 1, 1),
		Plan:            models.PlanMonthly,
		NextPaymentDate: date(2024, 5, 14), // today is 15 May, one day overdue
		IdentityRef:     strptr("uid-1"),
		AccountDisabled: disabled,
	}
	if disabled {
		d := date(2024, 5, 14)
		c.AccountDisabledDate = &d
	}
	return c
}

func TestEngine_Run_FreshlyOverdueDisablesOnce(t *testing.T) {
	today := date(2024, 5, 15)
	client := overdueClient(false)

	repo := new(MockRepository)
	identity := new(MockIdentity)
	notifier := new(MockNotifier)

	repo.On("FindClientsDueSoon", mock.Anything, today.AddDate(0, 0, 2)).
		Return([]*models.Client{}, nil).Once()
	repo.On("FindClientsOverdue", mock.Anything, today).
		Return([]*models.Client{client}, nil).Once()
	identity.On("Disable", mock.Anything, "uid-1").Return(nil).Once()
	repo.On("MarkAccountDisabled", mock.Anything, client.ID, today).Return(nil).Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.NotificationOverdue
	})).Return(nil).Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.NotificationDisabled
	})).Return(nil).Once()

	engine := NewEngine(repo, identity, notifier, newNoopLogger())
	sum, err := engine.Run(context.Background(), today)

	require.NoError(t, err)
	assert.Equal(t, Summary{DueSoon: 0, Overdue: 1, NotificationsSent: 2, Disabled: 1}, sum)
	repo.AssertExpectations(t)
	identity.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestEngine_Run_SecondRunSendsOnlyReminder(t *testing.T) {
	// Повторный запуск на тех же данных: аккаунт уже помечен отключённым,
	// уходит только обычное напоминание о просрочке.
	today := date(2024, 5, 15)
	client := overdueClient(true)

	repo := new(MockRepository)
	identity := new(MockIdentity)
	notifier := new(MockNotifier)

	repo.On("FindClientsDueSoon", mock.Anything, today.AddDate(0, 0, 2)).
		Return([]*models.Client{}, nil).Once()
	repo.On("FindClientsOverdue", mock.Anything, today).
		Return([]*models.Client{client}, nil).Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.NotificationOverdue
	})).Return(nil).Once()

	engine := NewEngine(repo, identity, notifier, newNoopLogger())
	sum, err := engine.Run(context.Background(), today)

	require.NoError(t, err)
	assert.Equal(t, Summary{Overdue: 1, NotificationsSent: 1}, sum)
	identity.AssertNotCalled(t, "Disable", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkAccountDisabled", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestEngine_Run_DueSoonOnlyNotifies(t *testing.T) {
	today := date(2024, 5, 15)
	client := &models.Client{
		ID:              "22222222-2222-2222-2222-222222222222",
		FullName:        "Lina Haddad",
		Phone:           "+962790000002",
		Plan:            models.PlanYearly,
		NextPaymentDate: date(2024, 5, 17),
		IdentityRef:     strptr("uid-2"),
	}

	repo := new(MockRepository)
	identity := new(MockIdentity)
	notifier := new(MockNotifier)

	repo.On("FindClientsDueSoon", mock.Anything, date(2024, 5, 17)).
		Return([]*models.Client{client}, nil).Once()
	repo.On("FindClientsOverdue", mock.Anything, today).
		Return([]*models.Client{}, nil).Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.NotificationDueSoon && n.Phone == client.Phone
	})).Return(nil).Once()

	engine := NewEngine(repo, identity, notifier, newNoopLogger())
	sum, err := engine.Run(context.Background(), today)

	require.NoError(t, err)
	assert.Equal(t, Summary{DueSoon: 1, NotificationsSent: 1}, sum)
	identity.AssertNotCalled(t, "Disable", mock.Anything, mock.Anything)
	identity.AssertNotCalled(t, "Enable", mock.Anything, mock.Anything)
}

func TestEngine_Run_IdentityFailureLeavesStateForRetry(t *testing.T) {
	today := date(2024, 5, 15)
	client := overdueClient(false)

	repo := new(MockRepository)
	identity := new(MockIdentity)
	notifier := new(MockNotifier)

	repo.On("FindClientsDueSoon", mock.Anything, mock.Anything).
		Return([]*models.Client{}, nil).Once()
	repo.On("FindClientsOverdue", mock.Anything, today).
		Return([]*models.Client{client}, nil).Once()
	identity.On("Disable", mock.Anything, "uid-1").
		Return(errors.New("provider unavailable")).Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.NotificationOverdue
	})).Return(nil).Once()

	engine := NewEngine(repo, identity, notifier, newNoopLogger())
	sum, err := engine.Run(context.Background(), today)

	require.NoError(t, err)
	assert.Equal(t, Summary{Overdue: 1, NotificationsSent: 1}, sum)
	repo.AssertNotCalled(t, "MarkAccountDisabled", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestEngine_Run_StoreWriteFailureSkipsDisabledNotification(t *testing.T) {
	today := date(2024, 5, 15)
	client := overdueClient(false)

	repo := new(MockRepository)
	identity := new(MockIdentity)
	notifier := new(MockNotifier)

	repo.On("FindClientsDueSoon", mock.Anything, mock.Anything).
		Return([]*models.Client{}, nil).Once()
	repo.On("FindClientsOverdue", mock.Anything, today).
		Return([]*models.Client{client}, nil).Once()
	identity.On("Disable", mock.Anything, "uid-1").Return(nil).Once()
	repo.On("MarkAccountDisabled", mock.Anything, client.ID, today).
		Return(errors.New("db error")).Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.NotificationOverdue
	})).Return(nil).Once()

	engine := NewEngine(repo, identity, notifier, newNoopLogger())
	sum, err := engine.Run(context.Background(), today)

	require.NoError(t, err)
	assert.Equal(t, 0, sum.Disabled)
	notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestEngine_Run_FetchErrorIsFatal(t *testing.T) {
	today := date(2024, 5, 15)

	repo := new(MockRepository)
	repo.On("FindClientsDueSoon", mock.Anything, mock.Anything).
		Return(nil, errors.New("db down")).Once()

	engine := NewEngine(repo, new(MockIdentity), new(MockNotifier), newNoopLogger())
	_, err := engine.Run(context.Background(), today)

	require.Error(t, err)
}

func TestEngine_Run_NotifierFailureDoesNotAbort(t *testing.T) {
	today := date(2024, 5, 15)
	client := overdueClient(false)

	repo := new(MockRepository)
	identity := new(MockIdentity)
	notifier := new(MockNotifier)

	repo.On("FindClientsDueSoon", mock.Anything, mock.Anything).
		Return([]*models.Client{}, nil).Once()
	repo.On("FindClientsOverdue", mock.Anything, today).
		Return([]*models.Client{client}, nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything).
		Return(errors.New("queue unavailable"))
	identity.On("Disable", mock.Anything, "uid-1").Return(nil).Once()
	repo.On("MarkAccountDisabled", mock.Anything, client.ID, today).Return(nil).Once()

	engine := NewEngine(repo, identity, notifier, newNoopLogger())
	sum, err := engine.Run(context.Background(), today)

	require.NoError(t, err)
	assert.Equal(t, Summary{Overdue: 1, NotificationsSent: 0, Disabled: 1}, sum)
}

func TestEngine_DisableClient(t *testing.T) {
	tests := []struct {
		name       string
		client     *models.Client
		setupMocks func(*MockRepository, *MockIdentity, *MockNotifier)
		wantErr    error
	}{
		{
			name:   "success",
			client: overdueClient(false),
			setupMocks: func(r *MockRepository, i *MockIdentity, n *MockNotifier) {
				i.On("Disable", mock.Anything, "uid-1").Return(nil).Once()
				r.On("MarkAccountDisabled", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
				n.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "no linked identity",
			client: &models.Client{
				ID: "33333333-3333-3333-3333-333333333333", FullName: "No Identity",
			},
			setupMocks: func(_ *MockRepository, _ *MockIdentity, _ *MockNotifier) {},
			wantErr:    ErrIdentityNotLinked,
		},
		{
			name:       "already disabled",
			client:     overdueClient(true),
			setupMocks: func(_ *MockRepository, _ *MockIdentity, _ *MockNotifier) {},
			wantErr:    ErrAlreadyDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			identity := new(MockIdentity)
			notifier := new(MockNotifier)
			repo.On("ReadClient", mock.Anything, tt.client.ID).Return(tt.client, nil).Once()
			tt.setupMocks(repo, identity, notifier)

			engine := NewEngine(repo, identity, notifier, newNoopLogger())
			err := engine.DisableClient(context.Background(), tt.client.ID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
			identity.AssertExpectations(t)
		})
	}
}

func TestEngine_EnableClient_ProviderFailureKeepsFlags(t *testing.T) {
	client := overdueClient(true)

	repo := new(MockRepository)
	identity := new(MockIdentity)

	repo.On("ReadClient", mock.Anything, client.ID).Return(client, nil).Once()
	identity.On("Enable", mock.Anything, "uid-1").
		Return(errors.New("provider unavailable")).Once()

	engine := NewEngine(repo, identity, new(MockNotifier), newNoopLogger())
	err := engine.EnableClient(context.Background(), client.ID)

	require.Error(t, err)
	repo.AssertNotCalled(t, "ClearAccountDisabled", mock.Anything, mock.Anything)
}

func TestEngine_EnableClient_Success(t *testing.T) {
	client := overdueClient(true)

	repo := new(MockRepository)
	identity := new(MockIdentity)

	repo.On("ReadClient", mock.Anything, client.ID).Return(client, nil).Once()
	identity.On("Enable", mock.Anything, "uid-1").Return(nil).Once()
	repo.On("ClearAccountDisabled", mock.Anything, client.ID).Return(nil).Once()

	engine := NewEngine(repo, identity, new(MockNotifier), newNoopLogger())
	err := engine.EnableClient(context.Background(), client.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	identity.AssertExpectations(t)
}
