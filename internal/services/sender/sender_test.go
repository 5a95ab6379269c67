package sender

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/solarclean/reservation-backend/internal/models"
)

type MockWhatsAppSender struct {
	mock.Mock
}

func (m *MockWhatsAppSender) Send(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_HandleMessage(t *testing.T) {
	body, err := json.Marshal(models.Notification{
		ClientID: "client-1",
		Phone:    "+962790000001",
		Kind:     models.NotificationOverdue,
		Text:     "Ваш платёж просрочен",
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       []byte
		setupMocks func(*MockWhatsAppSender)
		wantErr    bool
	}{
		{
			name: "valid message gets delivered",
			body: body,
			setupMocks: func(s *MockWhatsAppSender) {
				s.On("Send", mock.Anything, "Ваш платёж просрочен").Return(nil).Once()
			},
		},
		{
			name: "relay failure is returned for redelivery",
			body: body,
			setupMocks: func(s *MockWhatsAppSender) {
				s.On("Send", mock.Anything, mock.Anything).
					Return(errors.New("relay unavailable")).Once()
			},
			wantErr: true,
		},
		{
			name:       "broken json is dropped without error",
			body:       []byte("{not json"),
			setupMocks: func(_ *MockWhatsAppSender) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			senderMock := new(MockWhatsAppSender)
			tt.setupMocks(senderMock)

			svc := NewService(senderMock, newNoopLogger())
			err := svc.HandleMessage(tt.body)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			senderMock.AssertExpectations(t)
		})
	}
}
