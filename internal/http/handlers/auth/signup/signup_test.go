package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/services/auth"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Signup(ctx context.Context, in models.NewUser) (*models.User, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSignupHandler_ServeHTTP(t *testing.T) {
	valid := `{"username":"ann","email":"ann@example.com","password":"secret1"}`

	tests := []struct {
		name           string
		body           string
		mockUser       *models.User
		mockErr        error
		callsService   bool
		wantStatusCode int
		wantMessage    string
		wantUserID     string
		wantField      string
	}{
		{
			name:           "created",
			body:           valid,
			mockUser:       &models.User{ID: "u-1", Username: "ann", PasswordHash: "hash"},
			callsService:   true,
			wantStatusCode: http.StatusOK,
			wantMessage:    msgSuccess,
			wantUserID:     "u-1",
		},
		{
			name:           "username taken",
			body:           valid,
			mockErr:        auth.ErrUserExists,
			callsService:   true,
			wantStatusCode: http.StatusConflict,
			wantMessage:    msgExists,
		},
		{
			name:           "provider rejected",
			body:           valid,
			mockErr:        auth.ErrSignupRejected,
			callsService:   true,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    msgInvalid,
		},
		{
			name:           "storage failure",
			body:           valid,
			mockErr:        errors.New("db down"),
			callsService:   true,
			wantStatusCode: http.StatusInternalServerError,
			wantMessage:    msgFailed,
		},
		{
			name:           "short password",
			body:           `{"username":"ann","email":"ann@example.com","password":"123"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    msgInvalid,
		},
		{
			name:           "password longer than 72",
			body:           `{"username":"ann","email":"ann@example.com","password":"` + strings.Repeat("a", 80) + `"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    msgInvalid,
			wantField:      "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.callsService {
				svc.On("Signup", mock.Anything, mock.AnythingOfType("models.NewUser")).Return(tt.mockUser, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "hash")

			var got Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantMessage, got.Message)
			if tt.wantField != "" {
				require.NotEmpty(t, got.Errors)
				assert.Equal(t, tt.wantField, got.Errors[0].Field)
			}
			if tt.wantUserID != "" {
				require.NotNil(t, got.User)
				assert.Equal(t, tt.wantUserID, got.User.ID)
				assert.True(t, got.Success)
			} else {
				assert.Nil(t, got.User)
				assert.False(t, got.Success)
			}
			svc.AssertExpectations(t)
		})
	}
}
