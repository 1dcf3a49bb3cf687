package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/services/leads"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) SubmitContact(ctx context.Context, in models.NewContact) leads.Result {
	args := m.Called(ctx, in)
	return args.Get(0).(leads.Result)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestContactHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockResult     *leads.Result
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
		wantStored     bool
		wantFields     []string
	}{
		{
			name:           "stored",
			body:           `{"firstName":"John","lastName":"Doe","email":"John@Example.com","message":"Hi","privacyConsent":true}`,
			mockResult:     &leads.Result{Stored: true},
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    msgSuccess,
			wantStored:     true,
		},
		{
			name:           "storage down still succeeds",
			body:           `{"name":"John Doe","email":"john@example.com","message":"Hi"}`,
			mockResult:     &leads.Result{Stored: false},
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    msgSuccess,
		},
		{
			name:           "invalid json",
			body:           `{"name":`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    msgInvalid,
		},
		{
			name:           "missing fields",
			body:           `{"email":"not-an-email"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    msgInvalid,
			wantFields:     []string{"name", "email", "message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.mockResult != nil {
				svc.On("SubmitContact", mock.Anything, mock.MatchedBy(func(in models.NewContact) bool {
					return in.Name == "John Doe" && in.Email == "john@example.com"
				})).Return(*tt.mockResult).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got struct {
				Success        bool   `json:"success"`
				Message        string `json:"message"`
				DatabaseStored bool   `json:"databaseStored"`
				Errors         []struct {
					Field string `json:"field"`
				} `json:"errors"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantSuccess, got.Success)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.wantStored, got.DatabaseStored)

			fields := make([]string, 0, len(got.Errors))
			for _, e := range got.Errors {
				fields = append(fields, e.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)

			svc.AssertExpectations(t)
		})
	}
}
