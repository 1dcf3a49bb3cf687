package demorequest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/services/leads"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) SubmitRequest(ctx context.Context, in models.NewRequest, meta models.RequestMeta) leads.Result {
	args := m.Called(ctx, in, meta)
	return args.Get(0).(leads.Result)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRequestHandler_ServeHTTP(t *testing.T) {
	valid := `{"firstName":"John","lastName":"Doe","email":"john@example.com","company":"Acme","requestTypes":"demo,assessment","currentChallenges":"[\"Other: legacy ERP\"]"}`

	tests := []struct {
		name           string
		body           string
		callsService   bool
		stored         bool
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
		wantFields     []string
	}{
		{
			name:           "accepted",
			body:           valid,
			callsService:   true,
			stored:         true,
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    msgSuccess,
		},
		{
			name:           "accepted without storage",
			body:           valid,
			callsService:   true,
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    msgSuccess,
		},
		{
			name:           "missing request types and company",
			body:           `{"firstName":"John","lastName":"Doe","email":"john@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    msgInvalid,
			wantFields:     []string{"company", "requestTypes"},
		},
		{
			name:           "invalid json",
			body:           `nope`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    msgInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.callsService {
				svc.On("SubmitRequest", mock.Anything,
					mock.MatchedBy(func(in models.NewRequest) bool {
						return in.FullName == "John Doe" && in.CurrentChallenges != nil
					}),
					models.RequestMeta{IPAddress: "203.0.113.7", UserAgent: "test-agent"},
				).Return(leads.Result{Stored: tt.stored}).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/request", bytes.NewBufferString(tt.body))
			req.RemoteAddr = "203.0.113.7:54321"
			req.Header.Set("User-Agent", "test-agent")
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
			assert.Equal(t, tt.stored, got.DatabaseStored)

			fields := make([]string, 0, len(got.Errors))
			for _, e := range got.Errors {
				fields = append(fields, e.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
			svc.AssertExpectations(t)
		})
	}
}
