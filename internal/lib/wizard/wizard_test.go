package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lead-capture/internal/models"
)

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, payload models.NewRequest) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func TestWizard_Navigation(t *testing.T) {
	w := New()
	assert.Equal(t, StepContact, w.Step())

	assert.ErrorIs(t, w.Next(), ErrStepIncomplete)
	assert.Equal(t, StepContact, w.Step())

	w.Form = completeForm()
	require.NoError(t, w.Next())
	assert.Equal(t, StepBusiness, w.Step())
	require.NoError(t, w.Next())
	assert.Equal(t, StepPreferences, w.Step())
	assert.ErrorIs(t, w.Next(), ErrLastStep)

	w.Back()
	assert.Equal(t, StepBusiness, w.Step())
	w.Back()
	w.Back()
	assert.Equal(t, StepContact, w.Step())
	assert.Equal(t, "John", w.Form.FirstName)
}

func TestWizard_Submit(t *testing.T) {
	tests := []struct {
		name          string
		prepare       func(t *testing.T, w *Wizard)
		submitErr     error
		expectCall    bool
		wantErr       error
		wantSubmitted bool
	}{
		{
			name:    "not on last step",
			prepare: func(*testing.T, *Wizard) {},
			wantErr: ErrNotFinalStep,
		},
		{
			name: "last step incomplete",
			prepare: func(t *testing.T, w *Wizard) {
				goToLastStep(t, w)
				w.Form.DemoFocusAreas = nil
			},
			wantErr: ErrStepIncomplete,
		},
		{
			name:          "success",
			prepare:       func(t *testing.T, w *Wizard) { goToLastStep(t, w) },
			expectCall:    true,
			wantSubmitted: true,
		},
		{
			name:       "submitter failure keeps state",
			prepare:    func(t *testing.T, w *Wizard) { goToLastStep(t, w) },
			submitErr:  errors.New("network down"),
			expectCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			w.Form = completeForm()
			tt.prepare(t, w)

			sub := new(MockSubmitter)
			if tt.expectCall {
				sub.On("Submit", mock.Anything, Payload(w.Form)).Return(tt.submitErr).Once()
			}

			err := w.Submit(context.Background(), sub)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.submitErr != nil:
				assert.ErrorIs(t, err, tt.submitErr)
				assert.Equal(t, StepPreferences, w.Step())
			default:
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantSubmitted, w.Submitted())
			sub.AssertExpectations(t)
		})
	}
}

func TestWizard_RetryAfterFailure(t *testing.T) {
	w := New()
	w.Form = completeForm()
	goToLastStep(t, w)

	sub := new(MockSubmitter)
	sub.On("Submit", mock.Anything, mock.Anything).Return(errors.New("503")).Once()
	sub.On("Submit", mock.Anything, mock.Anything).Return(nil).Once()

	require.Error(t, w.Submit(context.Background(), sub))
	assert.False(t, w.Submitted())
	require.NoError(t, w.Submit(context.Background(), sub))
	assert.True(t, w.Submitted())

	assert.ErrorIs(t, w.Submit(context.Background(), sub), ErrAlreadySubmitted)
	assert.ErrorIs(t, w.Next(), ErrAlreadySubmitted)
	sub.AssertNumberOfCalls(t, "Submit", 2)
}

func goToLastStep(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
}

func TestHTTPSubmitter(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "accepted", status: http.StatusOK, body: `{"success":true,"message":"ok","databaseStored":true}`},
		{name: "success false", status: http.StatusOK, body: `{"success":false,"message":"nope"}`, wantErr: true},
		{name: "bad request", status: http.StatusBadRequest, body: `{"success":false}`, wantErr: true},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.NewRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/request", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := NewHTTPSubmitter(srv.URL+"/", nil)
			err := s.Submit(context.Background(), Payload(completeForm()))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRejected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "john@example.com", got.Email)
			assert.Equal(t, "demo", got.RequestTypes)
		})
	}
}

func TestHTTPSubmitter_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPSubmitter(url, nil).Submit(context.Background(), Payload(completeForm()))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
}
