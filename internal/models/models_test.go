package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsent_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Consent
		wantErr bool
	}{
		{name: "bool true", body: `{"privacyConsent":true}`, want: "true"},
		{name: "bool false", body: `{"privacyConsent":false}`, want: "false"},
		{name: "string", body: `{"privacyConsent":"true"}`, want: "true"},
		{name: "null", body: `{"privacyConsent":null}`, want: ""},
		{name: "number", body: `{"privacyConsent":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c NewContact
			err := json.Unmarshal([]byte(tt.body), &c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.PrivacyConsent)
		})
	}
}

func TestNewContact_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        NewContact
		wantName  string
		wantFirst string
		wantLast  string
	}{
		{
			name:      "name derived from first and last",
			in:        NewContact{FirstName: "John", LastName: "Doe", Email: " John@Example.COM "},
			wantName:  "John Doe",
			wantFirst: "John",
			wantLast:  "Doe",
		},
		{
			name:      "first and last derived from name",
			in:        NewContact{Name: "Jane Mary Roe"},
			wantName:  "Jane Mary Roe",
			wantFirst: "Jane",
			wantLast:  "Mary Roe",
		},
		{
			name:      "explicit name wins",
			in:        NewContact{Name: "J. Doe", FirstName: "John", LastName: "Doe"},
			wantName:  "J. Doe",
			wantFirst: "John",
			wantLast:  "Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			c.Normalize()
			assert.Equal(t, tt.wantName, c.Name)
			assert.Equal(t, tt.wantFirst, c.FirstName)
			assert.Equal(t, tt.wantLast, c.LastName)
			assert.Equal(t, Consent("false"), c.PrivacyConsent)
		})
	}

	c := NewContact{Email: " John@Example.COM "}
	c.Normalize()
	assert.Equal(t, "john@example.com", c.Email)
}

func TestNewRequest_ToRequest(t *testing.T) {
	r := NewRequest{
		FirstName:    " John ",
		LastName:     "Doe",
		Email:        "John@Example.com",
		Company:      "Acme",
		RequestTypes: "demo,assessment",
	}
	r.Normalize()

	got := r.ToRequest(RequestMeta{IPAddress: "10.0.0.1"})

	assert.Equal(t, "John Doe", got.FullName)
	assert.Equal(t, "john@example.com", got.Email)
	assert.Equal(t, RequestStatusPending, got.Status)
	assert.Equal(t, RequestPriorityNormal, got.Priority)
	assert.Equal(t, RequestSourceWebsite, got.Source)
	require.NotNil(t, got.IPAddress)
	assert.Equal(t, "10.0.0.1", *got.IPAddress)
	assert.Nil(t, got.UserAgent)
}

func TestUser_PublicHidesPassword(t *testing.T) {
	u := User{ID: "1", Username: "john", Email: "j@example.com", PasswordHash: "secret"}

	body, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret")
	assert.Equal(t, PublicUser{ID: "1", Username: "john", Email: "j@example.com"}, u.Public())
}
