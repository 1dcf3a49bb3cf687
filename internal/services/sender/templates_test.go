package sender

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/lead-capture/internal/models"
)

func strptr(s string) *string { return &s }

func TestContactTemplates(t *testing.T) {
	c := models.ContactSubmission{
		Name:           "Ann Lee",
		FirstName:      "Ann",
		LastName:       "Lee",
		Email:          "ann@example.com",
		Company:        strptr("Acme"),
		Message:        "We need a chatbot",
		PrivacyConsent: "true",
	}

	admin := ContactAdmin(c, []string{"team@example.com"})
	assert.Equal(t, models.NotificationContactAdmin, admin.Kind)
	assert.Equal(t, []string{"team@example.com"}, admin.To)
	assert.Equal(t, "New Contact Form Submission from Ann Lee", admin.Subject)
	assert.Contains(t, admin.Body, "Company: Acme")
	assert.Contains(t, admin.Body, "Phone: Not provided")
	assert.Contains(t, admin.Body, "We need a chatbot")

	reply := ContactAutoReply(c)
	assert.Equal(t, []string{"ann@example.com"}, reply.To)
	assert.Equal(t, "Thank you for contacting Strive Tech", reply.Subject)
	assert.Contains(t, reply.Body, "Hi Ann,")
}

func TestRequestTemplates(t *testing.T) {
	r := models.Request{
		FirstName:    "Bob",
		LastName:     "Stone",
		Email:        "bob@example.com",
		Company:      "Initech",
		RequestTypes: "demo,assessment",
		Industry:     strptr("Finance"),
	}

	admin := RequestAdmin(r, []string{"team@example.com"})
	assert.Equal(t, "New demo,assessment Request from Bob Stone", admin.Subject)
	assert.Contains(t, admin.Body, "Industry: Finance")
	assert.Contains(t, admin.Body, "Budget Range: Not provided")

	reply := RequestAutoReply(r)
	assert.Equal(t, "Thank you for your request - Strive Tech", reply.Subject)
	assert.Equal(t, []string{"bob@example.com"}, reply.To)
	assert.Contains(t, reply.Body, "Dear Bob,")
}
