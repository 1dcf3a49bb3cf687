package sender

import (
	"fmt"
	"strings"

	"github.com/magabrotheeeer/lead-capture/internal/models"
)

const notProvided = "Not provided"

// ContactAdmin уведомление команды о новом сообщении из формы.
func ContactAdmin(c models.ContactSubmission, to []string) models.Notification {
	var b strings.Builder
	b.WriteString("New contact form submission\n\n")
	line(&b, "Name", c.Name)
	line(&b, "Email", c.Email)
	line(&b, "Phone", deref(c.Phone))
	line(&b, "Company", deref(c.Company))
	line(&b, "Company Size", deref(c.CompanySize))
	line(&b, "Privacy Consent", c.PrivacyConsent)
	b.WriteString("\nMessage:\n")
	b.WriteString(c.Message)
	b.WriteString("\n")

	return models.Notification{
		Kind:    models.NotificationContactAdmin,
		To:      to,
		Subject: fmt.Sprintf("New Contact Form Submission from %s %s", c.FirstName, c.LastName),
		Body:    b.String(),
	}
}

// ContactAutoReply подтверждение отправителю формы.
func ContactAutoReply(c models.ContactSubmission) models.Notification {
	name := c.FirstName
	if name == "" {
		name = c.Name
	}
	body := fmt.Sprintf("Hi %s,\n\n"+
		"Thank you for reaching out to Strive Tech. We have received your message "+
		"and a member of our team will get back to you within one business day.\n\n"+
		"Best regards,\nThe Strive Tech Team\n", name)

	return models.Notification{
		Kind:    models.NotificationContactAutoReply,
		To:      []string{c.Email},
		Subject: "Thank you for contacting Strive Tech",
		Body:    body,
	}
}

// NewsletterWelcome приветствие новому подписчику.
func NewsletterWelcome(email string) models.Notification {
	body := "Welcome to the Strive Tech newsletter!\n\n" +
		"You will receive our latest insights on AI, automation and digital transformation.\n\n" +
		"Best regards,\nThe Strive Tech Team\n"

	return models.Notification{
		Kind:    models.NotificationNewsletterWelcome,
		To:      []string{email},
		Subject: "Welcome to Strive Tech! Your AI intelligence starts now",
		Body:    body,
	}
}

// RequestAdmin уведомление команды о заявке на демо.
func RequestAdmin(r models.Request, to []string) models.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "New %s request\n\n", r.RequestTypes)
	line(&b, "Name", r.FirstName+" "+r.LastName)
	line(&b, "Email", r.Email)
	line(&b, "Company", r.Company)
	line(&b, "Phone", deref(r.Phone))
	line(&b, "Job Title", deref(r.JobTitle))
	line(&b, "Industry", deref(r.Industry))
	line(&b, "Company Size", deref(r.CompanySize))
	line(&b, "Request Types", r.RequestTypes)
	line(&b, "Project Timeline", deref(r.ProjectTimeline))
	line(&b, "Budget Range", deref(r.BudgetRange))
	line(&b, "Current Challenges", deref(r.CurrentChallenges))
	line(&b, "Demo Focus Areas", deref(r.DemoFocusAreas))
	line(&b, "Additional Requirements", deref(r.AdditionalRequirements))
	line(&b, "Preferred Date", deref(r.PreferredDate))

	return models.Notification{
		Kind:    models.NotificationRequestAdmin,
		To:      to,
		Subject: fmt.Sprintf("New %s Request from %s %s", r.RequestTypes, r.FirstName, r.LastName),
		Body:    b.String(),
	}
}

// RequestAutoReply подтверждение автору заявки.
func RequestAutoReply(r models.Request) models.Notification {
	body := fmt.Sprintf("Dear %s,\n\n"+
		"We've received your %s request and will contact you within one business day to schedule your demo.\n\n"+
		"Best regards,\nThe Strive Tech Team\n", r.FirstName, r.RequestTypes)

	return models.Notification{
		Kind:    models.NotificationRequestAutoReply,
		To:      []string{r.Email},
		Subject: "Thank you for your request - Strive Tech",
		Body:    body,
	}
}

func line(b *strings.Builder, label, value string) {
	if value == "" {
		value = notProvided
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
