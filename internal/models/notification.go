package models

// Виды уведомлений, которые уходят через брокер или напрямую в SMTP.
const (
	NotificationContactAdmin      = "contact.admin"
	NotificationContactAutoReply  = "contact.autoreply"
	NotificationNewsletterWelcome = "newsletter.welcome"
	NotificationRequestAdmin      = "request.admin"
	NotificationRequestAutoReply  = "request.autoreply"
)

// Notification готовое к отправке письмо.
type Notification struct {
	Kind    string   `json:"kind"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}
