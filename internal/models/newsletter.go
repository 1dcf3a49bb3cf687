package models

import "time"

// NewsletterSubscription подписка на рассылку. Email уникален.
type NewsletterSubscription struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// NewNewsletter входные данные подписки.
type NewNewsletter struct {
	Email string `json:"email" validate:"required,email"`
}
