// Package storage описывает контракт хранилища заявок и пользователей.
//
// Реализации лежат в подпакетах memory и postgresql, выбор между ними
// делает пакет backend при старте процесса.
package storage

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/lead-capture/internal/models"
)

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrExists нарушено условие уникальности (username, email подписки).
	ErrExists = errors.New("record already exists")
)

// Storage общий контракт для обоих бэкендов.
//
// Create-методы сами назначают ID и время создания. Выборки коллекций
// возвращают пустой, но не nil срез; порядок не гарантируется.
type Storage interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)

	CreateContactSubmission(ctx context.Context, submission models.ContactSubmission) (*models.ContactSubmission, error)
	GetContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error)

	CreateNewsletterSubscription(ctx context.Context, email string) (*models.NewsletterSubscription, error)
	GetNewsletterSubscriptions(ctx context.Context) ([]models.NewsletterSubscription, error)
	GetNewsletterSubscriptionByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error)

	CreateRequest(ctx context.Context, request models.Request) (*models.Request, error)
	GetRequests(ctx context.Context) ([]models.Request, error)

	Ping(ctx context.Context) error
	Close() error
}
