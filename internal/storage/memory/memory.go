// Package memory реализует storage.Storage на картах в памяти процесса.
// Используется, когда DATABASE_URL не задан; данные теряются при рестарте.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/storage"
)

// Storage хранит все сущности в картах под одним RWMutex.
type Storage struct {
	mu         sync.RWMutex
	users      map[string]models.User
	contacts   map[string]models.ContactSubmission
	newsletter map[string]models.NewsletterSubscription
	requests   map[string]models.Request

	now func() time.Time
}

var _ storage.Storage = (*Storage)(nil)

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		users:      make(map[string]models.User),
		contacts:   make(map[string]models.ContactSubmission),
		newsletter: make(map[string]models.NewsletterSubscription),
		requests:   make(map[string]models.Request),
		now:        time.Now,
	}
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.memory.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return &u, nil
}

// GetUserByUsername линейный поиск по username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.memory.GetUserByUsername"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// GetUserByEmail линейный поиск по email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.memory.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// CreateUser сохраняет пользователя. Занятый username или email даёт ErrExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.memory.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrExists)
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = s.now()
	s.users[user.ID] = user
	return &user, nil
}

// CreateContactSubmission сохраняет сообщение формы обратной связи.
func (s *Storage) CreateContactSubmission(ctx context.Context, submission models.ContactSubmission) (*models.ContactSubmission, error) {
	const op = "storage.memory.CreateContactSubmission"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	submission.ID = uuid.NewString()
	submission.SubmittedAt = s.now()
	s.contacts[submission.ID] = submission
	return &submission, nil
}

// GetContactSubmissions возвращает все сообщения.
func (s *Storage) GetContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	const op = "storage.memory.GetContactSubmissions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]models.ContactSubmission, 0, len(s.contacts))
	for _, c := range s.contacts {
		res = append(res, c)
	}
	return res, nil
}

// CreateNewsletterSubscription добавляет подписку. Проверка на дубликат
// выполняется под той же блокировкой, что и вставка.
func (s *Storage) CreateNewsletterSubscription(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	const op = "storage.memory.CreateNewsletterSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.newsletter {
		if strings.EqualFold(sub.Email, email) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrExists)
		}
	}

	sub := models.NewsletterSubscription{
		ID:           uuid.NewString(),
		Email:        email,
		SubscribedAt: s.now(),
	}
	s.newsletter[sub.ID] = sub
	return &sub, nil
}

// GetNewsletterSubscriptions возвращает всех подписчиков.
func (s *Storage) GetNewsletterSubscriptions(ctx context.Context) ([]models.NewsletterSubscription, error) {
	const op = "storage.memory.GetNewsletterSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]models.NewsletterSubscription, 0, len(s.newsletter))
	for _, sub := range s.newsletter {
		res = append(res, sub)
	}
	return res, nil
}

// GetNewsletterSubscriptionByEmail ищет подписку по адресу.
func (s *Storage) GetNewsletterSubscriptionByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	const op = "storage.memory.GetNewsletterSubscriptionByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.newsletter {
		if strings.EqualFold(sub.Email, email) {
			return &sub, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// CreateRequest сохраняет заявку, проставляя время отправки и обновления.
func (s *Storage) CreateRequest(ctx context.Context, request models.Request) (*models.Request, error) {
	const op = "storage.memory.CreateRequest"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	request.ID = uuid.NewString()
	request.SubmittedAt = now
	request.UpdatedAt = now
	s.requests[request.ID] = request
	return &request, nil
}

// GetRequests возвращает все заявки.
func (s *Storage) GetRequests(ctx context.Context) ([]models.Request, error) {
	const op = "storage.memory.GetRequests"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]models.Request, 0, len(s.requests))
	for _, r := range s.requests {
		res = append(res, r)
	}
	return res, nil
}

// Ping всегда успешен.
func (s *Storage) Ping(ctx context.Context) error {
	return checkCtx(ctx, "storage.memory.Ping")
}

// Close ничего не освобождает.
func (s *Storage) Close() error {
	return nil
}
