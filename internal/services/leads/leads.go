// Package leads бизнес-логика приёма заявок: форма обратной связи, подписка
// на рассылку, заявка на демо и чтение собранных данных для админки.
//
// Запись в хранилище и письма выполняются в режиме best effort: их сбой
// попадает в лог и метрики, но пользователь всё равно получает успешный ответ.
package leads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/lead-capture/internal/lib/besteffort"
	"github.com/magabrotheeeer/lead-capture/internal/lib/metrics"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/services/sender"
	"github.com/magabrotheeeer/lead-capture/internal/storage"
)

// ErrAlreadySubscribed адрес уже подписан на рассылку.
var ErrAlreadySubscribed = errors.New("email is already subscribed")

// Ключи кеша админских списков.
const (
	KeyContacts   = "admin:contacts"
	KeyNewsletter = "admin:newsletter"
	KeyRequests   = "admin:requests"
)

const defaultCacheTTL = 30 * time.Second

// Repository методы хранилища, нужные сервису.
type Repository interface {
	CreateContactSubmission(ctx context.Context, c models.ContactSubmission) (*models.ContactSubmission, error)
	GetContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error)
	CreateNewsletterSubscription(ctx context.Context, email string) (*models.NewsletterSubscription, error)
	GetNewsletterSubscriptions(ctx context.Context) ([]models.NewsletterSubscription, error)
	GetNewsletterSubscriptionByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error)
	CreateRequest(ctx context.Context, r models.Request) (*models.Request, error)
	GetRequests(ctx context.Context) ([]models.Request, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Dispatcher доставляет уведомления.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification) error
}

// Result итог приёма заявки. Stored=false значит, что запись в хранилище
// не удалась, но заявка принята.
type Result struct {
	Stored bool
}

// Service реализует приём заявок.
type Service struct {
	repo       Repository
	cache      Cache
	notifier   Dispatcher
	recipients []string
	log        *slog.Logger
	cacheTTL   time.Duration
	now        func() time.Time
}

// New создает новый экземпляр Service. recipients адреса команды для
// уведомлений о заявках.
func New(repo Repository, cache Cache, notifier Dispatcher, recipients []string, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		cache:      cache,
		notifier:   notifier,
		recipients: recipients,
		log:        log,
		cacheTTL:   defaultCacheTTL,
		now:        time.Now,
	}
}

// SubmitContact принимает сообщение из формы обратной связи.
func (s *Service) SubmitContact(ctx context.Context, in models.NewContact) Result {
	const op = "leads.SubmitContact"
	log := s.log.With(slog.String("op", op))

	record := in.ToSubmission()
	stored := besteffort.Run(ctx, log, "contact.store", func(ctx context.Context) error {
		created, err := s.repo.CreateContactSubmission(ctx, record)
		if err != nil {
			return err
		}
		record = *created
		return nil
	})
	if stored {
		s.invalidate(ctx, KeyContacts)
	} else {
		record.SubmittedAt = s.now()
	}

	s.notify(ctx, log,
		sender.ContactAdmin(record, s.recipients),
		sender.ContactAutoReply(record),
	)

	metrics.LeadsCaptured.WithLabelValues("contact").Inc()
	log.Info("contact submission accepted", slog.Bool("stored", stored))
	return Result{Stored: stored}
}

// Subscribe подписывает адрес на рассылку. Повторная подписка возвращает
// ErrAlreadySubscribed. Ошибка проверки существующей подписки не глушится.
func (s *Service) Subscribe(ctx context.Context, email string) (Result, error) {
	const op = "leads.Subscribe"
	log := s.log.With(slog.String("op", op))

	email = models.NormalizeEmail(email)

	_, err := s.repo.GetNewsletterSubscriptionByEmail(ctx, email)
	switch {
	case err == nil:
		return Result{}, ErrAlreadySubscribed
	case !errors.Is(err, storage.ErrNotFound):
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	duplicate := false
	stored := besteffort.Run(ctx, log, "newsletter.store", func(ctx context.Context) error {
		_, err := s.repo.CreateNewsletterSubscription(ctx, email)
		if errors.Is(err, storage.ErrExists) {
			duplicate = true
			return nil
		}
		return err
	})
	if duplicate {
		return Result{}, ErrAlreadySubscribed
	}
	if stored {
		s.invalidate(ctx, KeyNewsletter)
	}

	s.notify(ctx, log, sender.NewsletterWelcome(email))

	metrics.LeadsCaptured.WithLabelValues("newsletter").Inc()
	log.Info("newsletter subscription accepted", slog.Bool("stored", stored))
	return Result{Stored: stored}, nil
}

// SubmitRequest принимает заявку на демо.
func (s *Service) SubmitRequest(ctx context.Context, in models.NewRequest, meta models.RequestMeta) Result {
	const op = "leads.SubmitRequest"
	log := s.log.With(slog.String("op", op))

	record := in.ToRequest(meta)
	stored := besteffort.Run(ctx, log, "request.store", func(ctx context.Context) error {
		created, err := s.repo.CreateRequest(ctx, record)
		if err != nil {
			return err
		}
		record = *created
		return nil
	})
	if stored {
		s.invalidate(ctx, KeyRequests)
	}

	s.notify(ctx, log,
		sender.RequestAdmin(record, s.recipients),
		sender.RequestAutoReply(record),
	)

	metrics.LeadsCaptured.WithLabelValues("request").Inc()
	log.Info("request accepted", slog.Bool("stored", stored), slog.String("types", record.RequestTypes))
	return Result{Stored: stored}
}

// Contacts все сообщения формы обратной связи.
func (s *Service) Contacts(ctx context.Context) ([]models.ContactSubmission, error) {
	return cachedList(ctx, s, KeyContacts, s.repo.GetContactSubmissions)
}

// Newsletter все подписки на рассылку.
func (s *Service) Newsletter(ctx context.Context) ([]models.NewsletterSubscription, error) {
	return cachedList(ctx, s, KeyNewsletter, s.repo.GetNewsletterSubscriptions)
}

// Requests все заявки на демо.
func (s *Service) Requests(ctx context.Context) ([]models.Request, error) {
	return cachedList(ctx, s, KeyRequests, s.repo.GetRequests)
}

// cachedList читает список из кеша или хранилища. Ошибки кеша не мешают
// отдать данные из хранилища.
func cachedList[T any](ctx context.Context, s *Service, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var result []T
	found, err := s.cache.Get(ctx, key, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found && err == nil {
		if result == nil {
			result = []T{}
		}
		return result, nil
	}

	result, err = load(ctx)
	if err != nil {
		return nil, fmt.Errorf("leads.%s: %w", key, err)
	}
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	return result, nil
}

func (s *Service) invalidate(ctx context.Context, key string) {
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) notify(ctx context.Context, log *slog.Logger, notifications ...models.Notification) {
	for _, n := range notifications {
		besteffort.Run(ctx, log, n.Kind, func(ctx context.Context) error {
			return s.notifier.Dispatch(ctx, n)
		})
	}
}
