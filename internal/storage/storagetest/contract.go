// Package storagetest содержит общий набор проверок контракта storage.Storage,
// который прогоняется против каждого бэкенда.
package storagetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/storage"
)

// Factory возвращает чистое хранилище для одного подтеста.
type Factory func(t *testing.T) storage.Storage

// Run прогоняет все проверки контракта.
func Run(t *testing.T, newStorage Factory) {
	t.Run("newsletter round trip", func(t *testing.T) { testNewsletterRoundTrip(t, newStorage(t)) })
	t.Run("newsletter duplicate", func(t *testing.T) { testNewsletterDuplicate(t, newStorage(t)) })
	t.Run("newsletter concurrent duplicate", func(t *testing.T) { testNewsletterConcurrent(t, newStorage(t)) })
	t.Run("users", func(t *testing.T) { testUsers(t, newStorage(t)) })
	t.Run("contacts", func(t *testing.T) { testContacts(t, newStorage(t)) })
	t.Run("requests", func(t *testing.T) { testRequests(t, newStorage(t)) })
	t.Run("empty collections", func(t *testing.T) { testEmptyCollections(t, newStorage(t)) })
	t.Run("canceled context", func(t *testing.T) { testCanceledContext(t, newStorage(t)) })
}

func testNewsletterRoundTrip(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	before := time.Now().Add(-time.Second)

	created, err := s.CreateNewsletterSubscription(ctx, "a@b.com")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := s.GetNewsletterSubscriptionByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, created.ID, got.ID)
	_, err = uuid.Parse(got.ID)
	assert.NoError(t, err)
	assert.True(t, got.SubscribedAt.After(before))

	_, err = s.GetNewsletterSubscriptionByEmail(ctx, "missing@b.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testNewsletterDuplicate(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	_, err := s.CreateNewsletterSubscription(ctx, "dup@example.com")
	require.NoError(t, err)

	_, err = s.CreateNewsletterSubscription(ctx, "dup@example.com")
	assert.ErrorIs(t, err, storage.ErrExists)

	all, err := s.GetNewsletterSubscriptions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testNewsletterConcurrent(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	const workers = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateNewsletterSubscription(ctx, "race@example.com"); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func testUsers(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	first := "John"
	u, err := s.CreateUser(ctx, models.User{
		Username:     "john",
		Email:        "john@example.com",
		PasswordHash: "hash",
		FirstName:    &first,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())
	assert.False(t, u.EmailVerified)

	byID, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "john", byID.Username)
	assert.Equal(t, "hash", byID.PasswordHash)
	require.NotNil(t, byID.FirstName)
	assert.Equal(t, "John", *byID.FirstName)

	byName, err := s.GetUserByUsername(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := s.GetUserByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.CreateUser(ctx, models.User{Username: "john", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, storage.ErrExists)

	_, err = s.GetUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testContacts(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	company := "Acme"
	created, err := s.CreateContactSubmission(ctx, models.ContactSubmission{
		Name:           "John Doe",
		FirstName:      "John",
		LastName:       "Doe",
		Email:          "john@example.com",
		Company:        &company,
		Message:        "hello",
		PrivacyConsent: "true",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.SubmittedAt.IsZero())

	all, err := s.GetContactSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "John Doe", all[0].Name)
	assert.Equal(t, "true", all[0].PrivacyConsent)
	require.NotNil(t, all[0].Company)
	assert.Equal(t, "Acme", *all[0].Company)
	assert.Nil(t, all[0].Phone)
}

func testRequests(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	challenges := `["Data silos","Other: legacy ERP"]`
	req := models.NewRequest{
		FirstName:         "John",
		LastName:          "Doe",
		Email:             "john@example.com",
		Company:           "Acme",
		RequestTypes:      "demo,assessment",
		CurrentChallenges: &challenges,
	}
	req.Normalize()

	created, err := s.CreateRequest(ctx, req.ToRequest(models.RequestMeta{IPAddress: "127.0.0.1", UserAgent: "test"}))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.SubmittedAt.IsZero())

	all, err := s.GetRequests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, "John Doe", got.FullName)
	assert.Equal(t, "demo,assessment", got.RequestTypes)
	assert.Equal(t, models.RequestStatusPending, got.Status)
	assert.Equal(t, models.RequestPriorityNormal, got.Priority)
	assert.Equal(t, models.RequestSourceWebsite, got.Source)
	require.NotNil(t, got.CurrentChallenges)
	assert.Equal(t, challenges, *got.CurrentChallenges)
	require.NotNil(t, got.IPAddress)
	assert.Equal(t, "127.0.0.1", *got.IPAddress)
}

func testEmptyCollections(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	contacts, err := s.GetContactSubmissions(ctx)
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)

	subs, err := s.GetNewsletterSubscriptions(ctx)
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)

	reqs, err := s.GetRequests(ctx)
	require.NoError(t, err)
	assert.NotNil(t, reqs)
	assert.Empty(t, reqs)
}

func testCanceledContext(t *testing.T, s storage.Storage) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateNewsletterSubscription(ctx, "late@example.com")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.GetRequests(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
