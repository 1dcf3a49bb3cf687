// Package postgresql реализует storage.Storage поверх PostgreSQL
// (драйвер pgx через database/sql). Схема создаётся миграциями при открытии.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/lead-capture/internal/migrations"
	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/storage"
)

const uniqueViolation = "23505"

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

var _ storage.Storage = (*Storage)(nil)

// New открывает пул, проверяет соединение и применяет миграции.
func New(ctx context.Context, connectionString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// mapErr переводит ошибки драйвера в ошибки контракта storage.
func mapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, storage.ErrExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

// ===== USERS =====

const userColumns = `id, username, email, password_hash, first_name, last_name, email_verified, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.EmailVerified, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.postgresql.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.postgresql.GetUserByUsername"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgresql.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.postgresql.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	user.ID = uuid.NewString()
	query := `INSERT INTO users (id, username, email, password_hash, first_name, last_name, email_verified)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.EmailVerified).Scan(&user.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return &user, nil
}

// ===== CONTACT SUBMISSIONS =====

// CreateContactSubmission сохраняет сообщение формы обратной связи.
func (s *Storage) CreateContactSubmission(ctx context.Context, c models.ContactSubmission) (*models.ContactSubmission, error) {
	const op = "storage.postgresql.CreateContactSubmission"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	c.ID = uuid.NewString()
	query := `INSERT INTO contact_submissions
			      (id, name, first_name, last_name, email, phone, company, company_size, message, privacy_consent)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING submitted_at`
	if err := s.DB.QueryRowContext(ctx, query,
		c.ID, c.Name, c.FirstName, c.LastName, c.Email, c.Phone,
		c.Company, c.CompanySize, c.Message, c.PrivacyConsent).Scan(&c.SubmittedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return &c, nil
}

// GetContactSubmissions возвращает все сообщения.
func (s *Storage) GetContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	const op = "storage.postgresql.GetContactSubmissions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, first_name, last_name, email, phone, company, company_size,
		       message, privacy_consent, submitted_at
		FROM contact_submissions`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := make([]models.ContactSubmission, 0)
	for rows.Next() {
		var c models.ContactSubmission
		if err := rows.Scan(&c.ID, &c.Name, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
			&c.Company, &c.CompanySize, &c.Message, &c.PrivacyConsent, &c.SubmittedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ===== NEWSLETTER =====

// CreateNewsletterSubscription добавляет подписку. Дубликат адреса отсекает
// уникальный индекс по LOWER(email).
func (s *Storage) CreateNewsletterSubscription(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	const op = "storage.postgresql.CreateNewsletterSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	sub := models.NewsletterSubscription{ID: uuid.NewString(), Email: email}
	if err := s.DB.QueryRowContext(ctx,
		`INSERT INTO newsletter_subscriptions (id, email) VALUES ($1, $2) RETURNING subscribed_at`,
		sub.ID, sub.Email).Scan(&sub.SubscribedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return &sub, nil
}

// GetNewsletterSubscriptions возвращает всех подписчиков.
func (s *Storage) GetNewsletterSubscriptions(ctx context.Context) ([]models.NewsletterSubscription, error) {
	const op = "storage.postgresql.GetNewsletterSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, email, subscribed_at FROM newsletter_subscriptions`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := make([]models.NewsletterSubscription, 0)
	for rows.Next() {
		var sub models.NewsletterSubscription
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.SubscribedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// GetNewsletterSubscriptionByEmail ищет подписку по адресу.
func (s *Storage) GetNewsletterSubscriptionByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	const op = "storage.postgresql.GetNewsletterSubscriptionByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var sub models.NewsletterSubscription
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, email, subscribed_at FROM newsletter_subscriptions WHERE LOWER(email) = LOWER($1)`,
		email).Scan(&sub.ID, &sub.Email, &sub.SubscribedAt)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return &sub, nil
}

// ===== REQUESTS =====

const requestColumns = `id, first_name, last_name, full_name, email, phone, company, job_title,
	industry, company_size, current_challenges, project_timeline, budget_range,
	request_types, demo_focus_areas, additional_requirements, preferred_date,
	status, priority, source, ip_address, user_agent, submitted_at, updated_at`

// CreateRequest сохраняет заявку.
func (s *Storage) CreateRequest(ctx context.Context, r models.Request) (*models.Request, error) {
	const op = "storage.postgresql.CreateRequest"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	r.ID = uuid.NewString()
	now := time.Now().UTC()
	r.SubmittedAt, r.UpdatedAt = now, now

	_, err := s.DB.ExecContext(ctx, `INSERT INTO requests (`+requestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		r.ID, r.FirstName, r.LastName, r.FullName, r.Email, r.Phone, r.Company, r.JobTitle,
		r.Industry, r.CompanySize, r.CurrentChallenges, r.ProjectTimeline, r.BudgetRange,
		r.RequestTypes, r.DemoFocusAreas, r.AdditionalRequirements, r.PreferredDate,
		r.Status, r.Priority, r.Source, r.IPAddress, r.UserAgent, r.SubmittedAt, r.UpdatedAt)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return &r, nil
}

// GetRequests возвращает все заявки.
func (s *Storage) GetRequests(ctx context.Context) ([]models.Request, error) {
	const op = "storage.postgresql.GetRequests"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+requestColumns+` FROM requests`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := make([]models.Request, 0)
	for rows.Next() {
		var r models.Request
		if err := rows.Scan(&r.ID, &r.FirstName, &r.LastName, &r.FullName, &r.Email, &r.Phone,
			&r.Company, &r.JobTitle, &r.Industry, &r.CompanySize, &r.CurrentChallenges,
			&r.ProjectTimeline, &r.BudgetRange, &r.RequestTypes, &r.DemoFocusAreas,
			&r.AdditionalRequirements, &r.PreferredDate, &r.Status, &r.Priority, &r.Source,
			&r.IPAddress, &r.UserAgent, &r.SubmittedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.postgresql.Ping"
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}
