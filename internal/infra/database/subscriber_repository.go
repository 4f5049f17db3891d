package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/hemafield/lead-capture/internal/entity"
)

type SubscriberRepository struct {
	DB *sql.DB
}

func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{DB: db}
}

func (r *SubscriberRepository) Upsert(ctx context.Context, s *entity.Subscriber) error {
	query := `
		INSERT INTO subscribers (id, email, name, phone, campaign, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(EXCLUDED.name, subscribers.name),
			phone = COALESCE(EXCLUDED.phone, subscribers.phone),
			campaign = EXCLUDED.campaign,
			source = EXCLUDED.source,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	err := r.DB.QueryRowContext(ctx, query,
		s.ID,
		s.Email,
		nullString(s.Name),
		nullString(s.Phone),
		string(s.Campaign),
		string(s.Source),
	).Scan(&s.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %v", entity.ErrDuplicateSubscriber, err)
		}
		return fmt.Errorf("upsert subscriber: %w", err)
	}

	return nil
}

func (r *SubscriberRepository) FindByEmail(ctx context.Context, email string) (*entity.Subscriber, error) {
	query := `
		SELECT id, email, name, phone, campaign, source, created_at, updated_at
		FROM subscribers
		WHERE email = $1
	`

	var (
		s           entity.Subscriber
		name, phone sql.NullString
		campaign    string
		source      string
	)

	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&s.ID,
		&s.Email,
		&name,
		&phone,
		&campaign,
		&source,
		timestamp{&s.CreatedAt},
		timestamp{&s.UpdatedAt},
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSubscriberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}

	s.Name = name.String
	s.Phone = phone.String
	s.Campaign = entity.Campaign(campaign)
	s.Source = entity.Source(source)

	return &s, nil
}

// isDuplicateKey recognises unique violations from lib/pq (SQLSTATE 23505)
// and, by message, from any other driver.
func isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// timestamp scans both native time values (lib/pq) and the text form
// CURRENT_TIMESTAMP produces in SQLite.
type timestamp struct {
	t *time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

func (ts timestamp) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*ts.t = time.Time{}
		return nil
	case time.Time:
		*ts.t = v
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			*ts.t = t
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", raw)
}
