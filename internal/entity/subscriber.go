package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Source string

const (
	SourceTikTokPopup Source = "tiktok_popup"
	SourcePopup       Source = "popup"
)

// Subscriber is a captured lead. Email is the natural key: a later submission
// with the same address updates the existing row.
type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Campaign  Campaign  `json:"campaign"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSubscriber(email, name, phone string, campaign Campaign, source Source) *Subscriber {
	return &Subscriber{
		ID:       uuid.New().String(),
		Email:    strings.TrimSpace(email),
		Name:     strings.TrimSpace(name),
		Phone:    strings.TrimSpace(phone),
		Campaign: campaign,
		Source:   source,
	}
}

type SubscriberRepositoryInterface interface {
	// Upsert inserts the subscriber or updates the row holding the same email.
	// Empty Name/Phone keep whatever is stored. On return s.ID holds the
	// persisted ID.
	Upsert(ctx context.Context, s *Subscriber) error
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
}
