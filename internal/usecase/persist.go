package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hemafield/lead-capture/internal/entity"
)

// persistSubscriber applies the persistence policy shared by both flows: a
// duplicate key counts as stored, anything else is logged and returned as a
// *PersistenceError for the caller to record, never to abort on.
func persistSubscriber(ctx context.Context, repo entity.SubscriberRepositoryInterface, s *entity.Subscriber, flow string) error {
	err := repo.Upsert(ctx, s)
	if err == nil {
		return nil
	}

	if errors.Is(err, entity.ErrDuplicateSubscriber) {
		slog.InfoContext(ctx, "subscriber already stored", "flow", flow, "email", s.Email)
		return nil
	}

	slog.ErrorContext(ctx, "subscriber upsert failed", "flow", flow, "email", s.Email, "err", err)
	return &PersistenceError{Email: s.Email, Err: err}
}
