package usecase

import (
	"context"
	"log/slog"

	"github.com/hemafield/lead-capture/internal/entity"
	"github.com/hemafield/lead-capture/internal/leadform"
)

const subscribedMessage = "Subscribed successfully!"

func NewSubscribeUseCase(repo entity.SubscriberRepositoryInterface, emailService EmailService) *SubscribeUseCase {
	return &SubscribeUseCase{
		Repo:         repo,
		EmailService: emailService,
	}
}

func (uc *SubscribeUseCase) Execute(ctx context.Context, input SubscribeInput) (*Output, error) {
	if err := leadform.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	subscriber := entity.NewSubscriber(input.Email, "", "", input.Campaign, entity.SourcePopup)
	persisted := persistSubscriber(ctx, uc.Repo, subscriber, "subscribe") == nil

	if err := uc.EmailService.SendSubscriptionConfirmation(ctx, subscriber.Email, input.Campaign); err != nil {
		return nil, &NotificationError{Recipient: subscriber.Email, Err: err}
	}

	slog.InfoContext(ctx, "subscription confirmed", "email", subscriber.Email, "campaign", input.Campaign)

	return &Output{Success: true, Message: subscribedMessage, Persisted: persisted}, nil
}
