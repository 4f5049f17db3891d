package usecase

import (
	"context"

	"github.com/hemafield/lead-capture/internal/entity"
	"github.com/hemafield/lead-capture/internal/infra/mail"
	"github.com/hemafield/lead-capture/internal/infra/queue"
)

type EmailService interface {
	SendLeadNotification(ctx context.Context, to string, data mail.LeadNotificationData) error
	SendSubscriptionConfirmation(ctx context.Context, to string, campaign entity.Campaign) error
}

type LeadEventPublisher interface {
	PublishLeadCaptured(ctx context.Context, event queue.LeadCapturedEvent) error
}

type SubmitLeadUseCase struct {
	Repo         entity.SubscriberRepositoryInterface
	EmailService EmailService
	Publisher    LeadEventPublisher
	OwnerEmail   string
}

type SubscribeUseCase struct {
	Repo         entity.SubscriberRepositoryInterface
	EmailService EmailService
}
