package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/hemafield/lead-capture/internal/entity"
	"github.com/hemafield/lead-capture/internal/infra/mail"
	"github.com/hemafield/lead-capture/internal/infra/queue"
	"github.com/hemafield/lead-capture/internal/leadform"
)

const leadSubmittedMessage = "Lead submitted successfully!"

// NewSubmitLeadUseCase builds the intake flow. publisher may be nil when no
// follow-up queue is configured.
func NewSubmitLeadUseCase(
	repo entity.SubscriberRepositoryInterface,
	emailService EmailService,
	publisher LeadEventPublisher,
	ownerEmail string,
) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		Repo:         repo,
		EmailService: emailService,
		Publisher:    publisher,
		OwnerEmail:   ownerEmail,
	}
}

// Execute validates the lead, stores it and tells the owner. The owner email is
// the step that must succeed; storage and the follow-up event are best-effort.
func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*Output, error) {
	if err := leadform.Validate(input.Name, input.Phone, input.Email); err != nil {
		return nil, err
	}

	subscriber := entity.NewSubscriber(input.Email, input.Name, input.Phone, input.Campaign, entity.SourceTikTokPopup)
	persisted := persistSubscriber(ctx, uc.Repo, subscriber, "submit_lead") == nil

	label := input.Campaign.Label()
	link := leadform.WhatsAppLink(input.Phone)

	err := uc.EmailService.SendLeadNotification(ctx, uc.OwnerEmail, mail.LeadNotificationData{
		Name:          subscriber.Name,
		Phone:         subscriber.Phone,
		Email:         subscriber.Email,
		CampaignLabel: label,
		WhatsAppLink:  link,
	})
	if err != nil {
		return nil, &NotificationError{Recipient: uc.OwnerEmail, Err: err}
	}

	slog.InfoContext(ctx, "owner notified of new lead", "email", subscriber.Email, "campaign", input.Campaign)

	if uc.Publisher != nil {
		event := queue.LeadCapturedEvent{
			SubscriberID:  subscriber.ID,
			Name:          subscriber.Name,
			Phone:         subscriber.Phone,
			Email:         subscriber.Email,
			Campaign:      string(input.Campaign),
			CampaignLabel: label,
			Source:        string(subscriber.Source),
			WhatsAppLink:  link,
			CapturedAt:    time.Now().UTC(),
		}
		if err := uc.Publisher.PublishLeadCaptured(ctx, event); err != nil {
			slog.WarnContext(ctx, "lead follow-up not published", "email", subscriber.Email, "err", err)
		}
	}

	return &Output{Success: true, Message: leadSubmittedMessage, Persisted: persisted}, nil
}
