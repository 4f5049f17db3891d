package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hemafield/lead-capture/internal/entity"
	"github.com/hemafield/lead-capture/internal/infra/mail"
	"github.com/hemafield/lead-capture/internal/infra/queue"
	"github.com/hemafield/lead-capture/internal/leadform"
)

const ownerEmail = "owner@shop.test"

// MockSubscriberRepository
type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) Upsert(ctx context.Context, s *entity.Subscriber) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubscriberRepository) FindByEmail(ctx context.Context, email string) (*entity.Subscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subscriber), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLeadNotification(ctx context.Context, to string, data mail.LeadNotificationData) error {
	args := m.Called(ctx, to, data)
	return args.Error(0)
}

func (m *MockEmailService) SendSubscriptionConfirmation(ctx context.Context, to string, campaign entity.Campaign) error {
	args := m.Called(ctx, to, campaign)
	return args.Error(0)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadCaptured(ctx context.Context, event queue.LeadCapturedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func validLead() SubmitLeadInput {
	return SubmitLeadInput{
		Name:     "Ada",
		Phone:    "+234-801-111-2222",
		Email:    "ada@test.com",
		Campaign: entity.CampaignTikTokDiscount,
	}
}

func TestSubmitLeadSuccess(t *testing.T) {
	repo := new(MockSubscriberRepository)
	emails := new(MockEmailService)
	pub := new(MockPublisher)

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *entity.Subscriber) bool {
		return s.Email == "ada@test.com" && s.Name == "Ada" &&
			s.Source == entity.SourceTikTokPopup && s.Campaign == entity.CampaignTikTokDiscount
	})).Return(nil)

	emails.On("SendLeadNotification", mock.Anything, ownerEmail, mail.LeadNotificationData{
		Name:          "Ada",
		Phone:         "+234-801-111-2222",
		Email:         "ada@test.com",
		CampaignLabel: "TikTok Discount",
		WhatsAppLink:  "https://wa.me/2348011112222",
	}).Return(nil)

	pub.On("PublishLeadCaptured", mock.Anything, mock.MatchedBy(func(e queue.LeadCapturedEvent) bool {
		return e.Email == "ada@test.com" && e.CampaignLabel == "TikTok Discount" && e.Source == "tiktok_popup"
	})).Return(nil)

	uc := NewSubmitLeadUseCase(repo, emails, pub, ownerEmail)
	out, err := uc.Execute(context.Background(), validLead())

	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.True(t, out.Persisted)
	assert.Equal(t, "Lead submitted successfully!", out.Message)
	repo.AssertExpectations(t)
	emails.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestSubmitLeadValidationFailsFast(t *testing.T) {
	repo := new(MockSubscriberRepository)
	emails := new(MockEmailService)
	uc := NewSubmitLeadUseCase(repo, emails, nil, ownerEmail)

	input := validLead()
	input.Phone = "0801"

	_, err := uc.Execute(context.Background(), input)

	var vErr *leadform.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, leadform.PhoneInvalid, vErr.Kind)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	emails.AssertNotCalled(t, "SendLeadNotification", mock.Anything, mock.Anything, mock.Anything)
}

// TestSubmitLeadUpsertFailureStillNotifies - storage is best-effort, the owner email still goes out
func TestSubmitLeadUpsertFailureStillNotifies(t *testing.T) {
	repo := new(MockSubscriberRepository)
	emails := new(MockEmailService)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	emails.On("SendLeadNotification", mock.Anything, ownerEmail, mock.Anything).Return(nil)

	uc := NewSubmitLeadUseCase(repo, emails, nil, ownerEmail)
	out, err := uc.Execute(context.Background(), validLead())

	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.False(t, out.Persisted)
	emails.AssertExpectations(t)
}

func TestSubmitLeadEmailFailure(t *testing.T) {
	repo := new(MockSubscriberRepository)
	emails := new(MockEmailService)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	emails.On("SendLeadNotification", mock.Anything, ownerEmail, mock.Anything).Return(errors.New("smtp timeout"))

	uc := NewSubmitLeadUseCase(repo, emails, nil, ownerEmail)
	_, err := uc.Execute(context.Background(), validLead())

	require.Error(t, err)
	assert.True(t, IsNotificationError(err))
	assert.False(t, IsPersistenceError(err))
}

func TestSubmitLeadPublishFailureIgnored(t *testing.T) {
	repo := new(MockSubscriberRepository)
	emails := new(MockEmailService)
	pub := new(MockPublisher)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	emails.On("SendLeadNotification", mock.Anything, ownerEmail, mock.Anything).Return(nil)
	pub.On("PublishLeadCaptured", mock.Anything, mock.Anything).Return(errors.New("broker gone"))

	uc := NewSubmitLeadUseCase(repo, emails, pub, ownerEmail)
	out, err := uc.Execute(context.Background(), validLead())

	require.NoError(t, err)
	assert.True(t, out.Success)
}

func TestSubmitLeadUnknownCampaignLabel(t *testing.T) {
	repo := new(MockSubscriberRepository)
	emails := new(MockEmailService)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	emails.On("SendLeadNotification", mock.Anything, ownerEmail, mock.MatchedBy(func(d mail.LeadNotificationData) bool {
		return d.CampaignLabel == "Website Discount"
	})).Return(nil)

	input := validLead()
	input.Campaign = ""

	_, err := NewSubmitLeadUseCase(repo, emails, nil, ownerEmail).Execute(context.Background(), input)
	require.NoError(t, err)
	emails.AssertExpectations(t)
}

func TestSubscribeSuccess(t *testing.T) {
	repo := new(MockSubscriberRepository)
	emails := new(MockEmailService)

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *entity.Subscriber) bool {
		return s.Email == "ada@test.com" && s.Source == entity.SourcePopup && s.Name == ""
	})).Return(nil)
	emails.On("SendSubscriptionConfirmation", mock.Anything, "ada@test.com", entity.CampaignValentine).Return(nil)

	out, err := NewSubscribeUseCase(repo, emails).Execute(context.Background(), SubscribeInput{
		Email:    "ada@test.com",
		Campaign: entity.CampaignValentine,
	})

	require.NoError(t, err)
	assert.Equal(t, "Subscribed successfully!", out.Message)
	repo.AssertExpectations(t)
	emails.AssertExpectations(t)
}

func TestSubscribeInvalidEmail(t *testing.T) {
	repo := new(MockSubscriberRepository)
	emails := new(MockEmailService)

	_, err := NewSubscribeUseCase(repo, emails).Execute(context.Background(), SubscribeInput{Email: "a@b"})

	var vErr *leadform.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, leadform.EmailInvalid, vErr.Kind)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSubscribePersistencePolicy(t *testing.T) {
	t.Run("Duplicate key counts as stored", func(t *testing.T) {
		repo := new(MockSubscriberRepository)
		emails := new(MockEmailService)

		repo.On("Upsert", mock.Anything, mock.Anything).Return(entity.ErrDuplicateSubscriber)
		emails.On("SendSubscriptionConfirmation", mock.Anything, "ada@test.com", entity.CampaignDiscount).Return(nil)

		out, err := NewSubscribeUseCase(repo, emails).Execute(context.Background(), SubscribeInput{
			Email:    "ada@test.com",
			Campaign: entity.CampaignDiscount,
		})
		require.NoError(t, err)
		assert.True(t, out.Persisted)
	})

	t.Run("Other upsert errors do not block the confirmation", func(t *testing.T) {
		repo := new(MockSubscriberRepository)
		emails := new(MockEmailService)

		repo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("relation does not exist"))
		emails.On("SendSubscriptionConfirmation", mock.Anything, "ada@test.com", entity.CampaignDiscount).Return(nil)

		out, err := NewSubscribeUseCase(repo, emails).Execute(context.Background(), SubscribeInput{
			Email:    "ada@test.com",
			Campaign: entity.CampaignDiscount,
		})
		require.NoError(t, err)
		assert.False(t, out.Persisted)
		emails.AssertExpectations(t)
	})
}

func TestSubscribeEmailFailure(t *testing.T) {
	repo := new(MockSubscriberRepository)
	emails := new(MockEmailService)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	emails.On("SendSubscriptionConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bounced"))

	_, err := NewSubscribeUseCase(repo, emails).Execute(context.Background(), SubscribeInput{Email: "ada@test.com"})
	assert.True(t, IsNotificationError(err))
}
