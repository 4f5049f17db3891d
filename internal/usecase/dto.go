package usecase

import "github.com/hemafield/lead-capture/internal/entity"

type SubmitLeadInput struct {
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Email    string          `json:"email"`
	Campaign entity.Campaign `json:"campaign"`
}

type SubscribeInput struct {
	Email    string          `json:"email"`
	Campaign entity.Campaign `json:"campaign"`
}

type Output struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Persisted is false when the upsert failed and the flow carried on.
	Persisted bool `json:"-"`
}
