package entity

import "errors"

var (
	ErrSubscriberNotFound  = errors.New("subscriber not found")
	ErrDuplicateSubscriber = errors.New("subscriber already exists")
)

// Campaign tags the marketing context a lead came from.
type Campaign string

const (
	CampaignValentine      Campaign = "valentine"
	CampaignTikTokDiscount Campaign = "tiktok_discount"
	CampaignDiscount       Campaign = "discount"
)

// Label is the human name used in owner notifications. Unknown tags fall back
// to the generic website discount.
func (c Campaign) Label() string {
	switch c {
	case CampaignValentine:
		return "Valentine Early Access"
	case CampaignTikTokDiscount:
		return "TikTok Discount"
	default:
		return "Website Discount"
	}
}
