package mail

import "gopkg.in/gomail.v2"

type LeadNotificationData struct {
	Name          string
	Phone         string
	Email         string
	CampaignLabel string
	WhatsAppLink  string
}

type ConfirmationData struct {
	DiscountCode string
}

// Dialer is the part of *gomail.Dialer the sender needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	dialer      Dialer
	FromAddress string
	FromName    string
}
