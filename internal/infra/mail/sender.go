package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/hemafield/lead-capture/internal/entity"
)

const discountCode = "HEMA2000"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type confirmation struct {
	template string
	subject  string
}

var (
	discountConfirmation = confirmation{
		template: "discount_confirmation.html",
		subject:  "🌸 Your ₦2,000 Discount is Ready!",
	}
	valentineConfirmation = confirmation{
		template: "valentine_confirmation.html",
		subject:  "💐 You're on the Valentine's Early Access List!",
	}
)

func NewEmailSender(host string, port int, user, password, fromAddress, fromName string) *EmailSender {
	return NewEmailSenderWithDialer(gomail.NewDialer(host, port, user, password), fromAddress, fromName)
}

func NewEmailSenderWithDialer(d Dialer, fromAddress, fromName string) *EmailSender {
	return &EmailSender{
		dialer:      d,
		FromAddress: fromAddress,
		FromName:    fromName,
	}
}

// SendLeadNotification tells the shop owner about a new lead.
func (s *EmailSender) SendLeadNotification(ctx context.Context, to string, data LeadNotificationData) error {
	body, err := RenderLeadNotification(data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("🌹 New Lead: %s (%s)", data.Name, data.CampaignLabel)
	return s.send(ctx, to, subject, body)
}

// SendSubscriptionConfirmation sends the visitor the template for their
// campaign: the discount code for "discount", the valentine list otherwise.
func (s *EmailSender) SendSubscriptionConfirmation(ctx context.Context, to string, campaign entity.Campaign) error {
	subject, body, err := RenderConfirmation(campaign)
	if err != nil {
		return err
	}

	return s.send(ctx, to, subject, body)
}

func RenderLeadNotification(data LeadNotificationData) (string, error) {
	return render("lead_notification.html", data)
}

func RenderConfirmation(campaign entity.Campaign) (subject, body string, err error) {
	c := confirmationFor(campaign)
	body, err = render(c.template, ConfirmationData{DiscountCode: discountCode})
	return c.subject, body, err
}

func confirmationFor(campaign entity.Campaign) confirmation {
	if campaign == entity.CampaignDiscount {
		return discountConfirmation
	}
	return valentineConfirmation
}

func render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return body.String(), nil
}

func (s *EmailSender) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.FromAddress, s.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email via SMTP: %w", err)
	}

	return nil
}
