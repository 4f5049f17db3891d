// Package leadclient submits popup forms to the lead endpoints. It runs the
// shared leadform rules first so an invalid form never leaves the client.
package leadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hemafield/lead-capture/internal/entity"
	"github.com/hemafield/lead-capture/internal/leadform"
)

const rulesVersionHeader = "X-Leadform-Version"

var (
	GenericFailureNotice = leadform.Notice{
		Title:       "Something went wrong",
		Description: "Please try again later",
		Destructive: true,
	}
	leadSuccessNotice = leadform.Notice{
		Title:       "Success! 🌹",
		Description: "We'll reach out soon with your discount!",
	}
	discountSuccessNotice = leadform.Notice{
		Title:       "Success! 🌹",
		Description: "Check your inbox for your ₦2,000 discount code!",
	}
	valentineSuccessNotice = leadform.Notice{
		Title:       "Success! 💕",
		Description: "You're on the Valentine's early access list!",
	}
)

// NetworkError is any failed call to the lead endpoints: transport errors and
// non-2xx answers alike. Callers show GenericFailureNotice.
type NetworkError struct {
	Op         string
	StatusCode int
	// Message is the server's "error" field, kept for logs only.
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type Form struct {
	Name     string
	Phone    string
	Email    string
	Campaign entity.Campaign
}

// Result is what the popup needs after a submission attempt.
type Result struct {
	Notice      leadform.Notice
	ContactLink string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitLead validates and posts a lead form. The returned Result always
// carries the notice to show, also when err is non-nil.
func (c *Client) SubmitLead(ctx context.Context, form Form) (Result, error) {
	if err := leadform.Validate(form.Name, form.Phone, form.Email); err != nil {
		return Result{Notice: noticeFor(err)}, err
	}

	payload := map[string]string{
		"name":     form.Name,
		"phone":    form.Phone,
		"email":    form.Email,
		"campaign": string(form.Campaign),
	}

	if err := c.post(ctx, "/submit-lead", payload); err != nil {
		return Result{Notice: GenericFailureNotice}, err
	}

	return Result{
		Notice:      leadSuccessNotice,
		ContactLink: leadform.WhatsAppLink(form.Phone),
	}, nil
}

// Subscribe validates the email and signs it up for a popup campaign.
func (c *Client) Subscribe(ctx context.Context, email string, campaign entity.Campaign) (Result, error) {
	if err := leadform.ValidateEmail(email); err != nil {
		return Result{Notice: noticeFor(err)}, err
	}

	payload := map[string]string{
		"email":    email,
		"campaign": string(campaign),
	}

	if err := c.post(ctx, "/subscribe", payload); err != nil {
		return Result{Notice: GenericFailureNotice}, err
	}

	if campaign == entity.CampaignDiscount {
		return Result{Notice: discountSuccessNotice}, nil
	}
	return Result{Notice: valentineSuccessNotice}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &NetworkError{Op: "POST " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(rulesVersionHeader, leadform.RulesVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "POST " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&apiErr)
		return &NetworkError{Op: "POST " + path, StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

func noticeFor(err error) leadform.Notice {
	var vErr *leadform.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Notice()
	}
	return GenericFailureNotice
}
