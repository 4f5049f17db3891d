package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hemafield/lead-capture/internal/infra/queue"
)

var ErrNotConfigured = errors.New("kommo not configured")

type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type embeddedIDs struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}

// CreateLead opens a CRM lead for a captured visitor, attached to the contact
// that already holds their phone number or to a new one.
func (c *Client) CreateLead(ctx context.Context, event queue.LeadCapturedEvent) (int, error) {
	if c.apiToken == "" || c.baseURL == "" {
		return 0, ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, event)
	if err != nil {
		return 0, fmt.Errorf("find or create contact: %w", err)
	}

	leadData := []map[string]any{
		{
			"name": fmt.Sprintf("%s - %s", event.Name, event.CampaignLabel),
			"_embedded": map[string]any{
				"tags": []map[string]any{
					{"name": event.Campaign},
					{"name": event.Source},
				},
				"contacts": []map[string]any{
					{"id": contactID},
				},
			},
		},
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/leads", leadData, &result); err != nil {
		return 0, fmt.Errorf("create lead: %w", err)
	}

	if len(result.Embedded.Leads) == 0 {
		return 0, errors.New("kommo returned no lead")
	}

	leadID := result.Embedded.Leads[0].ID
	slog.InfoContext(ctx, "kommo lead created", "lead_id", leadID, "email", event.Email)
	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, event queue.LeadCapturedEvent) (int, error) {
	var found embeddedIDs
	// 204 leaves found empty; any other failure must not fall through to a
	// second contact for the same phone.
	if err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(event.Phone), nil, &found); err != nil {
		return 0, fmt.Errorf("lookup contact: %w", err)
	}
	if len(found.Embedded.Contacts) > 0 {
		return found.Embedded.Contacts[0].ID, nil
	}

	contactData := []map[string]any{
		{
			"name": event.Name,
			"custom_fields_values": []map[string]any{
				{
					"field_code": "PHONE",
					"values":     []map[string]any{{"value": event.Phone, "enum_code": "WORK"}},
				},
				{
					"field_code": "EMAIL",
					"values":     []map[string]any{{"value": event.Email, "enum_code": "WORK"}},
				},
			},
		},
	}

	var created embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/contacts", contactData, &created); err != nil {
		return 0, err
	}

	if len(created.Embedded.Contacts) == 0 {
		return 0, errors.New("kommo returned no contact")
	}
	return created.Embedded.Contacts[0].ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("kommo %s %s: %d - %s", method, path, resp.StatusCode, string(raw))
	}

	return json.Unmarshal(raw, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
