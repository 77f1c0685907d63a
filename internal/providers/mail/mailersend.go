package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crm/internal/infra"
)

// Sender dispatches a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Options controls how the transactional mail client is configured.
type Options struct {
	APIKey     string
	From       string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client posts messages to a MailerSend-style transactional mail API.
type Client struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient validates options and builds a mail client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("mail: api key is required")
	}
	if strings.TrimSpace(opts.From) == "" {
		return nil, fmt.Errorf("mail: from address is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.mailersend.com/v1"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		from:       strings.TrimSpace(opts.From),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

type address struct {
	Email string `json:"email"`
}

type mailPayload struct {
	From    address   `json:"from"`
	To      []address `json:"to"`
	Subject string    `json:"subject"`
	Text    string    `json:"text"`
}

// Send posts one email. Any non-2xx reply is an error.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("mail: recipient is required")
	}

	raw, err := json.Marshal(mailPayload{
		From:    address{Email: c.from},
		To:      []address{{Email: to}},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("mail: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("mail: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail: send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode >= 300 {
		if c.logger != nil {
			c.logger.Error().Int("status", resp.StatusCode).Msg("mail api rejected message")
		}
		return fmt.Errorf("mail: api returned %d", resp.StatusCode)
	}
	return nil
}

var _ Sender = (*Client)(nil)
