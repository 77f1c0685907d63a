package sms

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

// Sender dispatches a single SMS.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Options controls how the SMS gateway client is configured.
type Options struct {
	APIKey     string
	SenderID   string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client posts messages to a Zenziva-style HTTP SMS gateway.
type Client struct {
	apiKey     string
	senderID   string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient validates options and builds an SMS client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("sms: api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://sms.zenziva.net/api"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		senderID:   opts.SenderID,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

type sendPayload struct {
	To     string `json:"to"`
	From   string `json:"from"`
	Text   string `json:"text"`
	APIKey string `json:"api_key"`
}

type sendReply struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Send posts one message. A non-zero gateway status is an error.
func (c *Client) Send(ctx context.Context, to, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("sms: recipient is required")
	}

	raw, err := json.Marshal(sendPayload{To: to, From: c.senderID, Text: body, APIKey: c.apiKey})
	if err != nil {
		return fmt.Errorf("sms: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sendsms", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send request: %w", err)
	}
	defer resp.Body.Close()

	replyRaw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("sms: read reply: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms: gateway returned %d", resp.StatusCode)
	}

	var reply sendReply
	if err := json.Unmarshal(replyRaw, &reply); err != nil {
		return fmt.Errorf("sms: decode reply: %w", err)
	}
	if reply.Status != 0 {
		if c.logger != nil {
			c.logger.Error().Int("gateway_status", reply.Status).Msg("sms gateway rejected message")
		}
		return fmt.Errorf("sms: gateway status %d: %s", reply.Status, reply.Message)
	}
	return nil
}

var _ Sender = (*Client)(nil)
