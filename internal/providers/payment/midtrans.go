package payment

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crm/internal/infra"
)

// Gateway is the payment capability the handlers depend on.
type Gateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

// Options controls how the Midtrans client is configured.
type Options struct {
	ServerKey  string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client talks to the Midtrans Core API. Charges are created with a bank
// transfer payment page; status changes arrive through the webhook.
type Client struct {
	serverKey  string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// ChargeRequest describes a registration-fee charge.
type ChargeRequest struct {
	OrderID       string
	GrossAmount   int64
	CustomerName  string
	CustomerEmail string
}

// ChargeResponse is the subset of the gateway reply the CRM persists.
type ChargeResponse struct {
	TransactionID string
	Status        string
	RedirectURL   string
}

// NewClient validates options and builds a gateway client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.ServerKey) == "" {
		return nil, fmt.Errorf("payment: server key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.sandbox.midtrans.com/v2"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		serverKey:  strings.TrimSpace(opts.ServerKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

type chargePayload struct {
	PaymentType        string `json:"payment_type"`
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
	} `json:"customer_details"`
}

type chargeReply struct {
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	RedirectURL       string `json:"redirect_url"`
	StatusMessage     string `json:"status_message"`
}

// CreateCharge posts a charge to the gateway and returns the normalized reply.
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	if req.OrderID == "" {
		return nil, fmt.Errorf("payment: order id is required")
	}
	if req.GrossAmount <= 0 {
		return nil, fmt.Errorf("payment: gross amount must be positive")
	}

	var payload chargePayload
	payload.PaymentType = "bank_transfer"
	payload.TransactionDetails.OrderID = req.OrderID
	payload.TransactionDetails.GrossAmount = req.GrossAmount
	payload.CustomerDetails.FirstName = req.CustomerName
	payload.CustomerDetails.Email = req.CustomerEmail

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("payment: encode charge: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charge", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("payment: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment: charge request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("payment: read reply: %w", err)
	}

	var reply chargeReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("payment: decode reply: %w", err)
	}

	if resp.StatusCode >= 300 {
		if c.logger != nil {
			c.logger.Error().Int("status", resp.StatusCode).Str("order_id", req.OrderID).Msg("payment charge rejected")
		}
		return nil, fmt.Errorf("payment: gateway returned %d: %s", resp.StatusCode, reply.StatusMessage)
	}

	return &ChargeResponse{
		TransactionID: reply.TransactionID,
		Status:        reply.TransactionStatus,
		RedirectURL:   reply.RedirectURL,
	}, nil
}

// VerifySignature checks a webhook notification signature:
// sha512(order_id + status_code + gross_amount + server_key).
func (c *Client) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + c.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(signature))) == 1
}

var _ Gateway = (*Client)(nil)
