package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"crm/internal/infra"
	"crm/internal/sqlinline"
)

const (
	ProviderPayment = "payment"
	ProviderSMS     = "sms"
	ProviderMail    = "mail"
)

// Store reads and writes third-party gateway credentials persisted in the
// database, used as a fallback when the key is not set in the environment.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

func (s *Store) PaymentServerKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderPayment)
}

func (s *Store) SMSAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderSMS)
}

func (s *Store) MailAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderMail)
}

func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	provider = strings.TrimSpace(strings.ToLower(provider))
	switch provider {
	case ProviderPayment, ProviderSMS, ProviderMail:
	default:
		return errors.New("unknown credential provider")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("credential token is required")
	}
	return s.upsert(ctx, provider, token, nil)
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
