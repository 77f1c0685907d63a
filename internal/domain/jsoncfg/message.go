package jsoncfg

import (
	"fmt"
	"strings"

	"crm/internal/domain"
)

// MessageJSON is the normalized payload accepted when enqueueing an outbox
// message. It is persisted as JSONB alongside the message row.
type MessageJSON struct {
	Version   string `json:"version"`
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Locale    string `json:"locale"`
}

var allowedChannels = map[string]struct{}{
	string(domain.ChannelSMS):   {},
	string(domain.ChannelEmail): {},
}

const (
	// DefaultMessageVersion represents the schema version persisted for messages.
	DefaultMessageVersion = "2025-06"
	// DefaultMessageLocale is applied when no locale preference is provided.
	DefaultMessageLocale = "en"
	// MaxSMSBodyLength caps an SMS at three concatenated GSM segments.
	MaxSMSBodyLength = 459
)

// Normalize ensures the message JSON respects server defaults and limits.
func (m *MessageJSON) Normalize(preferredLocale string) {
	if m == nil {
		return
	}
	if m.Version == "" {
		m.Version = DefaultMessageVersion
	}
	m.Channel = strings.ToLower(strings.TrimSpace(m.Channel))
	m.Recipient = strings.TrimSpace(m.Recipient)
	if m.Locale == "" {
		if preferredLocale != "" {
			m.Locale = preferredLocale
		} else {
			m.Locale = DefaultMessageLocale
		}
	}
	if m.Channel == string(domain.ChannelSMS) {
		m.Subject = ""
		if len(m.Body) > MaxSMSBodyLength {
			m.Body = m.Body[:MaxSMSBodyLength]
		}
	}
}

// Validate ensures the message JSON satisfies the required contract before persistence.
func (m MessageJSON) Validate() error {
	if _, ok := allowedChannels[m.Channel]; !ok {
		return fmt.Errorf("%w: must be one of sms, email", domain.ErrInvalidChannel)
	}
	if m.Recipient == "" {
		return fmt.Errorf("recipient is required")
	}
	if strings.TrimSpace(m.Body) == "" {
		return fmt.Errorf("body is required")
	}
	if m.Channel == string(domain.ChannelEmail) {
		if !strings.Contains(m.Recipient, "@") {
			return fmt.Errorf("recipient must be an email address")
		}
		if strings.TrimSpace(m.Subject) == "" {
			return fmt.Errorf("subject is required for email")
		}
	}
	return nil
}
