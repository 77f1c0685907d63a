package domain

import "time"

// MessageChannel selects the delivery transport for an outbox message.
type MessageChannel string

const (
	ChannelSMS   MessageChannel = "sms"
	ChannelEmail MessageChannel = "email"
)

// MessageStatus tracks an outbox message through dispatch.
type MessageStatus string

const (
	MessageQueued  MessageStatus = "queued"
	MessageSending MessageStatus = "sending"
	MessageSent    MessageStatus = "sent"
	MessageFailed  MessageStatus = "failed"
)

// Message is a queued SMS or email addressed to an applicant. Messages are
// written by the API and drained by the outbox worker.
type Message struct {
	ID          string
	ApplicantID string
	Channel     MessageChannel
	Recipient   string // phone number or email address
	Subject     string // empty for SMS
	Body        string
	Status      MessageStatus
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
