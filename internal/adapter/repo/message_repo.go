package repo

import (
	"context"

	"crm/internal/domain"
	"crm/internal/infra"
	"crm/internal/sqlinline"
)

// MessageRepositoryPG implements domain.MessageRepository on PostgreSQL.
type MessageRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewMessageRepository(sql infra.SQLExecutor) *MessageRepositoryPG {
	return &MessageRepositoryPG{sql: sql}
}

// ClaimQueued atomically takes the oldest queued message and moves it to
// sending. Returns domain.ErrNotFound when the outbox is empty. Safe for
// concurrent workers via FOR UPDATE SKIP LOCKED.
func (r *MessageRepositoryPG) ClaimQueued(ctx context.Context) (*domain.Message, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QClaimQueuedMessage)
	var msg domain.Message
	if err := row.Scan(&msg.ID, &msg.ApplicantID, &msg.Channel, &msg.Recipient, &msg.Subject, &msg.Body); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	msg.Status = domain.MessageSending
	return &msg, nil
}

// MarkSent finalizes a dispatched message.
func (r *MessageRepositoryPG) MarkSent(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkMessageSent, id)
	return err
}

// MarkFailed records a dispatch failure. Failed messages stay visible for
// manual retry rather than being requeued.
func (r *MessageRepositoryPG) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkMessageFailed, id, reason)
	return err
}

var _ domain.MessageRepository = (*MessageRepositoryPG)(nil)
