package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubExecutor struct {
	token string
	err   error
	exec  struct {
		query string
		args  []any
	}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.exec.query = query
	s.exec.args = args
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return stubRow{token: s.token, err: s.err}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	token string
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 0 {
		return errors.New("no dest")
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	*ptr = r.token
	return nil
}

func TestPaymentServerKey(t *testing.T) {
	store := NewStore(&stubExecutor{token: " sk-mid "})
	key, err := store.PaymentServerKey(context.Background())
	if err != nil {
		t.Fatalf("PaymentServerKey error: %v", err)
	}
	if key != "sk-mid" {
		t.Fatalf("expected sk-mid, got %q", key)
	}
}

func TestPaymentServerKey_NoRows(t *testing.T) {
	store := NewStore(&stubExecutor{err: pgx.ErrNoRows})
	key, err := store.PaymentServerKey(context.Background())
	if err != nil {
		t.Fatalf("PaymentServerKey error: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestSMSAPIKey(t *testing.T) {
	store := NewStore(&stubExecutor{token: " zen-123 "})
	key, err := store.SMSAPIKey(context.Background())
	if err != nil {
		t.Fatalf("SMSAPIKey error: %v", err)
	}
	if key != "zen-123" {
		t.Fatalf("expected zen-123, got %q", key)
	}
}

func TestMailAPIKey(t *testing.T) {
	store := NewStore(&stubExecutor{token: " ms-456 "})
	key, err := store.MailAPIKey(context.Background())
	if err != nil {
		t.Fatalf("MailAPIKey error: %v", err)
	}
	if key != "ms-456" {
		t.Fatalf("expected ms-456, got %q", key)
	}
}

func TestSetToken(t *testing.T) {
	exec := &stubExecutor{}
	store := NewStore(exec)
	if err := store.SetToken(context.Background(), "payment", "secret"); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}
	if len(exec.exec.args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(exec.exec.args))
	}
	if v, ok := exec.exec.args[1].(string); !ok || v != "secret" {
		t.Fatalf("expected secret argument, got %T %v", exec.exec.args[1], exec.exec.args[1])
	}
}

func TestSetTokenEmpty(t *testing.T) {
	store := NewStore(&stubExecutor{})
	if err := store.SetToken(context.Background(), "sms", " "); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestSetTokenUnknownProvider(t *testing.T) {
	store := NewStore(&stubExecutor{})
	if err := store.SetToken(context.Background(), "telegram", "secret"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
