package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend(t *testing.T) {
	var got sendPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sendsms" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		_ = json.NewEncoder(w).Encode(sendReply{Status: 0, Message: "ok"})
	}))
	defer srv.Close()

	client, err := NewClient(Options{APIKey: "key", SenderID: "ADMISSIONS", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if err := client.Send(context.Background(), "+628123456789", "interview tomorrow 9am"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if got.To != "+628123456789" {
		t.Fatalf("to = %q", got.To)
	}
	if got.From != "ADMISSIONS" {
		t.Fatalf("from = %q", got.From)
	}
}

func TestSendGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sendReply{Status: 5, Message: "invalid number"})
	}))
	defer srv.Close()

	client, err := NewClient(Options{APIKey: "key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if err := client.Send(context.Background(), "+628123", "hi"); err == nil {
		t.Fatal("expected error for gateway rejection")
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	client, err := NewClient(Options{APIKey: "key"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if err := client.Send(context.Background(), " ", "hi"); err == nil {
		t.Fatal("expected error for empty recipient")
	}
}
