package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"crm/internal/domain"
)

func TestMapGatewayStatus(t *testing.T) {
	cases := []struct {
		transactionStatus string
		fraudStatus       string
		want              domain.PaymentStatus
	}{
		{"capture", "accept", domain.PaymentPaid},
		{"capture", "challenge", domain.PaymentPending},
		{"settlement", "", domain.PaymentPaid},
		{"expire", "", domain.PaymentExpired},
		{"deny", "", domain.PaymentFailed},
		{"cancel", "", domain.PaymentFailed},
		{"failure", "", domain.PaymentFailed},
		{"pending", "", domain.PaymentPending},
		{"", "", domain.PaymentPending},
	}

	for _, tc := range cases {
		got := mapGatewayStatus(tc.transactionStatus, tc.fraudStatus)
		require.Equal(t, tc.want, got, "transaction_status=%q fraud_status=%q", tc.transactionStatus, tc.fraudStatus)
	}
}
