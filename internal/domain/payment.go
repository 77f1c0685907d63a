package domain

import "time"

// PaymentStatus mirrors the gateway transaction lifecycle.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentExpired PaymentStatus = "expired"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment is a registration-fee charge created against an applicant.
type Payment struct {
	ID          string
	OrderID     string // gateway order reference
	ApplicantID string
	AmountInt   int64 // smallest currency unit (IDR has no subunit)
	Status      PaymentStatus
	RedirectURL string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
