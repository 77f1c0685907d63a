package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"crm/internal/domain"
	"crm/internal/providers/payment"
	"crm/internal/sqlinline"
)

type paymentRequest struct {
	ApplicantID string `json:"applicant_id"`
	AmountInt   int64  `json:"amount"`
}

func (a *App) PaymentsCreate(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ApplicantID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "applicant_id required")
		return
	}
	if req.AmountInt <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be positive")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectApplicantByID, req.ApplicantID)
	applicant, err := scanApplicant(row.Scan)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "applicant not found")
		return
	}

	orderID := "REG-" + uuid.NewString()
	charge, err := a.Payments.CreateCharge(r.Context(), payment.ChargeRequest{
		OrderID:       orderID,
		GrossAmount:   req.AmountInt,
		CustomerName:  applicant.FullName,
		CustomerEmail: applicant.Email,
	})
	if err != nil {
		a.Logger.Error().Err(fmt.Errorf("%w: %v", domain.ErrGatewayFailure, err)).
			Str("order_id", orderID).Msg("charge failed")
		a.error(w, http.StatusBadGateway, "gateway", "failed to create charge")
		return
	}

	status := domain.PaymentStatus(charge.Status)
	if status == "" {
		status = domain.PaymentPending
	}
	var paymentID string
	insert := a.SQL.QueryRow(r.Context(), sqlinline.QInsertPayment,
		orderID, req.ApplicantID, req.AmountInt, string(status), charge.RedirectURL)
	if err := insert.Scan(&paymentID); err != nil {
		a.Logger.Error().Err(err).Str("order_id", orderID).Msg("persist payment failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to persist payment")
		return
	}

	a.json(w, http.StatusCreated, map[string]any{
		"id":           paymentID,
		"order_id":     orderID,
		"status":       status,
		"redirect_url": charge.RedirectURL,
	})
}

func (a *App) PaymentsList(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListPayments, r.URL.Query().Get("applicant_id"), 100)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load payments")
		return
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var p domain.Payment
		var status string
		if err := rows.Scan(&p.ID, &p.OrderID, &p.ApplicantID, &p.AmountInt, &status, &p.RedirectURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load payments")
			return
		}
		p.Status = domain.PaymentStatus(status)
		items = append(items, map[string]any{
			"id":           p.ID,
			"order_id":     p.OrderID,
			"applicant_id": p.ApplicantID,
			"amount":       p.AmountInt,
			"status":       string(p.Status),
			"redirect_url": p.RedirectURL,
			"created_at":   p.CreatedAt,
			"updated_at":   p.UpdatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type gatewayNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// PaymentsWebhook handles gateway status notifications. Unsigned or badly
// signed notifications are rejected; unknown orders are acknowledged so the
// gateway stops retrying.
func (a *App) PaymentsWebhook(w http.ResponseWriter, r *http.Request) {
	var n gatewayNotification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if !a.Payments.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		a.Logger.Warn().Str("order_id", n.OrderID).Msg("webhook signature mismatch")
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid signature")
		return
	}

	status := mapGatewayStatus(n.TransactionStatus, n.FraudStatus)
	row := a.SQL.QueryRow(r.Context(), sqlinline.QUpdatePaymentStatusByOrderID, n.OrderID, string(status))
	var id string
	if err := row.Scan(&id); err != nil {
		a.Logger.Warn().Str("order_id", n.OrderID).Msg("webhook for unknown order")
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func mapGatewayStatus(transactionStatus, fraudStatus string) domain.PaymentStatus {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return domain.PaymentPending
		}
		return domain.PaymentPaid
	case "settlement":
		return domain.PaymentPaid
	case "expire":
		return domain.PaymentExpired
	case "deny", "cancel", "failure":
		return domain.PaymentFailed
	default:
		return domain.PaymentPending
	}
}
