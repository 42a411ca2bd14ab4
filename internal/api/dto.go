package api

import "github.com/tari-project/minotari-payment-processor/internal/types"

// submitPaymentRequest is the POST /payments request body (spec §4.3, §6).
type submitPaymentRequest struct {
	ClientID         string  `json:"client_id"`
	AccountName      string  `json:"account_name"`
	RecipientAddress string  `json:"recipient_address"`
	Amount           int64   `json:"amount"`
	PaymentID        *string `json:"payment_id,omitempty"`
}

// errorResponse is the body returned on any non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// paymentListResponse wraps a slice of payments for the non-central list
// endpoints (spec §6: "list by batch, list by status").
type paymentListResponse struct {
	Payments []*types.Payment `json:"payments"`
}
