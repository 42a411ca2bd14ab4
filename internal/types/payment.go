// Package types holds the in-memory domain model shared by the Store, the
// ingress API, and every worker: Payment and PaymentBatch, their status
// enums, and the invariants that bind them together (spec §3).
package types

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the closed set of states a Payment can occupy (§3).
type PaymentStatus string

const (
	PaymentReceived PaymentStatus = "RECEIVED"
	PaymentBatched  PaymentStatus = "BATCHED"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
	PaymentFailed   PaymentStatus = "FAILED"
)

// ValidPaymentStatuses enumerates every PaymentStatus, for exhaustive
// validation at the storage boundary.
var ValidPaymentStatuses = map[PaymentStatus]bool{
	PaymentReceived:  true,
	PaymentBatched:   true,
	PaymentConfirmed: true,
	PaymentFailed:    true,
}

// Payment is the in-memory representation of a single payment request,
// mirroring the `payments` table column-for-column (spec §3).
type Payment struct {
	ID               uuid.UUID     `json:"id"`
	ClientID         string        `json:"clientId"`
	AccountName      string        `json:"accountName"`
	Status           PaymentStatus `json:"status"`
	PaymentBatchID   *uuid.UUID    `json:"paymentBatchId,omitempty"`
	RecipientAddress string        `json:"recipientAddress"`
	Amount           int64         `json:"amount"`
	PaymentID        *string       `json:"paymentId,omitempty"`
	FailureReason    *string       `json:"failureReason,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}
