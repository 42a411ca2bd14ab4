package types

import (
	"time"

	"github.com/google/uuid"
)

// BatchStatus is the closed set of states a PaymentBatch can occupy,
// following the directed graph in spec §4.1.
type BatchStatus string

const (
	BatchPendingBatching      BatchStatus = "PENDING_BATCHING"
	BatchAwaitingSignature    BatchStatus = "AWAITING_SIGNATURE"
	BatchSigningInProgress    BatchStatus = "SIGNING_IN_PROGRESS"
	BatchAwaitingBroadcast    BatchStatus = "AWAITING_BROADCAST"
	BatchBroadcasting         BatchStatus = "BROADCASTING"
	BatchAwaitingConfirmation BatchStatus = "AWAITING_CONFIRMATION"
	BatchConfirmed            BatchStatus = "CONFIRMED"
	BatchFailed               BatchStatus = "FAILED"
)

// ValidBatchStatuses enumerates every BatchStatus, for exhaustive validation
// at the storage boundary (spec §9, "unknown status strings").
var ValidBatchStatuses = map[BatchStatus]bool{
	BatchPendingBatching:      true,
	BatchAwaitingSignature:    true,
	BatchSigningInProgress:    true,
	BatchAwaitingBroadcast:    true,
	BatchBroadcasting:         true,
	BatchAwaitingConfirmation: true,
	BatchConfirmed:            true,
	BatchFailed:               true,
}

// IsTerminal reports whether status is one of the two absorbing batch states.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchConfirmed || s == BatchFailed
}

// MaxRetries is the retry_count ceiling referenced throughout spec §4.1 and
// invariant 5: a batch that would reach this many retries fails instead.
const MaxRetries = 10

// PaymentBatch is the in-memory representation of a batch of payments bundled
// into one on-chain transaction, mirroring the `payment_batches` table
// column-for-column (spec §3).
type PaymentBatch struct {
	ID               uuid.UUID   `json:"id"`
	AccountName      string      `json:"accountName"`
	Status           BatchStatus `json:"status"`
	PRIdempotencyKey string      `json:"prIdempotencyKey"`
	UnsignedTxJSON   *string     `json:"unsignedTxJson,omitempty"`
	SignedTxJSON     *string     `json:"signedTxJson,omitempty"`
	ErrorMessage     *string     `json:"errorMessage,omitempty"`
	RetryCount       int         `json:"retryCount"`
	MinedHeight      *int64      `json:"minedHeight,omitempty"`
	MinedHeaderHash  *string     `json:"minedHeaderHash,omitempty"`
	MinedTimestamp   *int64      `json:"minedTimestamp,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// BatchUpdate is the partial-update record used by Store.UpdateBatch: every
// field is optional, only set fields are written, and IncrementRetry is a
// separate flag rather than a field on the domain object (spec §9,
// "partial update pattern").
type BatchUpdate struct {
	Status          *BatchStatus
	UnsignedTxJSON  *string
	SignedTxJSON    *string
	ErrorMessage    *string
	MinedHeight     *int64
	MinedHeaderHash *string
	MinedTimestamp  *int64
	IncrementRetry  bool
	// ExpectedStatus, when set, makes the update conditional on the
	// batch's current status - the claim discipline spec §5/§9 requires
	// so horizontal scaling doesn't let two workers both advance the same
	// batch out of the same source status.
	ExpectedStatus *BatchStatus
}

// PaymentWithBatch is the read-model returned by GET /payments/{id}: a
// Payment left-joined with its owning Batch, which may be absent while the
// Payment is still RECEIVED (spec §4.3).
type PaymentWithBatch struct {
	Payment Payment       `json:"payment"`
	Batch   *PaymentBatch `json:"batch,omitempty"`
}
