package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/tari-project/minotari-payment-processor/internal/types"
)

// paymentRow is the gorm-mapped row for the `payments` table, column-tagged
// individually the way the teacher tags transactionReceipt and
// PersistedABIEntry (spec §3, §6 "Persisted state").
type paymentRow struct {
	ID               uuid.UUID  `gorm:"column:id;primaryKey"`
	ClientID         string     `gorm:"column:client_id"`
	AccountName      string     `gorm:"column:account_name"`
	Status           string     `gorm:"column:status"`
	PaymentBatchID   *uuid.UUID `gorm:"column:payment_batch_id"`
	RecipientAddress string     `gorm:"column:recipient_address"`
	Amount           int64      `gorm:"column:amount"`
	PaymentID        *string    `gorm:"column:payment_id"`
	FailureReason    *string    `gorm:"column:failure_reason"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (paymentRow) TableName() string { return "payments" }

// batchRow is the gorm-mapped row for the `payment_batches` table.
type batchRow struct {
	ID               uuid.UUID `gorm:"column:id;primaryKey"`
	AccountName      string    `gorm:"column:account_name"`
	Status           string    `gorm:"column:status"`
	PRIdempotencyKey string    `gorm:"column:pr_idempotency_key"`
	UnsignedTxJSON   *string   `gorm:"column:unsigned_tx_json"`
	SignedTxJSON     *string   `gorm:"column:signed_tx_json"`
	ErrorMessage     *string   `gorm:"column:error_message"`
	RetryCount       int       `gorm:"column:retry_count"`
	MinedHeight      *int64    `gorm:"column:mined_height"`
	MinedHeaderHash  *string   `gorm:"column:mined_header_hash"`
	MinedTimestamp   *int64    `gorm:"column:mined_timestamp"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (batchRow) TableName() string { return "payment_batches" }

func (r *paymentRow) toDomain() *types.Payment {
	return &types.Payment{
		ID:               r.ID,
		ClientID:         r.ClientID,
		AccountName:      r.AccountName,
		Status:           types.PaymentStatus(r.Status),
		PaymentBatchID:   r.PaymentBatchID,
		RecipientAddress: r.RecipientAddress,
		Amount:           r.Amount,
		PaymentID:        r.PaymentID,
		FailureReason:    r.FailureReason,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r *batchRow) toDomain() *types.PaymentBatch {
	return &types.PaymentBatch{
		ID:               r.ID,
		AccountName:      r.AccountName,
		Status:           types.BatchStatus(r.Status),
		PRIdempotencyKey: r.PRIdempotencyKey,
		UnsignedTxJSON:   r.UnsignedTxJSON,
		SignedTxJSON:     r.SignedTxJSON,
		ErrorMessage:     r.ErrorMessage,
		RetryCount:       r.RetryCount,
		MinedHeight:      r.MinedHeight,
		MinedHeaderHash:  r.MinedHeaderHash,
		MinedTimestamp:   r.MinedTimestamp,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
