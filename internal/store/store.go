// Package store is the durable persistence layer (spec C1, §4.2): the single
// source of truth for Payment and PaymentBatch state, and the place every
// transactional multi-row transition (batch creation, failure cascade,
// confirmation cascade) lives. Modeled on the teacher's gorm-backed
// persistence layer (core/go/internal/txmgr), using gorm.io/gorm directly
// against postgres/sqlite rather than the teacher's own in-house query
// builder, since that builder is private to the teacher's module.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"gorm.io/gorm"

	"github.com/tari-project/minotari-payment-processor/internal/msgs"
	"github.com/tari-project/minotari-payment-processor/internal/types"
)

// Store is the full set of durable operations the ingress API and workers
// depend on (spec §4.2).
type Store interface {
	CreatePayment(ctx context.Context, clientID, accountName, recipientAddress string, amount int64, paymentID *string) (*types.Payment, error)
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*types.Payment, error)
	GetPaymentByClientKey(ctx context.Context, clientID, accountName string) (*types.Payment, error)
	FindReceivablePayments(ctx context.Context, limit int) ([]*types.Payment, error)
	FindPaymentsByStatus(ctx context.Context, status types.PaymentStatus, limit int) ([]*types.Payment, error)
	GetPaymentWithBatch(ctx context.Context, id uuid.UUID) (*types.PaymentWithBatch, error)
	ListPaymentsByBatchID(ctx context.Context, batchID uuid.UUID) ([]*types.Payment, error)

	CreateBatchWithPayments(ctx context.Context, accountName, prIdempotencyKey string, paymentIDs []uuid.UUID) (*types.PaymentBatch, error)
	FindBatchesByStatus(ctx context.Context, status types.BatchStatus) ([]*types.PaymentBatch, error)
	UpdateBatch(ctx context.Context, batchID uuid.UUID, update types.BatchUpdate) error
	FailBatch(ctx context.Context, batchID uuid.UUID, reason string) error
	ConfirmBatch(ctx context.Context, batchID uuid.UUID, height int64, headerHash string, timestamp int64) error
	IncrementBatchRetry(ctx context.Context, batchID uuid.UUID, reason string) error
}

type gormStore struct {
	db *gorm.DB
}

// New wraps an already-opened gorm.DB (postgres in production, sqlite in
// tests) as a Store.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func wrapErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if err == gorm.ErrRecordNotFound {
		return ErrNotFound
	}
	return i18n.WrapError(ctx, err, msgs.MsgStorageFailure, err.Error())
}

func parsePaymentStatus(ctx context.Context, raw string) (types.PaymentStatus, error) {
	s := types.PaymentStatus(raw)
	if !types.ValidPaymentStatuses[s] {
		return "", i18n.NewError(ctx, msgs.MsgUnknownPaymentState, raw)
	}
	return s, nil
}

func parseBatchStatus(ctx context.Context, raw string) (types.BatchStatus, error) {
	s := types.BatchStatus(raw)
	if !types.ValidBatchStatuses[s] {
		return "", i18n.NewError(ctx, msgs.MsgUnknownBatchState, raw)
	}
	return s, nil
}

// validateRow re-parses the stored status string so a row with a corrupt or
// unrecognised status surfaces a typed error to the caller, rather than the
// process aborting as the original source does (spec §9, "unknown status
// strings" - REDESIGN).
func validateRow(ctx context.Context, r *paymentRow) error {
	_, err := parsePaymentStatus(ctx, r.Status)
	return err
}

func validateBatchRow(ctx context.Context, r *batchRow) error {
	_, err := parseBatchStatus(ctx, r.Status)
	return err
}

func now() time.Time { return time.Now().UTC() }
