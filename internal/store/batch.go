package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tari-project/minotari-payment-processor/internal/log"
	"github.com/tari-project/minotari-payment-processor/internal/msgs"
	"github.com/tari-project/minotari-payment-processor/internal/types"

	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// CreateBatchWithPayments performs the grouping transaction BatchCreator
// relies on (spec §4.2, §4.4): insert one PENDING_BATCHING batch, then move
// every listed payment from RECEIVED to BATCHED pointing at it, atomically.
func (s *gormStore) CreateBatchWithPayments(ctx context.Context, accountName, prIdempotencyKey string, paymentIDs []uuid.UUID) (*types.PaymentBatch, error) {
	batch := &batchRow{
		ID:               uuid.New(),
		AccountName:      accountName,
		Status:           string(types.BatchPendingBatching),
		PRIdempotencyKey: prIdempotencyKey,
		RetryCount:       0,
		CreatedAt:        now(),
		UpdatedAt:        now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return err
		}

		res := tx.Model(&paymentRow{}).
			Where("id IN ? AND status = ?", paymentIDs, string(types.PaymentReceived)).
			Updates(map[string]interface{}{
				"status":           string(types.PaymentBatched),
				"payment_batch_id": batch.ID,
				"updated_at":       now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(paymentIDs)) {
			return i18n.NewError(ctx, msgs.MsgPaymentNotReceived, paymentIDs)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return batch.toDomain(), nil
}

// FindBatchesByStatus is the per-row claim lookup every worker after
// BatchCreator uses (spec §4.5-§4.8): find all batches sitting in the one
// status this worker advances from.
func (s *gormStore) FindBatchesByStatus(ctx context.Context, status types.BatchStatus) ([]*types.PaymentBatch, error) {
	var rows []batchRow
	err := s.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	out := make([]*types.PaymentBatch, 0, len(rows))
	for i := range rows {
		if err := validateBatchRow(ctx, &rows[i]); err != nil {
			return nil, err
		}
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// UpdateBatch applies a partial update (spec §9, "partial update pattern"):
// only fields set in update are written, updated_at always bumps, and
// IncrementRetry optionally adds one to retry_count in the same statement.
func (s *gormStore) UpdateBatch(ctx context.Context, batchID uuid.UUID, update types.BatchUpdate) error {
	fields := map[string]interface{}{"updated_at": now()}
	if update.Status != nil {
		fields["status"] = string(*update.Status)
	}
	if update.UnsignedTxJSON != nil {
		fields["unsigned_tx_json"] = *update.UnsignedTxJSON
	}
	if update.SignedTxJSON != nil {
		fields["signed_tx_json"] = *update.SignedTxJSON
	}
	if update.ErrorMessage != nil {
		fields["error_message"] = *update.ErrorMessage
	}
	if update.MinedHeight != nil {
		fields["mined_height"] = *update.MinedHeight
	}
	if update.MinedHeaderHash != nil {
		fields["mined_header_hash"] = *update.MinedHeaderHash
	}
	if update.MinedTimestamp != nil {
		fields["mined_timestamp"] = *update.MinedTimestamp
	}

	db := s.db.WithContext(ctx).Model(&batchRow{}).Where("id = ?", batchID)
	if update.ExpectedStatus != nil {
		db = db.Where("status = ?", string(*update.ExpectedStatus))
	}
	if update.IncrementRetry {
		fields["retry_count"] = gorm.Expr("retry_count + 1")
	}

	res := db.Updates(fields)
	if res.Error != nil {
		return wrapErr(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		if update.ExpectedStatus != nil {
			return ErrConflict
		}
		return ErrNotFound
	}
	return nil
}

// FailBatch is one of the two places a Batch->Payment cascade is allowed to
// happen (spec §4.1, §7): set the batch FAILED with reason, and set every
// non-CONFIRMED member payment FAILED with the same failure_reason, in one
// transaction.
func (s *gormStore) FailBatch(ctx context.Context, batchID uuid.UUID, reason string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return failBatchTx(ctx, tx, batchID, reason)
	})
}

func failBatchTx(ctx context.Context, tx *gorm.DB, batchID uuid.UUID, reason string) error {
	res := tx.Model(&batchRow{}).Where("id = ?", batchID).Updates(map[string]interface{}{
		"status":        string(types.BatchFailed),
		"error_message": reason,
		"updated_at":    now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	res = tx.Model(&paymentRow{}).
		Where("payment_batch_id = ? AND status != ?", batchID, string(types.PaymentConfirmed)).
		Updates(map[string]interface{}{
			"status":         string(types.PaymentFailed),
			"failure_reason": reason,
			"updated_at":     now(),
		})
	if res.Error != nil {
		return res.Error
	}

	log.L(ctx).Infof("batch %s failed: %s (%d payments cascaded)", batchID, reason, res.RowsAffected)
	return nil
}

// ConfirmBatch is the second of the two places a Batch->Payment cascade is
// allowed to happen (spec §4.1, §4.8): set the batch CONFIRMED with mining
// details, and set every member payment CONFIRMED, in one transaction.
func (s *gormStore) ConfirmBatch(ctx context.Context, batchID uuid.UUID, height int64, headerHash string, timestamp int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&batchRow{}).Where("id = ?", batchID).Updates(map[string]interface{}{
			"status":            string(types.BatchConfirmed),
			"mined_height":      height,
			"mined_header_hash": headerHash,
			"mined_timestamp":   timestamp,
			"updated_at":        now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		res = tx.Model(&paymentRow{}).
			Where("payment_batch_id = ?", batchID).
			Updates(map[string]interface{}{
				"status":     string(types.PaymentConfirmed),
				"updated_at": now(),
			})
		if res.Error != nil {
			return res.Error
		}

		log.L(ctx).Infof("batch %s confirmed at height %d (%d payments cascaded)", batchID, height, res.RowsAffected)
		return nil
	})
}

// IncrementBatchRetry bumps retry_count, or escalates to FailBatch's cascade
// once the ceiling would be reached (spec §4.1 retry policy, invariant 5).
func (s *gormStore) IncrementBatchRetry(ctx context.Context, batchID uuid.UUID, reason string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row batchRow
		if err := tx.Where("id = ?", batchID).First(&row).Error; err != nil {
			return wrapErr(ctx, err)
		}

		if row.RetryCount+1 >= types.MaxRetries {
			return failBatchTx(ctx, tx, batchID, reason)
		}

		res := tx.Model(&batchRow{}).Where("id = ?", batchID).Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"updated_at":  now(),
		})
		return res.Error
	})
}
