package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tari-project/minotari-payment-processor/internal/types"
)

// CreatePayment inserts a new RECEIVED payment (spec §4.2).
func (s *gormStore) CreatePayment(ctx context.Context, clientID, accountName, recipientAddress string, amount int64, paymentID *string) (*types.Payment, error) {
	row := &paymentRow{
		ID:               uuid.New(),
		ClientID:         clientID,
		AccountName:      accountName,
		Status:           string(types.PaymentReceived),
		RecipientAddress: recipientAddress,
		Amount:           amount,
		PaymentID:        paymentID,
		CreatedAt:        now(),
		UpdatedAt:        now(),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, wrapErr(ctx, err)
	}
	return row.toDomain(), nil
}

// GetPaymentByID looks up a single payment by primary key.
func (s *gormStore) GetPaymentByID(ctx context.Context, id uuid.UUID) (*types.Payment, error) {
	var row paymentRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	if err := validateRow(ctx, &row); err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// GetPaymentByClientKey is used for client-facing idempotency on
// (client_id, account_name) (spec §4.3).
func (s *gormStore) GetPaymentByClientKey(ctx context.Context, clientID, accountName string) (*types.Payment, error) {
	var row paymentRow
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND account_name = ?", clientID, accountName).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	if err := validateRow(ctx, &row); err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// FindReceivablePayments returns payments eligible for batching (spec §4.2,
// §4.4): all RECEIVED payments, bounded by limit, oldest first so FIFO
// batching by arrival holds (spec §1 non-goals: no reordering).
func (s *gormStore) FindReceivablePayments(ctx context.Context, limit int) ([]*types.Payment, error) {
	var rows []paymentRow
	err := s.db.WithContext(ctx).
		Where("status = ?", string(types.PaymentReceived)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	out := make([]*types.Payment, 0, len(rows))
	for i := range rows {
		if err := validateRow(ctx, &rows[i]); err != nil {
			return nil, err
		}
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// FindPaymentsByStatus returns payments in the given status, bounded by
// limit, oldest first (spec §4.3, "list by status" - the general-purpose
// counterpart to FindReceivablePayments for any status, not just RECEIVED).
func (s *gormStore) FindPaymentsByStatus(ctx context.Context, status types.PaymentStatus, limit int) ([]*types.Payment, error) {
	var rows []paymentRow
	err := s.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	out := make([]*types.Payment, 0, len(rows))
	for i := range rows {
		if err := validateRow(ctx, &rows[i]); err != nil {
			return nil, err
		}
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// ListPaymentsByBatchID returns every payment belonging to a batch, used by
// UnsignedTxCreator to build the payment-receiver request and by read
// endpoints (spec §4.5, §4.3 "list by batch").
func (s *gormStore) ListPaymentsByBatchID(ctx context.Context, batchID uuid.UUID) ([]*types.Payment, error) {
	var rows []paymentRow
	err := s.db.WithContext(ctx).
		Where("payment_batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	out := make([]*types.Payment, 0, len(rows))
	for i := range rows {
		if err := validateRow(ctx, &rows[i]); err != nil {
			return nil, err
		}
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// GetPaymentWithBatch implements the GET /payments/{id} read model: a
// Payment left-joined with its Batch, absent while still RECEIVED (spec
// §4.3).
func (s *gormStore) GetPaymentWithBatch(ctx context.Context, id uuid.UUID) (*types.PaymentWithBatch, error) {
	payment, err := s.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := &types.PaymentWithBatch{Payment: *payment}
	if payment.PaymentBatchID == nil {
		return result, nil
	}

	var brow batchRow
	err = s.db.WithContext(ctx).Where("id = ?", *payment.PaymentBatchID).First(&brow).Error
	if err == gorm.ErrRecordNotFound {
		return result, nil
	}
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	if err := validateBatchRow(ctx, &brow); err != nil {
		return nil, err
	}
	result.Batch = brow.toDomain()
	return result, nil
}
