// Package unsignedtx implements UnsignedTxCreator (C4, spec §4.5): for each
// PENDING_BATCHING batch, requests an unsigned transaction from the external
// payment-receiver service and advances to AWAITING_SIGNATURE.
package unsignedtx

import (
	"context"
	"errors"
	"time"

	"github.com/tari-project/minotari-payment-processor/internal/log"
	"github.com/tari-project/minotari-payment-processor/internal/paymentreceiver"
	"github.com/tari-project/minotari-payment-processor/internal/store"
	"github.com/tari-project/minotari-payment-processor/internal/types"
	"github.com/tari-project/minotari-payment-processor/internal/workers"
)

// UnsignedTxCreator advances batches through PENDING_BATCHING ->
// AWAITING_SIGNATURE.
type UnsignedTxCreator struct {
	Store    store.Store
	Client   paymentreceiver.Client
	Interval time.Duration
}

func (w *UnsignedTxCreator) Run(ctx context.Context) {
	workers.Run(ctx, "unsigned-tx-creator", w.Interval, w.tick)
}

func (w *UnsignedTxCreator) tick(ctx context.Context) error {
	batches, err := w.Store.FindBatchesByStatus(ctx, types.BatchPendingBatching)
	if err != nil {
		return err
	}
	for _, batch := range batches {
		w.processBatch(ctx, batch)
	}
	return nil
}

func (w *UnsignedTxCreator) processBatch(ctx context.Context, batch *types.PaymentBatch) {
	members, err := w.Store.ListPaymentsByBatchID(ctx, batch.ID)
	if err != nil {
		log.L(ctx).WithError(err).Errorf("failed to load recipients for batch %s", batch.ID)
		return
	}
	recipients := make([]paymentreceiver.Recipient, 0, len(members))
	for _, m := range members {
		recipients = append(recipients, paymentreceiver.Recipient{
			Address: m.RecipientAddress,
			Amount:  m.Amount,
		})
	}

	unsignedTxJSON, err := w.Client.CreateUnsignedTransaction(ctx, paymentreceiver.Request{
		AccountName:      batch.AccountName,
		PRIdempotencyKey: batch.PRIdempotencyKey,
		Recipients:       recipients,
	})

	var transient *paymentreceiver.TransientError
	var rejected *paymentreceiver.RejectedError
	switch {
	case err == nil:
		status := types.BatchAwaitingSignature
		updateErr := w.Store.UpdateBatch(ctx, batch.ID, types.BatchUpdate{
			Status:         &status,
			UnsignedTxJSON: &unsignedTxJSON,
		})
		if updateErr != nil {
			log.L(ctx).WithError(updateErr).Errorf("failed to persist unsigned tx for batch %s", batch.ID)
		}
	case errors.As(err, &rejected):
		if failErr := w.Store.FailBatch(ctx, batch.ID, rejected.Error()); failErr != nil {
			log.L(ctx).WithError(failErr).Errorf("failed to fail batch %s", batch.ID)
		}
	case errors.As(err, &transient):
		if retryErr := w.Store.IncrementBatchRetry(ctx, batch.ID, transient.Error()); retryErr != nil {
			log.L(ctx).WithError(retryErr).Errorf("failed to increment retry for batch %s", batch.ID)
		}
	default:
		if retryErr := w.Store.IncrementBatchRetry(ctx, batch.ID, err.Error()); retryErr != nil {
			log.L(ctx).WithError(retryErr).Errorf("failed to increment retry for batch %s", batch.ID)
		}
	}
}
