// Package broadcaster implements Broadcaster (C6, spec §4.7): submits each
// AWAITING_BROADCAST batch's signed transaction to the base node.
package broadcaster

import (
	"context"
	"errors"
	"time"

	"github.com/tari-project/minotari-payment-processor/internal/basenode"
	"github.com/tari-project/minotari-payment-processor/internal/log"
	"github.com/tari-project/minotari-payment-processor/internal/store"
	"github.com/tari-project/minotari-payment-processor/internal/types"
	"github.com/tari-project/minotari-payment-processor/internal/workers"
)

// Broadcaster advances batches through AWAITING_BROADCAST ->
// AWAITING_CONFIRMATION.
type Broadcaster struct {
	Store    store.Store
	Client   basenode.Client
	Interval time.Duration
}

func (b *Broadcaster) Run(ctx context.Context) {
	workers.Run(ctx, "broadcaster", b.Interval, b.tick)
}

func (b *Broadcaster) tick(ctx context.Context) error {
	batches, err := b.Store.FindBatchesByStatus(ctx, types.BatchAwaitingBroadcast)
	if err != nil {
		return err
	}
	for _, batch := range batches {
		b.processBatch(ctx, batch)
	}
	return nil
}

func (b *Broadcaster) processBatch(ctx context.Context, batch *types.PaymentBatch) {
	if batch.SignedTxJSON == nil {
		if err := b.Store.FailBatch(ctx, batch.ID, "batch has no signed_tx_json"); err != nil {
			log.L(ctx).WithError(err).Errorf("failed to fail batch %s", batch.ID)
		}
		return
	}

	err := b.Client.SubmitTransaction(ctx, *batch.SignedTxJSON)

	var rejected *basenode.RejectedError
	var transient *basenode.TransientError
	switch {
	case err == nil:
		status := types.BatchAwaitingConfirmation
		if updateErr := b.Store.UpdateBatch(ctx, batch.ID, types.BatchUpdate{Status: &status}); updateErr != nil {
			log.L(ctx).WithError(updateErr).Errorf("failed to advance batch %s to AWAITING_CONFIRMATION", batch.ID)
		}
	case errors.As(err, &rejected):
		if failErr := b.Store.FailBatch(ctx, batch.ID, rejected.Error()); failErr != nil {
			log.L(ctx).WithError(failErr).Errorf("failed to fail batch %s", batch.ID)
		}
	case errors.As(err, &transient):
		if retryErr := b.Store.IncrementBatchRetry(ctx, batch.ID, transient.Error()); retryErr != nil {
			log.L(ctx).WithError(retryErr).Errorf("failed to increment retry for batch %s", batch.ID)
		}
	default:
		if retryErr := b.Store.IncrementBatchRetry(ctx, batch.ID, err.Error()); retryErr != nil {
			log.L(ctx).WithError(retryErr).Errorf("failed to increment retry for batch %s", batch.ID)
		}
	}
}
