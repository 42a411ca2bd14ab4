// Package signer implements TransactionSigner (C5, spec §4.6): claims an
// AWAITING_SIGNATURE batch by moving it to SIGNING_IN_PROGRESS, invokes the
// wallet CLI subprocess, and advances to AWAITING_BROADCAST on success or
// FAILED on any definitive error.
package signer

import (
	"context"
	"time"

	"github.com/tari-project/minotari-payment-processor/internal/log"
	"github.com/tari-project/minotari-payment-processor/internal/msgs"
	"github.com/tari-project/minotari-payment-processor/internal/store"
	"github.com/tari-project/minotari-payment-processor/internal/types"
	"github.com/tari-project/minotari-payment-processor/internal/wallet"
	"github.com/tari-project/minotari-payment-processor/internal/workers"

	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// walletSigner is the subset of *wallet.Signer this worker depends on,
// narrowed to an interface so the subprocess boundary can be faked in tests.
type walletSigner interface {
	Sign(ctx context.Context, unsignedTxJSON string) (*wallet.SignResult, error)
}

// TransactionSigner advances batches through AWAITING_SIGNATURE ->
// SIGNING_IN_PROGRESS -> AWAITING_BROADCAST (or FAILED).
type TransactionSigner struct {
	Store    store.Store
	Signer   walletSigner
	Interval time.Duration
	// LeaseTimeout bounds how long a batch may sit in SIGNING_IN_PROGRESS
	// before the reaper resets it, recovering from a crash between the
	// claim and the outcome being persisted (spec §9, "signer crash
	// recovery" - REDESIGN).
	LeaseTimeout time.Duration
}

func (w *TransactionSigner) Run(ctx context.Context) {
	workers.Run(ctx, "transaction-signer", w.Interval, w.tick)
}

func (w *TransactionSigner) tick(ctx context.Context) error {
	batches, err := w.Store.FindBatchesByStatus(ctx, types.BatchAwaitingSignature)
	if err != nil {
		return err
	}
	for _, batch := range batches {
		w.processBatch(ctx, batch)
	}
	return nil
}

func (w *TransactionSigner) processBatch(ctx context.Context, batch *types.PaymentBatch) {
	signingInProgress := types.BatchSigningInProgress
	awaitingSignature := types.BatchAwaitingSignature
	claim := types.BatchUpdate{Status: &signingInProgress, ExpectedStatus: &awaitingSignature}
	if err := w.Store.UpdateBatch(ctx, batch.ID, claim); err != nil {
		// Another instance (or this tick's fencing) already claimed it.
		log.L(ctx).WithError(err).Debugf("could not claim batch %s for signing", batch.ID)
		return
	}

	if batch.UnsignedTxJSON == nil {
		if err := w.Store.FailBatch(ctx, batch.ID, "batch has no unsigned_tx_json"); err != nil {
			log.L(ctx).WithError(err).Errorf("failed to fail batch %s", batch.ID)
		}
		return
	}

	result, err := w.Signer.Sign(ctx, *batch.UnsignedTxJSON)
	if err != nil {
		reason := i18n.NewError(ctx, msgs.MsgWalletCLISpawnError, err.Error()).Error()
		if failErr := w.Store.FailBatch(ctx, batch.ID, reason); failErr != nil {
			log.L(ctx).WithError(failErr).Errorf("failed to fail batch %s", batch.ID)
		}
		return
	}

	if result.ExitCode != 0 {
		if failErr := w.Store.FailBatch(ctx, batch.ID, result.Stderr); failErr != nil {
			log.L(ctx).WithError(failErr).Errorf("failed to fail batch %s", batch.ID)
		}
		return
	}

	awaitingBroadcast := types.BatchAwaitingBroadcast
	updateErr := w.Store.UpdateBatch(ctx, batch.ID, types.BatchUpdate{
		Status:       &awaitingBroadcast,
		SignedTxJSON: &result.SignedTxJSON,
	})
	if updateErr != nil {
		log.L(ctx).WithError(updateErr).Errorf("failed to persist signed tx for batch %s", batch.ID)
	}
}

// ReapStale resets batches that have been SIGNING_IN_PROGRESS for longer
// than LeaseTimeout back to AWAITING_SIGNATURE, so a crash between the claim
// (spec §4.6 step 1) and the outcome being persisted (step 4/5/6) does not
// strand the batch forever (spec §9, explicit REDESIGN correction; not
// present in the original source).
func (w *TransactionSigner) ReapStale(ctx context.Context) error {
	staleBatches, err := w.Store.FindBatchesByStatus(ctx, types.BatchSigningInProgress)
	if err != nil {
		return err
	}
	cutoff := time.Now().UTC().Add(-w.LeaseTimeout)
	for _, batch := range staleBatches {
		if batch.UpdatedAt.After(cutoff) {
			continue
		}
		log.L(ctx).Warnf("reclaiming stale signing lease for batch %s (held since %s)", batch.ID, batch.UpdatedAt)
		reclaimed := types.BatchAwaitingSignature
		if err := w.Store.UpdateBatch(ctx, batch.ID, types.BatchUpdate{Status: &reclaimed}); err != nil {
			log.L(ctx).WithError(err).Errorf("failed to reclaim stale batch %s", batch.ID)
		}
	}
	return nil
}
