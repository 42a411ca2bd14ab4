// Package confirmation implements ConfirmationChecker (C7, spec §4.8): polls
// the base node for inclusion of each AWAITING_CONFIRMATION batch's
// transaction, cascading to CONFIRMED once mined at sufficient depth.
package confirmation

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/hyperledger/firefly-common/pkg/i18n"

	"github.com/tari-project/minotari-payment-processor/internal/basenode"
	"github.com/tari-project/minotari-payment-processor/internal/log"
	"github.com/tari-project/minotari-payment-processor/internal/msgs"
	"github.com/tari-project/minotari-payment-processor/internal/store"
	"github.com/tari-project/minotari-payment-processor/internal/types"
	"github.com/tari-project/minotari-payment-processor/internal/workers"
)

// ConfirmationChecker advances batches through AWAITING_CONFIRMATION ->
// CONFIRMED (or FAILED on definitive rejection).
type ConfirmationChecker struct {
	Store    store.Store
	Client   basenode.Client
	Interval time.Duration
}

func (c *ConfirmationChecker) Run(ctx context.Context) {
	workers.Run(ctx, "confirmation-checker", c.Interval, c.tick)
}

func (c *ConfirmationChecker) tick(ctx context.Context) error {
	batches, err := c.Store.FindBatchesByStatus(ctx, types.BatchAwaitingConfirmation)
	if err != nil {
		return err
	}
	for _, batch := range batches {
		c.processBatch(ctx, batch)
	}
	return nil
}

// signedTransaction is the minimal shape this system reads out of the
// opaque signed_tx_json blob: the identifier the base node indexes
// transactions by (spec §4.8).
type signedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

func (c *ConfirmationChecker) processBatch(ctx context.Context, batch *types.PaymentBatch) {
	if batch.SignedTxJSON == nil {
		if err := c.Store.FailBatch(ctx, batch.ID, "batch has no signed_tx_json"); err != nil {
			log.L(ctx).WithError(err).Errorf("failed to fail batch %s", batch.ID)
		}
		return
	}
	var tx signedTransaction
	if err := json.Unmarshal([]byte(*batch.SignedTxJSON), &tx); err != nil || tx.TransactionID == "" {
		reason := i18n.NewError(ctx, msgs.MsgBaseNodeRejected, "signed_tx_json has no transaction_id").Error()
		if failErr := c.Store.FailBatch(ctx, batch.ID, reason); failErr != nil {
			log.L(ctx).WithError(failErr).Errorf("failed to fail batch %s", batch.ID)
		}
		return
	}

	inclusion, err := c.Client.QueryTransaction(ctx, tx.TransactionID)

	var transient *basenode.TransientError
	switch {
	case err != nil && errors.As(err, &transient):
		// Time, not attempts, is the progress measure here (spec §4.8):
		// no retry increment on a transient query failure.
		log.L(ctx).WithError(err).Debugf("transient error querying batch %s", batch.ID)
		return
	case err != nil:
		log.L(ctx).WithError(err).Debugf("error querying batch %s", batch.ID)
		return
	case inclusion.Rejected:
		if failErr := c.Store.FailBatch(ctx, batch.ID, inclusion.RejectReason); failErr != nil {
			log.L(ctx).WithError(failErr).Errorf("failed to fail batch %s", batch.ID)
		}
	case inclusion.Mined && inclusion.ConfirmedDepth:
		headerHash := hex.EncodeToString(inclusion.HeaderHash)
		confirmErr := c.Store.ConfirmBatch(ctx, batch.ID, inclusion.Height, headerHash, inclusion.Timestamp)
		if confirmErr != nil {
			log.L(ctx).WithError(confirmErr).Errorf("failed to confirm batch %s", batch.ID)
		}
	default:
		// Not yet mined, or mined but not yet at sufficient depth: no-op.
	}
}
