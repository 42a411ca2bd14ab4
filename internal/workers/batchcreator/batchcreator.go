// Package batchcreator implements BatchCreator (C3, spec §4.4): groups
// RECEIVED payments per account into a new PENDING_BATCHING batch.
package batchcreator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tari-project/minotari-payment-processor/internal/log"
	"github.com/tari-project/minotari-payment-processor/internal/store"
	"github.com/tari-project/minotari-payment-processor/internal/types"
	"github.com/tari-project/minotari-payment-processor/internal/workers"
)

// BatchCreator polls for RECEIVED payments and batches them by account.
type BatchCreator struct {
	Store    store.Store
	Interval time.Duration
	// Limit bounds how many RECEIVED payments a single tick considers
	// (spec §4.2, find_receivable_payments(limit)).
	Limit int
}

// Run starts the worker loop; it returns when ctx is cancelled.
func (b *BatchCreator) Run(ctx context.Context) {
	workers.Run(ctx, "batch-creator", b.Interval, b.tick)
}

func (b *BatchCreator) tick(ctx context.Context) error {
	payments, err := b.Store.FindReceivablePayments(ctx, b.Limit)
	if err != nil {
		return err
	}
	if len(payments) == 0 {
		return nil
	}

	groups := groupByAccount(payments)
	for accountName, ids := range groups {
		prIdempotencyKey := uuid.NewString()
		batch, err := b.Store.CreateBatchWithPayments(ctx, accountName, prIdempotencyKey, ids)
		if err != nil {
			log.L(ctx).WithError(err).Errorf("failed to create batch for account %s", accountName)
			continue
		}
		log.L(ctx).Infof("created batch %s for account %s with %d payments", batch.ID, accountName, len(ids))
	}
	return nil
}

// groupByAccount groups payment IDs by account_name, preserving FIFO order
// within each group (spec §1 non-goals: no reordering beyond FIFO batching
// by arrival; spec invariant 3: account homogeneity).
func groupByAccount(payments []*types.Payment) map[string][]uuid.UUID {
	groups := make(map[string][]uuid.UUID)
	for _, p := range payments {
		groups[p.AccountName] = append(groups[p.AccountName], p.ID)
	}
	return groups
}
