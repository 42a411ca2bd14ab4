package batchcreator

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tari-project/minotari-payment-processor/internal/store"
	"github.com/tari-project/minotari-payment-processor/internal/types"
)

type fakeStore struct {
	store.Store

	receivable []*types.Payment
	created    []struct {
		accountName string
		paymentIDs  []uuid.UUID
	}
}

func (f *fakeStore) FindReceivablePayments(ctx context.Context, limit int) ([]*types.Payment, error) {
	return f.receivable, nil
}

func (f *fakeStore) CreateBatchWithPayments(ctx context.Context, accountName, prIdempotencyKey string, paymentIDs []uuid.UUID) (*types.PaymentBatch, error) {
	f.created = append(f.created, struct {
		accountName string
		paymentIDs  []uuid.UUID
	}{accountName, paymentIDs})
	return &types.PaymentBatch{ID: uuid.New(), AccountName: accountName, Status: types.BatchPendingBatching}, nil
}

func TestTick_GroupsPaymentsByAccount(t *testing.T) {
	fs := &fakeStore{
		receivable: []*types.Payment{
			{ID: uuid.New(), AccountName: "acct-a"},
			{ID: uuid.New(), AccountName: "acct-b"},
			{ID: uuid.New(), AccountName: "acct-a"},
		},
	}
	b := &BatchCreator{Store: fs, Limit: 100}

	require.NoError(t, b.tick(context.Background()))

	require.Len(t, fs.created, 2)
	byAccount := map[string]int{}
	for _, c := range fs.created {
		byAccount[c.accountName] = len(c.paymentIDs)
	}
	assert.Equal(t, 2, byAccount["acct-a"])
	assert.Equal(t, 1, byAccount["acct-b"])
}

func TestTick_NoPaymentsIsNoop(t *testing.T) {
	fs := &fakeStore{}
	b := &BatchCreator{Store: fs, Limit: 100}

	require.NoError(t, b.tick(context.Background()))
	assert.Empty(t, fs.created)
}
