package unsignedtx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tari-project/minotari-payment-processor/internal/paymentreceiver"
	"github.com/tari-project/minotari-payment-processor/internal/store"
	"github.com/tari-project/minotari-payment-processor/internal/types"
)

type fakeStore struct {
	store.Store

	members    []*types.Payment
	updates    []types.BatchUpdate
	failed     []string
	retried    []string
}

func (f *fakeStore) ListPaymentsByBatchID(ctx context.Context, batchID uuid.UUID) ([]*types.Payment, error) {
	return f.members, nil
}

func (f *fakeStore) UpdateBatch(ctx context.Context, batchID uuid.UUID, update types.BatchUpdate) error {
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeStore) FailBatch(ctx context.Context, batchID uuid.UUID, reason string) error {
	f.failed = append(f.failed, reason)
	return nil
}

func (f *fakeStore) IncrementBatchRetry(ctx context.Context, batchID uuid.UUID, reason string) error {
	f.retried = append(f.retried, reason)
	return nil
}

type fakeClient struct {
	unsignedTxJSON string
	err            error
	lastReq        paymentreceiver.Request
}

func (c *fakeClient) CreateUnsignedTransaction(ctx context.Context, req paymentreceiver.Request) (string, error) {
	c.lastReq = req
	return c.unsignedTxJSON, c.err
}

func testBatch() *types.PaymentBatch {
	return &types.PaymentBatch{ID: uuid.New(), AccountName: "acct-a", PRIdempotencyKey: "pr-key-1"}
}

func TestProcessBatch_SuccessAdvancesToAwaitingSignature(t *testing.T) {
	fs := &fakeStore{members: []*types.Payment{{RecipientAddress: "r1", Amount: 100}}}
	fc := &fakeClient{unsignedTxJSON: `{"foo":"bar"}`}
	w := &UnsignedTxCreator{Store: fs, Client: fc}

	w.processBatch(context.Background(), testBatch())

	require.Len(t, fs.updates, 1)
	require.NotNil(t, fs.updates[0].Status)
	assert.Equal(t, types.BatchAwaitingSignature, *fs.updates[0].Status)
	require.NotNil(t, fs.updates[0].UnsignedTxJSON)
	assert.Equal(t, `{"foo":"bar"}`, *fs.updates[0].UnsignedTxJSON)
	assert.Equal(t, "acct-a", fc.lastReq.AccountName)
	assert.Equal(t, "pr-key-1", fc.lastReq.PRIdempotencyKey)
}

func TestProcessBatch_RejectedFailsBatch(t *testing.T) {
	fs := &fakeStore{members: []*types.Payment{{RecipientAddress: "r1", Amount: 100}}}
	fc := &fakeClient{err: &paymentreceiver.RejectedError{Body: "bad request"}}
	w := &UnsignedTxCreator{Store: fs, Client: fc}

	w.processBatch(context.Background(), testBatch())

	require.Len(t, fs.failed, 1)
	assert.Equal(t, "bad request", fs.failed[0])
	assert.Empty(t, fs.updates)
}

func TestProcessBatch_TransientIncrementsRetry(t *testing.T) {
	fs := &fakeStore{members: []*types.Payment{{RecipientAddress: "r1", Amount: 100}}}
	fc := &fakeClient{err: &paymentreceiver.TransientError{Cause: assert.AnError}}
	w := &UnsignedTxCreator{Store: fs, Client: fc}

	w.processBatch(context.Background(), testBatch())

	require.Len(t, fs.retried, 1)
	assert.Empty(t, fs.failed)
}
