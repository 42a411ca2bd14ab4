package confirmation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tari-project/minotari-payment-processor/internal/basenode"
	"github.com/tari-project/minotari-payment-processor/internal/store"
	"github.com/tari-project/minotari-payment-processor/internal/types"
)

type fakeStore struct {
	store.Store

	failed     []string
	confirmed  []uuid.UUID
}

func (f *fakeStore) FailBatch(ctx context.Context, batchID uuid.UUID, reason string) error {
	f.failed = append(f.failed, reason)
	return nil
}

func (f *fakeStore) ConfirmBatch(ctx context.Context, batchID uuid.UUID, height int64, headerHash string, timestamp int64) error {
	f.confirmed = append(f.confirmed, batchID)
	return nil
}

type fakeClient struct {
	inclusion *basenode.Inclusion
	err       error
}

func (c *fakeClient) SubmitTransaction(ctx context.Context, signedTxJSON string) error {
	panic("not used")
}
func (c *fakeClient) QueryTransaction(ctx context.Context, txIdentifier string) (*basenode.Inclusion, error) {
	return c.inclusion, c.err
}
func (c *fakeClient) Close() error { return nil }

func awaitingBatch() *types.PaymentBatch {
	tx := `{"transaction_id":"tx-abc"}`
	return &types.PaymentBatch{ID: uuid.New(), Status: types.BatchAwaitingConfirmation, SignedTxJSON: &tx}
}

func TestProcessBatch_MinedAndConfirmedAdvancesToConfirmed(t *testing.T) {
	fs := &fakeStore{}
	fc := &fakeClient{inclusion: &basenode.Inclusion{Mined: true, ConfirmedDepth: true, Height: 100}}
	c := &ConfirmationChecker{Store: fs, Client: fc}

	c.processBatch(context.Background(), awaitingBatch())

	require.Len(t, fs.confirmed, 1)
	assert.Empty(t, fs.failed)
}

func TestProcessBatch_MinedButNotYetConfirmedIsNoop(t *testing.T) {
	fs := &fakeStore{}
	fc := &fakeClient{inclusion: &basenode.Inclusion{Mined: true, ConfirmedDepth: false}}
	c := &ConfirmationChecker{Store: fs, Client: fc}

	c.processBatch(context.Background(), awaitingBatch())

	assert.Empty(t, fs.confirmed)
	assert.Empty(t, fs.failed)
}

func TestProcessBatch_RejectedFailsBatch(t *testing.T) {
	fs := &fakeStore{}
	fc := &fakeClient{inclusion: &basenode.Inclusion{Rejected: true, RejectReason: "reorged out"}}
	c := &ConfirmationChecker{Store: fs, Client: fc}

	c.processBatch(context.Background(), awaitingBatch())

	require.Len(t, fs.failed, 1)
	assert.Equal(t, "reorged out", fs.failed[0])
}

func TestProcessBatch_TransientQueryErrorIsNoop(t *testing.T) {
	fs := &fakeStore{}
	fc := &fakeClient{err: &basenode.TransientError{Cause: assert.AnError}}
	c := &ConfirmationChecker{Store: fs, Client: fc}

	c.processBatch(context.Background(), awaitingBatch())

	assert.Empty(t, fs.confirmed)
	assert.Empty(t, fs.failed)
}

func TestProcessBatch_MissingSignedTxFailsBatch(t *testing.T) {
	fs := &fakeStore{}
	c := &ConfirmationChecker{Store: fs, Client: &fakeClient{}}

	c.processBatch(context.Background(), &types.PaymentBatch{ID: uuid.New(), Status: types.BatchAwaitingConfirmation})

	assert.Empty(t, fs.confirmed)
	require.Len(t, fs.failed, 1)
}

func TestProcessBatch_NoTransactionIDFailsBatch(t *testing.T) {
	fs := &fakeStore{}
	tx := `{}`
	c := &ConfirmationChecker{Store: fs, Client: &fakeClient{}}

	c.processBatch(context.Background(), &types.PaymentBatch{ID: uuid.New(), Status: types.BatchAwaitingConfirmation, SignedTxJSON: &tx})

	require.Len(t, fs.failed, 1)
}
