package signer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tari-project/minotari-payment-processor/internal/types"
	"github.com/tari-project/minotari-payment-processor/internal/wallet"
)

type fakeStore struct {
	batches map[uuid.UUID]*types.PaymentBatch
	updates []types.BatchUpdate
	failed  []string
}

func newFakeStore(batches ...*types.PaymentBatch) *fakeStore {
	fs := &fakeStore{batches: map[uuid.UUID]*types.PaymentBatch{}}
	for _, b := range batches {
		fs.batches[b.ID] = b
	}
	return fs
}

func (f *fakeStore) FindBatchesByStatus(ctx context.Context, status types.BatchStatus) ([]*types.PaymentBatch, error) {
	var out []*types.PaymentBatch
	for _, b := range f.batches {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateBatch(ctx context.Context, batchID uuid.UUID, update types.BatchUpdate) error {
	f.updates = append(f.updates, update)
	if update.Status != nil {
		f.batches[batchID].Status = *update.Status
	}
	return nil
}

func (f *fakeStore) FailBatch(ctx context.Context, batchID uuid.UUID, reason string) error {
	f.failed = append(f.failed, reason)
	f.batches[batchID].Status = types.BatchFailed
	return nil
}

func (f *fakeStore) CreatePayment(ctx context.Context, clientID, accountName, recipientAddress string, amount int64, paymentID *string) (*types.Payment, error) {
	panic("not used")
}
func (f *fakeStore) GetPaymentByID(ctx context.Context, id uuid.UUID) (*types.Payment, error) {
	panic("not used")
}
func (f *fakeStore) GetPaymentByClientKey(ctx context.Context, clientID, accountName string) (*types.Payment, error) {
	panic("not used")
}
func (f *fakeStore) FindReceivablePayments(ctx context.Context, limit int) ([]*types.Payment, error) {
	panic("not used")
}
func (f *fakeStore) FindPaymentsByStatus(ctx context.Context, status types.PaymentStatus, limit int) ([]*types.Payment, error) {
	panic("not used")
}
func (f *fakeStore) GetPaymentWithBatch(ctx context.Context, id uuid.UUID) (*types.PaymentWithBatch, error) {
	panic("not used")
}
func (f *fakeStore) ListPaymentsByBatchID(ctx context.Context, batchID uuid.UUID) ([]*types.Payment, error) {
	panic("not used")
}
func (f *fakeStore) CreateBatchWithPayments(ctx context.Context, accountName, prIdempotencyKey string, paymentIDs []uuid.UUID) (*types.PaymentBatch, error) {
	panic("not used")
}
func (f *fakeStore) ConfirmBatch(ctx context.Context, batchID uuid.UUID, height int64, headerHash string, timestamp int64) error {
	panic("not used")
}
func (f *fakeStore) IncrementBatchRetry(ctx context.Context, batchID uuid.UUID, reason string) error {
	panic("not used")
}

type fakeSigner struct {
	result *wallet.SignResult
	err    error
}

func (f *fakeSigner) Sign(ctx context.Context, unsignedTxJSON string) (*wallet.SignResult, error) {
	return f.result, f.err
}

func unsignedBatch() *types.PaymentBatch {
	tx := `{"unsigned":true}`
	return &types.PaymentBatch{ID: uuid.New(), Status: types.BatchAwaitingSignature, UnsignedTxJSON: &tx}
}

func TestProcessBatch_SuccessfulSignAdvancesToAwaitingBroadcast(t *testing.T) {
	b := unsignedBatch()
	fs := newFakeStore(b)
	fsigner := &fakeSigner{result: &wallet.SignResult{SignedTxJSON: `{"signed":true}`, ExitCode: 0}}
	w := &TransactionSigner{Store: fs, Signer: fsigner}

	w.processBatch(context.Background(), b)

	assert.Equal(t, types.BatchAwaitingBroadcast, fs.batches[b.ID].Status)
	assert.Empty(t, fs.failed)
}

func TestProcessBatch_NonZeroExitFailsBatch(t *testing.T) {
	b := unsignedBatch()
	fs := newFakeStore(b)
	fsigner := &fakeSigner{result: &wallet.SignResult{Stderr: "wallet locked", ExitCode: 1}}
	w := &TransactionSigner{Store: fs, Signer: fsigner}

	w.processBatch(context.Background(), b)

	assert.Equal(t, types.BatchFailed, fs.batches[b.ID].Status)
	require.Len(t, fs.failed, 1)
	assert.Equal(t, "wallet locked", fs.failed[0])
}

func TestProcessBatch_SpawnErrorFailsBatch(t *testing.T) {
	b := unsignedBatch()
	fs := newFakeStore(b)
	fsigner := &fakeSigner{err: assert.AnError}
	w := &TransactionSigner{Store: fs, Signer: fsigner}

	w.processBatch(context.Background(), b)

	assert.Equal(t, types.BatchFailed, fs.batches[b.ID].Status)
}

func TestProcessBatch_NoUnsignedTxFailsBatch(t *testing.T) {
	b := &types.PaymentBatch{ID: uuid.New(), Status: types.BatchAwaitingSignature}
	fs := newFakeStore(b)
	w := &TransactionSigner{Store: fs, Signer: &fakeSigner{}}

	w.processBatch(context.Background(), b)

	assert.Equal(t, types.BatchFailed, fs.batches[b.ID].Status)
}

func TestReapStale_ReclaimsBatchesPastLeaseTimeout(t *testing.T) {
	stale := &types.PaymentBatch{
		ID:        uuid.New(),
		Status:    types.BatchSigningInProgress,
		UpdatedAt: time.Now().UTC().Add(-10 * time.Minute),
	}
	fresh := &types.PaymentBatch{
		ID:        uuid.New(),
		Status:    types.BatchSigningInProgress,
		UpdatedAt: time.Now().UTC(),
	}
	fs := newFakeStore(stale, fresh)
	w := &TransactionSigner{Store: fs, LeaseTimeout: 1 * time.Minute}

	require.NoError(t, w.ReapStale(context.Background()))

	assert.Equal(t, types.BatchAwaitingSignature, fs.batches[stale.ID].Status)
	assert.Equal(t, types.BatchSigningInProgress, fs.batches[fresh.ID].Status)
}
