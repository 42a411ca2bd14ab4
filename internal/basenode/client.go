// Package basenode is the RPC client for the base node Broadcaster (C6) and
// ConfirmationChecker (C7) depend on (spec §6): submit-transaction and
// query-by-id. The base node's own wire contract is out of this system's
// scope (spec §1), so the client speaks a minimal generic-message gRPC
// protocol (google.golang.org/protobuf's structpb well-known type over
// google.golang.org/grpc, the same two libraries the teacher's
// transports/grpc module depends on) rather than assuming a specific
// generated service stub.
package basenode

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	methodSubmitTransaction = "/tari.base_node.BaseNode/SubmitTransaction"
	methodQueryTransaction  = "/tari.base_node.BaseNode/QueryTransaction"
)

// RejectedError marks a definitive rejection of a signed transaction by the
// base node (policy violation, double-spend, permanent reorg) - the caller
// should call Store.FailBatch (spec §4.7, §4.8, §7).
type RejectedError struct{ Reason string }

func (e *RejectedError) Error() string { return e.Reason }

// TransientError marks a retryable network/availability failure - the
// caller should call Store.IncrementBatchRetry (spec §4.7, §7).
type TransientError struct{ Cause error }

func (e *TransientError) Error() string { return fmt.Sprintf("transient error: %s", e.Cause) }
func (e *TransientError) Unwrap() error { return e.Cause }

// Inclusion describes a base node's answer to a query-by-id (spec §4.8).
type Inclusion struct {
	// Mined is false until the node has indexed the transaction at all.
	Mined bool
	// ConfirmedDepth is true once the node considers the inclusion
	// irreversible at its own confirmation-depth policy (glossary:
	// "confirmation depth").
	ConfirmedDepth bool
	Height         int64
	HeaderHash     []byte
	Timestamp      int64
	// Rejected is true if the node has reported this transaction
	// permanently reorged out or otherwise definitively dead.
	Rejected     bool
	RejectReason string
}

// Client is the subset of the base node's API this system calls.
type Client interface {
	SubmitTransaction(ctx context.Context, signedTxJSON string) error
	QueryTransaction(ctx context.Context, txIdentifier string) (*Inclusion, error)
	Close() error
}

type grpcClient struct {
	conn *grpc.ClientConn
}

// Dial opens a gRPC channel to the base node at target (e.g. "host:18142").
func Dial(target string) (Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &grpcClient{conn: conn}, nil
}

func (c *grpcClient) Close() error { return c.conn.Close() }

func (c *grpcClient) SubmitTransaction(ctx context.Context, signedTxJSON string) error {
	req, err := structpb.NewStruct(map[string]interface{}{"signed_transaction": signedTxJSON})
	if err != nil {
		return &TransientError{Cause: err}
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, methodSubmitTransaction, req, resp); err != nil {
		return &TransientError{Cause: err}
	}
	if accepted, ok := resp.Fields["accepted"]; ok && !accepted.GetBoolValue() {
		reason := "rejected by base node"
		if r, ok := resp.Fields["reason"]; ok {
			reason = r.GetStringValue()
		}
		return &RejectedError{Reason: reason}
	}
	return nil
}

func (c *grpcClient) QueryTransaction(ctx context.Context, txIdentifier string) (*Inclusion, error) {
	req, err := structpb.NewStruct(map[string]interface{}{"transaction_id": txIdentifier})
	if err != nil {
		return nil, &TransientError{Cause: err}
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, methodQueryTransaction, req, resp); err != nil {
		return nil, &TransientError{Cause: err}
	}

	inclusion := &Inclusion{}
	if rejected, ok := resp.Fields["rejected"]; ok && rejected.GetBoolValue() {
		inclusion.Rejected = true
		if r, ok := resp.Fields["reason"]; ok {
			inclusion.RejectReason = r.GetStringValue()
		}
		return inclusion, nil
	}
	if mined, ok := resp.Fields["mined"]; ok {
		inclusion.Mined = mined.GetBoolValue()
	}
	if confirmed, ok := resp.Fields["confirmed"]; ok {
		inclusion.ConfirmedDepth = confirmed.GetBoolValue()
	}
	if height, ok := resp.Fields["height"]; ok {
		inclusion.Height = int64(height.GetNumberValue())
	}
	if hash, ok := resp.Fields["header_hash"]; ok {
		inclusion.HeaderHash = []byte(hash.GetStringValue())
	}
	if ts, ok := resp.Fields["timestamp"]; ok {
		inclusion.Timestamp = int64(ts.GetNumberValue())
	}
	return inclusion, nil
}
