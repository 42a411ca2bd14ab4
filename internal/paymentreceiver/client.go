// Package paymentreceiver is the HTTP client for the external unsigned-tx
// service UnsignedTxCreator (C4) calls (spec §6). It is a thin collaborator:
// the only contract this system depends on is that the service is
// idempotent on pr_idempotency_key and returns an opaque unsigned
// transaction JSON blob. Built on go-resty, the HTTP client the teacher's
// core/go module depends on throughout its RPC-facing code.
package paymentreceiver

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Recipient is one payout line item in the unsigned-tx request body.
type Recipient struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// Request is the body POSTed to the payment-receiver service (spec §6).
type Request struct {
	AccountName      string      `json:"account_name"`
	PRIdempotencyKey string      `json:"pr_idempotency_key"`
	Recipients       []Recipient `json:"recipients"`
}

// TransientError marks a retryable failure (network blip, 5xx) - the caller
// should call Store.IncrementBatchRetry, not Store.FailBatch (spec §4.5,
// §7).
type TransientError struct{ Cause error }

func (e *TransientError) Error() string { return fmt.Sprintf("transient error: %s", e.Cause) }
func (e *TransientError) Unwrap() error { return e.Cause }

// RejectedError marks a definitive structural/validation rejection from the
// service - the caller should call Store.FailBatch (spec §4.5, §7).
type RejectedError struct{ Body string }

func (e *RejectedError) Error() string { return e.Body }

// Client is the subset of the payment-receiver service's API this system
// calls.
type Client interface {
	CreateUnsignedTransaction(ctx context.Context, req Request) (unsignedTxJSON string, err error)
}

type restyClient struct {
	http *resty.Client
}

// New builds a Client against baseURL.
func New(baseURL string) Client {
	return &restyClient{http: resty.New().SetBaseURL(baseURL)}
}

func (c *restyClient) CreateUnsignedTransaction(ctx context.Context, req Request) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/unsigned-transactions")
	if err != nil {
		return "", &TransientError{Cause: err}
	}
	switch {
	case resp.StatusCode() >= 500:
		return "", &TransientError{Cause: fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String())}
	case resp.StatusCode() >= 400:
		return "", &RejectedError{Body: resp.String()}
	case resp.StatusCode() >= 200 && resp.StatusCode() < 300:
		return resp.String(), nil
	default:
		return "", &TransientError{Cause: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}
}
