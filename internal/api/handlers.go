package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hyperledger/firefly-common/pkg/i18n"

	"github.com/tari-project/minotari-payment-processor/internal/log"
	"github.com/tari-project/minotari-payment-processor/internal/msgs"
	"github.com/tari-project/minotari-payment-processor/internal/store"
	"github.com/tari-project/minotari-payment-processor/internal/types"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// handleSubmitPayment implements POST /payments (spec §4.3): validates the
// request, returns the existing Payment unchanged if (client_id,
// account_name) has already been seen, otherwise creates a new RECEIVED
// payment.
func (s *Server) handleSubmitPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, i18n.NewError(ctx, msgs.MsgInvalidRequestBody, err.Error()))
		return
	}

	if err := validateSubmitPayment(ctx, req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	existing, err := s.Store.GetPaymentByClientKey(ctx, req.ClientID, req.AccountName)
	if err != nil {
		log.L(ctx).WithError(err).Error("failed to check payment idempotency key")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if existing != nil {
		// Idempotency match: not an error, return the existing payment
		// unchanged regardless of its current status (spec §4.3, P1).
		writeJSON(w, http.StatusOK, existing)
		return
	}

	payment, err := s.Store.CreatePayment(ctx, req.ClientID, req.AccountName, req.RecipientAddress, req.Amount, req.PaymentID)
	if err != nil {
		log.L(ctx).WithError(err).Error("failed to create payment")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// validateSubmitPayment enforces spec §4.3's validation rules: amount >= 0,
// non-empty recipient_address, client_id, account_name.
func validateSubmitPayment(ctx context.Context, req submitPaymentRequest) error {
	switch {
	case req.ClientID == "":
		return i18n.NewError(ctx, msgs.MsgInvalidClientID)
	case req.AccountName == "":
		return i18n.NewError(ctx, msgs.MsgInvalidAccountName)
	case req.RecipientAddress == "":
		return i18n.NewError(ctx, msgs.MsgInvalidRecipientAddress)
	case req.Amount < 0:
		return i18n.NewError(ctx, msgs.MsgInvalidAmount)
	}
	return nil
}

// handleGetPayment implements GET /payments/{id} (spec §4.3, §6): a Payment
// left-joined with its Batch, Batch absent while still RECEIVED.
func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.Store.GetPaymentWithBatch(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		log.L(ctx).WithError(err).Error("failed to load payment")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListByBatch implements the non-central "list by batch" read
// endpoint (spec §4.3, §6).
func (s *Server) handleListByBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchID, err := uuid.Parse(mux.Vars(r)["batchId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	payments, err := s.Store.ListPaymentsByBatchID(ctx, batchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentListResponse{Payments: payments})
}

// handleListByStatus implements the non-central "list by status" read
// endpoint (spec §4.3, §6).
func (s *Server) handleListByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := types.PaymentStatus(mux.Vars(r)["status"])
	if !types.ValidPaymentStatuses[status] {
		writeError(w, http.StatusBadRequest, i18n.NewError(ctx, msgs.MsgUnknownPaymentState, status))
		return
	}
	payments, err := s.Store.FindPaymentsByStatus(ctx, status, 1000)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentListResponse{Payments: payments})
}
