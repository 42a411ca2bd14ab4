// Package api is the Ingress API (C2, spec §4.3, §6): accepts payment
// submissions with client idempotency and exposes read endpoints. Built on
// gorilla/mux, the router the teacher's core/go module carries as a
// dependency.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tari-project/minotari-payment-processor/internal/log"
	"github.com/tari-project/minotari-payment-processor/internal/store"
)

// Server is the HTTP ingress for payment submission and read access.
type Server struct {
	Store      store.Store
	ListenIP   string
	ListenPort int

	httpServer *http.Server
}

// Router builds the gorilla/mux router for the two endpoints spec §6
// names, plus the two non-central list endpoints it mentions in passing.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/payments", s.handleSubmitPayment).Methods(http.MethodPost)
	r.HandleFunc("/payments/{id}", s.handleGetPayment).Methods(http.MethodGet)
	r.HandleFunc("/payments/by-batch/{batchId}", s.handleListByBatch).Methods(http.MethodGet)
	r.HandleFunc("/payments/by-status/{status}", s.handleListByStatus).Methods(http.MethodGet)
	return r
}

// Start binds the listener and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.ListenIP, fmt.Sprintf("%d", s.ListenPort))
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.L(ctx).Infof("ingress API listening on %s", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
