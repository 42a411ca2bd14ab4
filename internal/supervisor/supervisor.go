// Package supervisor implements the Supervisor (C8, spec §2, §5): starts
// all workers, wires configuration, and coordinates shutdown. Grounded
// directly on original_source/minotari_payment_processor/src/main.rs's
// wiring order (db -> collaborator clients -> five worker goroutines ->
// API server -> wait for shutdown signal).
package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/tari-project/minotari-payment-processor/internal/api"
	"github.com/tari-project/minotari-payment-processor/internal/basenode"
	"github.com/tari-project/minotari-payment-processor/internal/config"
	"github.com/tari-project/minotari-payment-processor/internal/log"
	"github.com/tari-project/minotari-payment-processor/internal/paymentreceiver"
	"github.com/tari-project/minotari-payment-processor/internal/store"
	"github.com/tari-project/minotari-payment-processor/internal/wallet"
	"github.com/tari-project/minotari-payment-processor/internal/workers/batchcreator"
	"github.com/tari-project/minotari-payment-processor/internal/workers/broadcaster"
	"github.com/tari-project/minotari-payment-processor/internal/workers/confirmation"
	"github.com/tari-project/minotari-payment-processor/internal/workers/signer"
	"github.com/tari-project/minotari-payment-processor/internal/workers/unsignedtx"

	"gorm.io/gorm"
)

// Supervisor owns every worker and the ingress API for one process.
type Supervisor struct {
	cfg *config.Config
	db  *gorm.DB

	batchCreator        *batchcreator.BatchCreator
	unsignedTxCreator   *unsignedtx.UnsignedTxCreator
	transactionSigner   *signer.TransactionSigner
	broadcasterWorker   *broadcaster.Broadcaster
	confirmationChecker *confirmation.ConfirmationChecker
	apiServer           *api.Server

	baseNodeClient basenode.Client
}

// New wires every component from cfg, opening the database connection and
// dialing collaborator clients (spec §2, §6).
func New(ctx context.Context, cfg *config.Config) (*Supervisor, error) {
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	st := store.New(db)

	baseNodeClient, err := basenode.Dial(cfg.BaseNodeURL)
	if err != nil {
		return nil, err
	}
	receiverClient := paymentreceiver.New(cfg.PaymentReceiverURL)
	walletSigner := &wallet.Signer{
		WalletPath: cfg.ConsoleWalletPath,
		Password:   cfg.ConsoleWalletPassword,
	}

	return &Supervisor{
		cfg:            cfg,
		db:             db,
		baseNodeClient: baseNodeClient,
		batchCreator: &batchcreator.BatchCreator{
			Store:    st,
			Interval: cfg.BatchCreator.SleepInterval,
			Limit:    cfg.BatchCreatorLimit,
		},
		unsignedTxCreator: &unsignedtx.UnsignedTxCreator{
			Store:    st,
			Client:   receiverClient,
			Interval: cfg.UnsignedTxCreator.SleepInterval,
		},
		transactionSigner: &signer.TransactionSigner{
			Store:        st,
			Signer:       walletSigner,
			Interval:     cfg.TransactionSigner.SleepInterval,
			LeaseTimeout: cfg.SignerLeaseTimeout,
		},
		broadcasterWorker: &broadcaster.Broadcaster{
			Store:    st,
			Client:   baseNodeClient,
			Interval: cfg.Broadcaster.SleepInterval,
		},
		confirmationChecker: &confirmation.ConfirmationChecker{
			Store:    st,
			Client:   baseNodeClient,
			Interval: cfg.ConfirmationChecker.SleepInterval,
		},
		apiServer: &api.Server{
			Store:      st,
			ListenIP:   cfg.ListenIP,
			ListenPort: cfg.ListenPort,
		},
	}, nil
}

// Run starts every worker and the ingress API, blocking until ctx is
// cancelled. In-flight ticks complete or are dropped with the process;
// durability is the Store's job, not the Supervisor's (spec §5,
// "cancellation / shutdown").
func (s *Supervisor) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	runWorker := func(name string, run func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run(ctx)
		}()
		log.L(ctx).Infof("%s started", name)
	}

	runWorker("batch-creator", s.batchCreator.Run)
	runWorker("unsigned-tx-creator", s.unsignedTxCreator.Run)
	runWorker("transaction-signer", s.transactionSigner.Run)
	runWorker("broadcaster", s.broadcasterWorker.Run)
	runWorker("confirmation-checker", s.confirmationChecker.Run)
	runWorker("signer-lease-reaper", s.signerReaperLoop)

	wg.Add(1)
	var apiErr error
	go func() {
		defer wg.Done()
		apiErr = s.apiServer.Start(ctx)
	}()

	log.L(ctx).Info("minotari payment processor started")
	<-ctx.Done()
	log.L(ctx).Info("shutdown signal received, waiting for workers to stop")
	wg.Wait()

	if s.baseNodeClient != nil {
		_ = s.baseNodeClient.Close()
	}
	return apiErr
}

// signerReaperLoop runs TransactionSigner.ReapStale once every
// SignerLeaseTimeout (spec §9, "signer crash recovery" - REDESIGN).
func (s *Supervisor) signerReaperLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SignerLeaseTimeout)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.transactionSigner.ReapStale(ctx); err != nil {
				log.L(ctx).WithError(err).Error("signer lease reaper tick failed")
			}
		}
	}
}
