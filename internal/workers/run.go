// Package workers holds the shared ticker-loop shape every worker (C3-C7)
// is built on, modeled on the teacher's orchestrator evaluation loop
// (core/go/internal/engine/orchestrator/orchestrator.go: time.NewTicker +
// select over ctx.Done()).
package workers

import (
	"context"
	"time"

	"github.com/tari-project/minotari-payment-processor/internal/log"
)

// Tick is one iteration of a worker's polling loop (spec §5, "glossary:
// tick"). Errors a tick returns are logged and do not stop the loop - a
// single failed tick does not prevent the next one (spec §7, "Storage
// failure ... the current tick aborts").
type Tick func(ctx context.Context) error

// Run drives tick on a fixed interval until ctx is cancelled. It never
// invokes tick again once shutdown begins, and never cancels a tick that is
// already in flight (spec §5, "cancellation / shutdown").
func Run(ctx context.Context, name string, interval time.Duration, tick Tick) {
	ctx = log.WithLogField(ctx, "worker", name)
	log.L(ctx).Infof("starting worker loop, interval=%s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.L(ctx).Infof("worker loop stopped")
			return
		case <-ticker.C:
			if err := tick(context.WithoutCancel(ctx)); err != nil {
				log.L(ctx).WithError(err).Error("tick failed")
			}
		}
	}
}
