package sync

import (
	"context"
	"sync"
	"time"

	"github.com/Nasirkc/smart-bookmark/internal/logger"
)

// poller is the fallback polling state machine: idle until started,
// polling on a fixed interval until stopped. start and stop are
// idempotent and may be called from status callbacks in any order.
type poller struct {
	interval time.Duration
	run      func(context.Context)
	logger   logger.Logger

	mu     sync.Mutex
	stopCh chan struct{} // non-nil while polling
}

func newPoller(interval time.Duration, run func(context.Context), log logger.Logger) *poller {
	return &poller{
		interval: interval,
		run:      run,
		logger:   log,
	}
}

func (p *poller) start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopCh != nil {
		return // already polling
	}

	stopCh := make(chan struct{})
	p.stopCh = stopCh

	p.logger.Info("fallback polling started",
		logger.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.run(ctx)
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (p *poller) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopCh == nil {
		return
	}
	close(p.stopCh)
	p.stopCh = nil

	p.logger.Info("fallback polling stopped")
}

func (p *poller) polling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.stopCh != nil
}
