package sweeper

import (
	"context"
	"sync"
	"time"

	"screenly/pkg/logger"
)

// Processor drives the sweep in the background. Passes never overlap: if
// a pass is still running when the timer fires, the tick is skipped.
type Processor struct {
	sweeper *Sweeper
	log     *logger.Logger
	done    chan struct{}
	mu      sync.Mutex
}

func NewProcessor(sweeper *Sweeper, log *logger.Logger) *Processor {
	return &Processor{
		sweeper: sweeper,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start launches the sweep loop. The first pass runs immediately; each
// subsequent delay is recomputed from the upcoming session schedule.
func (p *Processor) Start(ctx context.Context) {
	go p.run(ctx)
}

// Stop signals the loop to exit after the current pass
func (p *Processor) Stop() {
	close(p.done)
}

func (p *Processor) run(ctx context.Context) {
	p.sweepOnce(ctx)

	for {
		delay := p.sweeper.NextWakeup(ctx, time.Now().UTC())
		timer := time.NewTimer(delay)

		select {
		case <-timer.C:
			p.sweepOnce(ctx)
		case <-p.done:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (p *Processor) sweepOnce(ctx context.Context) {
	if !p.mu.TryLock() {
		return
	}
	defer p.mu.Unlock()

	if _, err := p.sweeper.Sweep(ctx, time.Now().UTC()); err != nil {
		p.log.Error("Sweep pass failed", "error", err)
	}
}
