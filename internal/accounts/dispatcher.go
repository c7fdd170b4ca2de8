package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher runs side effects that must not hold up the request that
// triggered them. Tasks get their own context so they outlive the request;
// panics and slow tasks are reported to the logger only.
type Dispatcher struct {
	wg      sync.WaitGroup
	log     zerolog.Logger
	timeout time.Duration
}

func NewDispatcher(log zerolog.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{log: log, timeout: timeout}
}

func (d *Dispatcher) Go(name string, fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				d.log.Error().Str("task", name).Interface("panic", p).Msg("background task panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		start := time.Now()
		fn(ctx)
		if ctx.Err() != nil {
			d.log.Warn().Str("task", name).Dur("elapsed", time.Since(start)).Msg("background task hit its deadline")
		}
	}()
}

// Wait blocks until every dispatched task has returned or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
