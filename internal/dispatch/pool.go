package dispatch

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Pool runs units of work on their own goroutines. With a positive limit at
// most limit units run at once and Go blocks until a slot frees up; with
// limit <= 0 it grows with demand.
type Pool struct {
	name string
	sem  *semaphore.Weighted
	wg   sync.WaitGroup
}

func NewPool(name string, limit int) *Pool {
	p := &Pool{name: name}
	if limit > 0 {
		p.sem = semaphore.NewWeighted(int64(limit))
	}
	return p
}

// Go schedules fn. It returns ctx's error if ctx ends while waiting for a
// slot; fn is not run in that case. A panic in fn is logged and contained.
func (p *Pool) Go(ctx context.Context, fn func()) error {
	// acquire before launching the goroutine; release inside it
	if p.sem != nil {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if p.sem != nil {
			defer p.sem.Release(1)
		}
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("pool", p.name).Interface("panic", r).Msg("worker panicked")
			}
		}()
		fn()
	}()
	return nil
}

// Wait blocks until every scheduled unit has returned.
func (p *Pool) Wait() { p.wg.Wait() }
