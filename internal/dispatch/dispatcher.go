package dispatch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Listener is one transport bound at startup. Serve blocks until ctx is done
// or the transport fails, and returns nil on a clean shutdown.
type Listener interface {
	Name() string
	Serve(ctx context.Context) error
}

// Dispatcher runs every listener concurrently. The first listener to fail
// cancels the others.
type Dispatcher struct {
	listeners []Listener
}

func New(ls ...Listener) *Dispatcher {
	return &Dispatcher{listeners: ls}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, l := range d.listeners {
		g.Go(func() error {
			log.Info().Str("listener", l.Name()).Msg("listener started")
			if err := l.Serve(ctx); err != nil {
				return fmt.Errorf("%s: %w", l.Name(), err)
			}
			log.Info().Str("listener", l.Name()).Msg("listener stopped")
			return nil
		})
	}
	return g.Wait()
}
