package dispatch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"lodging_query/internal/dispatch"
)

func TestPool_LimitsConcurrency(t *testing.T) {
	p := dispatch.NewPool("test", 2)
	var running, peak int32
	for i := 0; i < 10; i++ {
		err := p.Go(context.Background(), func() {
			n := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
		})
		if err != nil {
			t.Fatalf("go: %v", err)
		}
	}
	p.Wait()
	if peak > 2 || peak == 0 {
		t.Fatalf("peak concurrency %d", peak)
	}
}

func TestPool_AcquireHonorsContext(t *testing.T) {
	p := dispatch.NewPool("test", 1)
	release := make(chan struct{})
	_ = p.Go(context.Background(), func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var ran atomic.Bool
	if err := p.Go(ctx, func() { ran.Store(true) }); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	close(release)
	p.Wait()
	if ran.Load() {
		t.Fatalf("fn must not run when acquire fails")
	}
}

func TestPool_RecoversPanics(t *testing.T) {
	p := dispatch.NewPool("test", 0)
	_ = p.Go(context.Background(), func() { panic("boom") })
	var ok atomic.Bool
	_ = p.Go(context.Background(), func() { ok.Store(true) })
	p.Wait()
	if !ok.Load() {
		t.Fatalf("second unit did not run")
	}
}

type fakeListener struct {
	name string
	err  error
	seen atomic.Bool
}

func (f *fakeListener) Name() string { return f.name }
func (f *fakeListener) Serve(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	f.seen.Store(true)
	return nil
}

func TestDispatcher_FailureCancelsOthers(t *testing.T) {
	boom := errors.New("bind failed")
	ok := &fakeListener{name: "udp"}
	bad := &fakeListener{name: "tcp", err: boom}

	err := dispatch.New(ok, bad).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if !ok.seen.Load() {
		t.Fatalf("healthy listener was not cancelled")
	}
}

func TestDispatcher_CleanShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a, b := &fakeListener{name: "a"}, &fakeListener{name: "b"}
	done := make(chan error, 1)
	go func() { done <- dispatch.New(a, b).Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("dispatcher did not stop")
	}
}
