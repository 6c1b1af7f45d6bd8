package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"latribu-backend/internal/apperr"
)

func TestLatestSupersedesPreviousCall(t *testing.T) {
	var l Latest
	started := make(chan struct{})
	firstDone := make(chan error, 1)

	go func() {
		_, err := Run(&l, context.Background(), func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done()
			return "stale", ctx.Err()
		})
		firstDone <- err
	}()
	<-started

	got, err := Run(&l, context.Background(), func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	if err != nil || got != "fresh" {
		t.Fatalf("second call = %q, %v", got, err)
	}

	select {
	case err := <-firstDone:
		if !errors.Is(err, apperr.ErrSuperseded) {
			t.Fatalf("first call err = %v, want ErrSuperseded", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("first call was not cancelled")
	}
}

func TestLatestStaleResultIsDropped(t *testing.T) {
	var l Latest
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		// Игнорирует отмену и возвращает результат позже нового вызова
		_, err := Run(&l, context.Background(), func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)

	if v, err := Run(&l, context.Background(), func(ctx context.Context) (int, error) { return 2, nil }); err != nil || v != 2 {
		t.Fatalf("second call = %d, %v", v, err)
	}
	close(release)
	if err := <-done; !errors.Is(err, apperr.ErrSuperseded) {
		t.Fatalf("stale result not dropped: %v", err)
	}
}

func TestDebouncerRunsOnlyLastTrigger(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls int32
	var last atomic.Value
	var wg sync.WaitGroup
	wg.Add(1)

	for _, v := range []string{"m", "me", "med"} {
		v := v
		d.Trigger(func() {
			atomic.AddInt32(&calls, 1)
			last.Store(v)
			wg.Done()
		})
		time.Sleep(2 * time.Millisecond)
	}
	wg.Wait()
	time.Sleep(40 * time.Millisecond)

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
	if last.Load().(string) != "med" {
		t.Fatalf("last = %v", last.Load())
	}
}

func TestDebouncerCancelAndStop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var calls int32
	d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	if !d.Pending() {
		t.Fatalf("expected pending call")
	}
	d.Cancel()
	d.Stop()
	d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("cancelled debouncer fired")
	}
}

func TestChunkedLimitsConcurrency(t *testing.T) {
	items := make([]int, 14)
	for i := range items {
		items[i] = i
	}
	var inFlight, peak int32

	results, errs := Chunked(context.Background(), items, DefaultChunkSize, func(ctx context.Context, v int) (int, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		if v == 3 {
			return 0, errors.New("boom")
		}
		return v * 10, nil
	})

	if peak > DefaultChunkSize {
		t.Fatalf("peak concurrency = %d", peak)
	}
	if errs[3] == nil || results[13] != 130 {
		t.Fatalf("unexpected results %v errs %v", results, errs)
	}
}
