package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recorder collects applied values in order.
type recorder struct {
	mu     sync.Mutex
	values []int
	errs   []error
}

func (r *recorder) apply(v int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
	r.errs = append(r.errs, err)
}

func (r *recorder) applied() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.values...)
}

func TestPoller_AppliesFetchResults(t *testing.T) {
	rec := &recorder{}
	fetched := make(chan struct{}, 1)
	p := New(time.Hour, func(ctx context.Context) (int, error) {
		defer func() { fetched <- struct{}{} }()
		return 42, nil
	}, rec.apply)

	p.Start(context.Background())
	defer p.Stop()

	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("first tick never fetched")
	}
	// The apply happens right after the fetch returns; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := rec.applied(); len(got) == 1 && got[0] == 42 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("applied = %v; want [42]", rec.applied())
}

func TestPoller_StaleCompletionIsDiscarded(t *testing.T) {
	rec := &recorder{}

	first := make(chan int)
	second := make(chan int)
	var mu sync.Mutex
	calls := 0
	p := New(time.Hour, func(ctx context.Context) (int, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			return <-first, nil
		}
		return <-second, nil
	}, rec.apply)

	// Drive ticks directly for determinism: two overlapping fetches.
	ctx := context.Background()
	p.tick(ctx) // seq 1
	p.tick(ctx) // seq 2

	// Let the second (newer) tick finish first ...
	second <- 2
	waitFor(t, func() bool { return len(rec.applied()) == 1 })

	// ... then the stale first tick completes and must be dropped.
	first <- 1
	time.Sleep(50 * time.Millisecond)

	got := rec.applied()
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("applied = %v; want [2] (stale seq 1 discarded)", got)
	}
}

func TestPoller_SlowStaleApplyNeverOverwritesNewer(t *testing.T) {
	rec := &recorder{}

	// The first apply call parks inside the callback after its sequence
	// check passed, while the newer completion runs to the end. The stale
	// apply must still land before the newer one.
	firstEntered := make(chan struct{})
	release := make(chan struct{})
	firstCall := true

	p := New(time.Hour,
		func(ctx context.Context) (int, error) { return 0, nil },
		func(v int, err error) {
			if firstCall {
				firstCall = false
				close(firstEntered)
				<-release
			}
			rec.apply(v, err)
		})

	done1 := make(chan struct{})
	go func() {
		p.complete(1, 1, nil)
		close(done1)
	}()
	<-firstEntered

	done2 := make(chan struct{})
	go func() {
		p.complete(2, 2, nil)
		close(done2)
	}()

	close(release)
	<-done1
	<-done2

	got := rec.applied()
	if len(got) == 0 || got[len(got)-1] != 2 {
		t.Errorf("applied = %v; want the newer value 2 applied last", got)
	}
}

func TestPoller_OrderedCompletionsBothApply(t *testing.T) {
	rec := &recorder{}
	release := make(chan int)
	p := New(time.Hour, func(ctx context.Context) (int, error) {
		return <-release, nil
	}, rec.apply)

	ctx := context.Background()
	p.tick(ctx)
	release <- 1
	waitFor(t, func() bool { return len(rec.applied()) == 1 })

	p.tick(ctx)
	release <- 2
	waitFor(t, func() bool { return len(rec.applied()) == 2 })

	got := rec.applied()
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("applied = %v; want [1 2]", got)
	}
}

func TestPoller_NothingAppliesAfterStop(t *testing.T) {
	rec := &recorder{}
	release := make(chan int)
	p := New(time.Hour, func(ctx context.Context) (int, error) {
		return <-release, nil
	}, rec.apply)

	p.Start(context.Background())

	// A fetch is now in flight. Stop, then let it complete.
	p.Stop()
	select {
	case release <- 99:
	case <-time.After(time.Second):
		t.Fatal("in-flight fetch never drained")
	}
	time.Sleep(50 * time.Millisecond)

	if got := rec.applied(); len(got) != 0 {
		t.Errorf("applied = %v; want none after Stop", got)
	}
}

func TestPoller_StopWithoutStartReturns(t *testing.T) {
	rec := &recorder{}
	p := New(time.Hour, func(ctx context.Context) (int, error) {
		return 0, nil
	}, rec.apply)

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a poller that was never started")
	}

	// The stop still sticks: a later tick applies nothing.
	p.tick(context.Background())
	time.Sleep(50 * time.Millisecond)
	if got := rec.applied(); len(got) != 0 {
		t.Errorf("applied = %v; want none after Stop", got)
	}
}

func TestPoller_ErrorsAreHandedToApply(t *testing.T) {
	rec := &recorder{}
	wantErr := errors.New("backend down")
	p := New(time.Hour, func(ctx context.Context) (int, error) {
		return 0, wantErr
	}, rec.apply)

	p.tick(context.Background())
	waitFor(t, func() bool { return len(rec.applied()) == 1 })

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if !errors.Is(rec.errs[0], wantErr) {
		t.Errorf("err = %v; want %v", rec.errs[0], wantErr)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}
