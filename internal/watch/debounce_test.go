package watch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fires atomic.Int32
	go d.Run(ctx, func() { fires.Add(1) })

	// A burst of triggers inside the quiet window fires once.
	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fires.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := fires.Load(); got != 1 {
		t.Fatalf("expected exactly 1 fire, got %d", got)
	}
}

func TestDebouncer_SeparateBurstsFireSeparately(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fires atomic.Int32
	go d.Run(ctx, func() { fires.Add(1) })

	d.Trigger()
	waitFor(t, func() bool { return fires.Load() == 1 })

	d.Trigger()
	waitFor(t, func() bool { return fires.Load() == 2 })
}

func TestDebouncer_NoTriggerNoFire(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fires atomic.Int32
	go d.Run(ctx, func() { fires.Add(1) })

	time.Sleep(100 * time.Millisecond)
	if got := fires.Load(); got != 0 {
		t.Fatalf("expected no fires without triggers, got %d", got)
	}
}

func TestDebouncer_TriggerNeverBlocks(t *testing.T) {
	d := NewDebouncer(time.Minute)
	// No Run loop draining the channel; repeated triggers must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			d.Trigger()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Trigger blocked")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
