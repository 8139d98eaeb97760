package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"pdfmark/internal/service"
)

// ─────────────────────────────────────────────────────────────
// RunningGuard tests
// ─────────────────────────────────────────────────────────────

func TestRunningGuard_TryLock(t *testing.T) {
	var g service.ExportedRunningGuard

	if !g.TryLock("job-1") {
		t.Fatal("expected first TryLock to succeed")
	}
	if g.TryLock("job-1") {
		t.Fatal("expected second TryLock for same key to fail")
	}
	if !g.TryLock("job-2") {
		t.Fatal("expected TryLock for different key to succeed")
	}
	if g.Running() != 2 {
		t.Fatalf("expected 2 running, got %d", g.Running())
	}
	g.Unlock("job-1")
	g.Unlock("job-2")

	if !g.TryLock("job-1") {
		t.Fatal("expected TryLock to succeed after unlock")
	}
	g.Unlock("job-1")
}

func TestRunningGuard_Go(t *testing.T) {
	var g service.ExportedRunningGuard
	var ran atomic.Int32
	release := make(chan struct{})

	if !g.Go("insert-1", func() { <-release; ran.Add(1) }) {
		t.Fatal("expected Go to start")
	}
	if g.Go("insert-1", func() { ran.Add(1) }) {
		t.Fatal("expected duplicate key to be rejected")
	}
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	g.WaitAll(ctx)
	if ran.Load() != 1 {
		t.Fatalf("expected 1 run, got %d", ran.Load())
	}
	if g.Running() != 0 {
		t.Fatalf("expected nothing running, got %d", g.Running())
	}
}

func TestRunningGuard_WaitAll(t *testing.T) {
	var g service.ExportedRunningGuard

	if !g.TryLock("job-a") {
		t.Fatal("expected lock to succeed")
	}

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		g.WaitAll(ctx)
		close(done)
	}()

	go func() {
		time.Sleep(20 * time.Millisecond)
		g.Unlock("job-a")
	}()

	select {
	case <-done:
		// success
	case <-time.After(1 * time.Second):
		t.Fatal("WaitAll timed out")
	}
}

// ─────────────────────────────────────────────────────────────
// MockEmitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_RecordsEvents(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	m.Emit(ctx, "test:event", map[string]string{"foo": "bar"})
	m.Emit(ctx, "test:event2", nil)
	m.Emit(ctx, "test:event", nil)

	if len(m.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(m.Events))
	}
	if got := len(m.Named("test:event")); got != 2 {
		t.Errorf("expected 2 'test:event', got %d", got)
	}
	m.Reset()
	if len(m.Events) != 0 {
		t.Errorf("expected no events after Reset, got %d", len(m.Events))
	}
}
