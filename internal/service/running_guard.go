package service

import (
	"context"
	"sync"
)

// ExportedRunningGuard is an exported alias so _test packages can test the guard.
type ExportedRunningGuard = runningGuard

// ─────────────────────────────────────────────────────────────
// runningGuard: tracks background work so shutdown can drain it
// ─────────────────────────────────────────────────────────────

// runningGuard keeps at most one instance of a key in flight and lets
// shutdown wait for everything still running. Analytics inserts use their
// event ID as the key; retention uses a fixed key so cron runs never overlap.
type runningGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock marks key as running. It returns false if key is already running.
func (g *runningGuard) TryLock(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[key]; ok {
		return false
	}
	g.running[key] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock marks key as finished. Must be called after TryLock returns true.
func (g *runningGuard) Unlock(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, key)
	g.wg.Done()
}

// Go runs fn in a goroutine under key. It returns false without running fn
// when key is already in flight.
func (g *runningGuard) Go(key string, fn func()) bool {
	if !g.TryLock(key) {
		return false
	}
	go func() {
		defer g.Unlock(key)
		fn()
	}()
	return true
}

// Running returns the number of keys in flight.
func (g *runningGuard) Running() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.running)
}

// WaitAll blocks until all running work completes or ctx is cancelled.
func (g *runningGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
