// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCollectCoalescesConcurrentCallers(t *testing.T) {
	m := NewMonitor()

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	m.collectFn = func(ctx context.Context) (Snapshot, error) {
		calls.Add(1)
		close(started)
		<-release
		return Snapshot{CPUPercent: 12.5, MemoryTotal: 1 << 30}, nil
	}

	const callers = 8
	results := make([]Snapshot, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = m.Collect(context.Background())
	}()
	<-started

	// The collection is now in flight; everyone else must join it.
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Collect(context.Background())
		}(i)
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("expected one underlying collection, got %d", got)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Errorf("caller %d: unexpected error: %v", i, errs[i])
		}
		if results[i].CPUPercent != 12.5 {
			t.Errorf("caller %d: got %+v, want the shared snapshot", i, results[i])
		}
	}
}

func TestCollectPropagatesError(t *testing.T) {
	m := NewMonitor()
	wantErr := errors.New("proc unavailable")
	m.collectFn = func(ctx context.Context) (Snapshot, error) {
		return Snapshot{}, wantErr
	}

	_, err := m.Collect(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("Collect() error = %v, want %v", err, wantErr)
	}
}

func TestCollectReadsHostMetrics(t *testing.T) {
	m := NewMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap, err := m.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if snap.MemoryTotal == 0 {
		t.Error("MemoryTotal should be nonzero on a real host")
	}
	if snap.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}
